package main

import (
	"net/http"

	"mugshop/account"
)

type authResponse struct {
	Token     string                `json:"token"`
	ExpiresIn string                `json:"expiresIn"`
	Account   account.PublicAccount `json:"account"`
}

func toAuthResponse(res account.AuthResult) authResponse {
	return authResponse{
		Token:     res.Token,
		ExpiresIn: res.ExpiresIn,
		Account:   res.Account.Public(),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	res, err := s.accounts.Register(r.Context(), req, clientOrigin(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResponse(res))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	res, err := s.accounts.Login(r.Context(), req, clientOrigin(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(res))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res, err := s.accounts.Refresh(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(res))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.accounts.Logout(r.Context(), accountIDFrom(r.Context()), clientOrigin(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	acc, err := s.accounts.CurrentIdentity(r.Context(), token)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc.Public())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req account.UpdateProfileRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	acc, err := s.accounts.UpdateProfile(r.Context(), accountIDFrom(r.Context()), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc.Public())
}
