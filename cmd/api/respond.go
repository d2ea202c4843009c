package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"mugshop/account"
	"mugshop/catalog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps domain errors onto HTTP statuses. Anything
// unrecognized is logged and hidden behind a 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *account.ValidationError
	var locked *account.LockedError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, catalog.ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &locked):
		retryAfter := int(math.Ceil(locked.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusLocked, "account temporarily locked")
	case errors.Is(err, account.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, account.ErrDuplicatePhone):
		writeError(w, http.StatusConflict, "phone already registered")
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, account.ErrTokenExpired), errors.Is(err, account.ErrTokenMalformed):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, account.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "account disabled")
	case errors.Is(err, account.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, account.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable")
	default:
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Any("request_id", r.Context().Value(ctxKeyRequestID)),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
