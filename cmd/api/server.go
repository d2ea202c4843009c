package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"mugshop/account"
	"mugshop/audit"
	"mugshop/catalog"
)

// AccountService is the session-service surface consumed by the HTTP layer.
type AccountService interface {
	Register(ctx context.Context, req account.RegisterRequest, origin string) (account.AuthResult, error)
	Login(ctx context.Context, req account.LoginRequest, origin string) (account.AuthResult, error)
	Refresh(ctx context.Context, accountID string) (account.AuthResult, error)
	Logout(ctx context.Context, accountID, origin string)
	CurrentIdentity(ctx context.Context, token string) (account.Account, error)
	UpdateProfile(ctx context.Context, accountID string, req account.UpdateProfileRequest) (account.Account, error)
	VerifyToken(token string) (account.Claims, error)
}

// CatalogService is the catalog surface consumed by the HTTP layer.
type CatalogService interface {
	List(ctx context.Context, filters catalog.ListFilters) ([]catalog.Product, int, error)
	GetByID(ctx context.Context, id int64) (catalog.Product, error)
	Create(ctx context.Context, params catalog.CreateParams) (catalog.Product, error)
	Update(ctx context.Context, id int64, params catalog.CreateParams) (catalog.Product, error)
	Delete(ctx context.Context, id int64) error
}

// AuditService exposes the audit trail to the back office.
type AuditService interface {
	Recent(ctx context.Context, limit int) ([]audit.Entry, error)
}

// Server routes storefront and back-office requests to the domain services.
type Server struct {
	accounts AccountService
	catalog  CatalogService
	auditlog AuditService
	log      *zap.Logger
	mux      *http.ServeMux
}

// NewServer wires the services into a routed Server.
func NewServer(accounts AccountService, catalogSvc CatalogService, auditlog AuditService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		accounts: accounts,
		catalog:  catalogSvc,
		auditlog: auditlog,
		log:      log,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/refresh", s.authenticated(s.handleRefresh))
	s.mux.HandleFunc("POST /api/auth/logout", s.authenticated(s.handleLogout))
	s.mux.HandleFunc("GET /api/auth/me", s.handleMe)
	s.mux.HandleFunc("PUT /api/auth/profile", s.authenticated(s.handleUpdateProfile))

	s.mux.HandleFunc("GET /api/products", s.handleListProducts)
	s.mux.HandleFunc("GET /api/products/{id}", s.handleProduct)
	s.mux.HandleFunc("POST /api/products", s.authenticated(s.requireRole(s.handleCreateProduct, account.RoleStaff, account.RoleAdmin)))
	s.mux.HandleFunc("PUT /api/products/{id}", s.authenticated(s.requireRole(s.handleUpdateProduct, account.RoleStaff, account.RoleAdmin)))
	s.mux.HandleFunc("DELETE /api/products/{id}", s.authenticated(s.requireRole(s.handleDeleteProduct, account.RoleStaff, account.RoleAdmin)))

	s.mux.HandleFunc("GET /api/audit", s.authenticated(s.requireRole(s.handleAuditLog, account.RoleAdmin)))
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
