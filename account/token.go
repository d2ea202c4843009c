package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

var (
	// ErrTokenExpired signals a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("account: token expired")
	// ErrTokenMalformed signals a token with a bad signature or structure.
	ErrTokenMalformed = errors.New("account: token malformed")
)

const (
	customerIssuer   = "mugshop"
	customerAudience = "mugshop-app"
	staffIssuer      = "mugshop-admin"
	staffAudience    = "mugshop-admin-panel"
)

// Claims is the decoded payload of a session token. Session is a fresh
// per-issuance marker used only for client-side tracking; it plays no part
// in revocation.
type Claims struct {
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenParams bundle the role-dependent issuance inputs.
type TokenParams struct {
	TTL      time.Duration
	Label    string
	Issuer   string
	Audience string
}

// ParamsForRole selects lifetime, issuer and audience by role: customers
// get the long-lived storefront audience, staff and admins the short-lived
// admin-panel one.
func ParamsForRole(role Role) TokenParams {
	if role == RoleCustomer {
		return TokenParams{TTL: 24 * time.Hour, Label: "24h", Issuer: customerIssuer, Audience: customerAudience}
	}
	return TokenParams{TTL: 4 * time.Hour, Label: "4h", Issuer: staffIssuer, Audience: staffAudience}
}

// RegistrationParams are the parameters used by the registration flow,
// which always issues a customer token.
func RegistrationParams() TokenParams {
	return ParamsForRole(RoleCustomer)
}

// RefreshParams mirror the admin panel's refresh button: a refreshed token
// always carries the staff lifetime and audience, whatever the subject's
// actual role.
//
// TODO: a customer session refreshed here receives an admin-audience token;
// confirm product intent before exposing refresh on the storefront client.
func RefreshParams() TokenParams {
	return ParamsForRole(RoleStaff)
}

// TokenIssuer mints and verifies stateless session tokens. Verification
// never consults storage, so a deactivated account can still present a
// structurally valid, unexpired token until it runs out.
type TokenIssuer struct {
	secret []byte
	clock  Clock
}

// NewTokenIssuer builds an issuer around the process-wide signing secret.
func NewTokenIssuer(secret string, clock Clock) *TokenIssuer {
	if clock == nil {
		clock = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), clock: clock}
}

// Issue signs a token for the account with the given parameters and returns
// the compact form. Every issuance carries a fresh KSUID session marker, so
// no two tokens ever share one.
func (i *TokenIssuer) Issue(acc Account, params TokenParams) (string, error) {
	now := i.clock()
	claims := Claims{
		Email:   acc.Email,
		Role:    acc.Role,
		Session: ksuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			Issuer:    params.Issuer,
			Audience:  jwt.ClaimStrings{params.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(params.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("account: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and decodes the claims. Expired and
// malformed tokens are distinguished so callers can log them apart, though
// both surface as "unauthenticated" to clients.
func (i *TokenIssuer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(i.clock))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenMalformed
	}

	if !token.Valid || claims.Subject == "" || !isValidRole(claims.Role) {
		return Claims{}, ErrTokenMalformed
	}
	return claims, nil
}
