package account

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

func isValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// Account is the domain representation of a storefront identity.
// It mirrors the accounts table and should not include JSON annotations so
// it can be reused by different presentation layers. The password hash is
// set only through Hasher and never leaves this package in a public view.
type Account struct {
	ID               string
	Email            string
	Phone            string
	FirstName        string
	LastName         string
	DisplayName      string
	PasswordHash     string
	Role             Role
	Country          string
	DateOfBirth      *time.Time
	Gender           string
	IsActive         bool
	FailedLoginCount int
	LockUntil        *time.Time
	LastLogin        *time.Time
	LastLoginOrigin  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicAccount is the caller-facing view of an account. It never carries
// the password hash or the failure counters.
type PublicAccount struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DisplayName string     `json:"displayName,omitempty"`
	Role        Role       `json:"role"`
	Country     string     `json:"country,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Public strips everything a caller must not see.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Email:       a.Email,
		Phone:       a.Phone,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		Country:     a.Country,
		DateOfBirth: a.DateOfBirth,
		Gender:      a.Gender,
		LastLogin:   a.LastLogin,
		CreatedAt:   a.CreatedAt,
	}
}

// RegisterRequest contains registration data supplied by callers.
// DateOfBirth, when present, must be an ISO date (2006-01-02).
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	DisplayName string `json:"displayName"`
	Country     string `json:"country"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

// LoginRequest contains login credentials. LoginField is either an email
// address or an Iranian mobile number in any accepted prefix form.
type LoginRequest struct {
	LoginField string `json:"loginField"`
	Password   string `json:"password"`
}

// UpdateProfileRequest carries the mutable profile fields. A nil field is
// left untouched; a present field is validated before it is applied.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DisplayName *string `json:"displayName"`
	Phone       *string `json:"phone"`
	Country     *string `json:"country"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
}

// AuthResult bundles a freshly issued token, its display lifetime label and
// the authenticated account. The label is informational; the expiry claim
// inside the token is authoritative.
type AuthResult struct {
	Token     string
	ExpiresIn string
	Account   Account
}
