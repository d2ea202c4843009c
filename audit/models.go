package audit

import "time"

// Actions recorded by the session service and the back-office handlers.
const (
	ActionRegister      = "register"
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionLockout       = "lockout"
	ActionProfileUpdate = "profile_update"
)

// Entry is one append-only audit record. AccountID may be empty when the
// event could not be tied to an account.
type Entry struct {
	ID          int64
	AccountID   string
	Action      string
	Description string
	Origin      string
	CreatedAt   time.Time
}
