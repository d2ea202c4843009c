package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mugshop/audit"
)

var (
	// ErrInvalidCredentials signals a wrong identifier or wrong password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	// ErrAccountLocked signals a login attempt against a presently locked account.
	ErrAccountLocked = errors.New("account: temporarily locked")
	// ErrAccountInactive signals an operation on a deactivated account.
	ErrAccountInactive = errors.New("account: deactivated")
	// ErrStoreUnavailable signals a timed-out or unreachable credential store;
	// callers may retry.
	ErrStoreUnavailable = errors.New("account: store unavailable")
)

// LockedError carries the remaining lock duration alongside ErrAccountLocked.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account: temporarily locked, retry in %s", e.RetryAfter)
}

func (e *LockedError) Unwrap() error { return ErrAccountLocked }

// ValidationError reports malformed or missing caller input. It is always
// recoverable by the caller and never logged as a security event.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("account: invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

const (
	minPasswordLength = 6

	// Every credential-store call is bounded; a slow store fails the whole
	// operation as retryable rather than partially applying state.
	storeTimeout = 5 * time.Second

	dateLayout = "2006-01-02"
)

// AuditSink receives security-relevant events. Recording is best-effort:
// a sink failure never fails the user-facing operation.
type AuditSink interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Service orchestrates registration, login, token refresh and profile
// operations over the credential store, hasher, lockout policy and issuer.
type Service struct {
	repo    Repository
	hasher  Hasher
	tokens  *TokenIssuer
	lockout LockoutPolicy
	sink    AuditSink
	log     *zap.Logger
	clock   Clock
}

// NewService creates the session service. sink may be nil; log and clock
// default to a nop logger and the wall clock.
func NewService(repo Repository, hasher Hasher, tokens *TokenIssuer, sink AuditSink, log *zap.Logger, clock Clock) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		lockout: DefaultLockoutPolicy(),
		sink:    sink,
		log:     log,
		clock:   clock,
	}
}

// Register validates and creates a customer account, then issues a 24h
// customer token.
func (s *Service) Register(ctx context.Context, req RegisterRequest, origin string) (AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	switch {
	case req.FirstName == "":
		return AuthResult{}, invalidField("firstName", "required")
	case req.LastName == "":
		return AuthResult{}, invalidField("lastName", "required")
	case req.Email == "":
		return AuthResult{}, invalidField("email", "required")
	case req.Password == "":
		return AuthResult{}, invalidField("password", "required")
	case req.Phone == "":
		return AuthResult{}, invalidField("phone", "required")
	}

	if !IsEmail(req.Email) {
		return AuthResult{}, invalidField("email", "not a valid address")
	}

	phone := NormalizePhone(req.Phone)
	if !IsCanonicalPhone(phone) {
		return AuthResult{}, invalidField("phone", "not a valid mobile number")
	}

	if !validGender(req.Gender) {
		return AuthResult{}, invalidField("gender", "must be male, female or other")
	}

	dateOfBirth, err := parseDate(req.DateOfBirth)
	if err != nil {
		return AuthResult{}, invalidField("dateOfBirth", "must be an ISO date (2006-01-02)")
	}

	if err := s.checkUnique(ctx, req.Email, phone); err != nil {
		return AuthResult{}, err
	}

	if len(req.Password) < minPasswordLength {
		return AuthResult{}, invalidField("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	sctx, cancel := withStoreTimeout(ctx)
	acc, err := s.repo.Create(sctx, CreateParams{
		Email:        req.Email,
		Phone:        phone,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: passwordHash,
		Role:         RoleCustomer,
		Country:      strings.TrimSpace(req.Country),
		DateOfBirth:  dateOfBirth,
		Gender:       req.Gender,
	})
	cancel()
	if err != nil {
		return AuthResult{}, storeErr(err)
	}

	params := RegistrationParams()
	token, err := s.tokens.Issue(acc, params)
	if err != nil {
		return AuthResult{}, err
	}

	s.record(ctx, audit.Entry{
		AccountID:   acc.ID,
		Action:      audit.ActionRegister,
		Description: "account created",
		Origin:      origin,
	})
	s.log.Info("account registered", zap.String("account_id", acc.ID))

	return AuthResult{Token: token, ExpiresIn: params.Label, Account: acc}, nil
}

// Login authenticates by email or mobile number. The lockout policy is
// consulted before any hashing work, failed attempts evolve the counters
// atomically in the store, and a success resets them and stamps the
// last-login fields.
func (s *Service) Login(ctx context.Context, req LoginRequest, origin string) (AuthResult, error) {
	login := strings.TrimSpace(req.LoginField)
	if login == "" {
		return AuthResult{}, invalidField("loginField", "required")
	}
	if req.Password == "" {
		return AuthResult{}, invalidField("password", "required")
	}

	var (
		acc  Account
		err  error
		kind string
	)
	sctx, cancel := withStoreTimeout(ctx)
	switch {
	case IsEmail(login):
		kind = "email"
		acc, err = s.repo.FindByEmail(sctx, login)
	case IsPhoneCandidate(login):
		kind = "phone"
		acc, err = s.repo.FindByPhone(sctx, NormalizePhone(login))
	default:
		cancel()
		return AuthResult{}, invalidField("loginField", "not an email address or mobile number")
	}
	cancel()

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("login attempt for unknown identifier",
				zap.String("kind", kind),
				zap.String("identifier", login))
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, storeErr(err)
	}

	if !acc.IsActive {
		s.log.Warn("login attempt on deactivated account", zap.String("account_id", acc.ID))
		return AuthResult{}, ErrInvalidCredentials
	}

	now := s.clock()
	if ok, retryAfter := s.lockout.MayAttempt(acc, now); !ok {
		s.log.Warn("login attempt on locked account",
			zap.String("account_id", acc.ID),
			zap.Duration("retry_after", retryAfter))
		return AuthResult{}, &LockedError{RetryAfter: retryAfter}
	}

	ok, err := s.hasher.Verify(req.Password, acc.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		s.applyFailure(ctx, acc, origin, now)
		return AuthResult{}, ErrInvalidCredentials
	}

	sctx, cancel = withStoreTimeout(ctx)
	acc, err = s.repo.RecordSuccess(sctx, acc.ID, now, origin)
	cancel()
	if err != nil {
		return AuthResult{}, storeErr(err)
	}

	params := ParamsForRole(acc.Role)
	token, err := s.tokens.Issue(acc, params)
	if err != nil {
		return AuthResult{}, err
	}

	s.record(ctx, audit.Entry{
		AccountID:   acc.ID,
		Action:      audit.ActionLogin,
		Description: "login via " + kind,
		Origin:      origin,
	})

	return AuthResult{Token: token, ExpiresIn: params.Label, Account: acc}, nil
}

// applyFailure persists one failed attempt. The increment happens in the
// store so concurrent failures count correctly; if the attempt armed the
// lock, that is audited.
func (s *Service) applyFailure(ctx context.Context, acc Account, origin string, now time.Time) {
	sctx, cancel := withStoreTimeout(ctx)
	updated, err := s.repo.RecordFailure(sctx, acc.ID, s.lockout, now)
	cancel()
	if err != nil {
		s.log.Error("failed to persist login failure", zap.String("account_id", acc.ID), zap.Error(err))
		return
	}

	if updated.LockUntil != nil && updated.LockUntil.After(now) && updated.FailedLoginCount == 0 {
		s.log.Warn("account locked after repeated failures",
			zap.String("account_id", acc.ID),
			zap.Time("lock_until", *updated.LockUntil))
		s.record(ctx, audit.Entry{
			AccountID:   acc.ID,
			Action:      audit.ActionLockout,
			Description: fmt.Sprintf("locked until %s", updated.LockUntil.UTC().Format(time.RFC3339)),
			Origin:      origin,
		})
		return
	}

	s.log.Info("failed login attempt",
		zap.String("account_id", acc.ID),
		zap.Int("failed_count", updated.FailedLoginCount))
}

// Refresh issues a new token for an already-authenticated subject. See
// RefreshParams for the lifetime/audience caveat.
func (s *Service) Refresh(ctx context.Context, accountID string) (AuthResult, error) {
	sctx, cancel := withStoreTimeout(ctx)
	acc, err := s.repo.FindByID(sctx, accountID)
	cancel()
	if err != nil {
		return AuthResult{}, storeErr(err)
	}
	if !acc.IsActive {
		return AuthResult{}, ErrAccountInactive
	}

	params := RefreshParams()
	token, err := s.tokens.Issue(acc, params)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, ExpiresIn: params.Label, Account: acc}, nil
}

// Logout has no server-side session to tear down; the client discards the
// token. The event is still audited.
func (s *Service) Logout(ctx context.Context, accountID, origin string) {
	s.record(ctx, audit.Entry{
		AccountID: accountID,
		Action:    audit.ActionLogout,
		Origin:    origin,
	})
	s.log.Info("logout", zap.String("account_id", accountID))
}

// CurrentIdentity verifies the presented token and returns the live account
// it names. The account may have changed (or vanished) since issuance.
func (s *Service) CurrentIdentity(ctx context.Context, tokenString string) (Account, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return Account{}, err
	}

	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()
	acc, err := s.repo.FindByID(sctx, claims.Subject)
	if err != nil {
		return Account{}, storeErr(err)
	}
	return acc, nil
}

// VerifyToken exposes stateless token verification for transport middleware.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	return s.tokens.Verify(tokenString)
}

// UpdateProfile validates and applies the present fields for the
// authenticated subject only.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, req UpdateProfileRequest) (Account, error) {
	update := ProfileUpdate{
		DisplayName: req.DisplayName,
		Country:     req.Country,
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return Account{}, invalidField("firstName", "must not be empty")
		}
		update.FirstName = &name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return Account{}, invalidField("lastName", "must not be empty")
		}
		update.LastName = &name
	}
	if req.Phone != nil {
		phone := NormalizePhone(*req.Phone)
		if !IsCanonicalPhone(phone) {
			return Account{}, invalidField("phone", "not a valid mobile number")
		}
		update.Phone = &phone
	}
	if req.Gender != nil {
		if !validGender(*req.Gender) {
			return Account{}, invalidField("gender", "must be male, female or other")
		}
		update.Gender = req.Gender
	}
	if req.DateOfBirth != nil {
		dateOfBirth, err := parseDate(*req.DateOfBirth)
		if err != nil || dateOfBirth == nil {
			return Account{}, invalidField("dateOfBirth", "must be an ISO date (2006-01-02)")
		}
		update.DateOfBirth = dateOfBirth
	}

	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()
	acc, err := s.repo.UpdateProfile(sctx, accountID, update)
	if err != nil {
		return Account{}, storeErr(err)
	}

	s.record(ctx, audit.Entry{
		AccountID: acc.ID,
		Action:    audit.ActionProfileUpdate,
	})
	return acc, nil
}

// checkUnique rejects registrations that would collide on email or phone.
// The unique indexes remain the backstop for concurrent registrations.
func (s *Service) checkUnique(ctx context.Context, email, phone string) error {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if _, err := s.repo.FindByEmail(sctx, email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return storeErr(err)
	}

	if _, err := s.repo.FindByPhone(sctx, phone); err == nil {
		return ErrDuplicatePhone
	} else if !errors.Is(err, ErrNotFound) {
		return storeErr(err)
	}

	return nil
}

func (s *Service) record(ctx context.Context, entry audit.Entry) {
	if s.sink == nil {
		return
	}
	// Outlive the request context so a client disconnect cannot drop the entry.
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	_ = s.sink.Record(sctx, entry)
}

func withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// storeErr marks timed-out store interactions as retryable; domain
// sentinels pass through untouched.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

func validGender(gender string) bool {
	switch gender {
	case "", "male", "female", "other":
		return true
	default:
		return false
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
