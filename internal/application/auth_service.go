package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// UserDirectory exposes the account lookups required by the auth service.
type UserDirectory interface {
	GetUserCredentialsByName(ctx context.Context, name string) (UserCredentials, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
}

// SessionTracker is the in-memory single-active-session policy consumed by
// the auth service.
type SessionTracker interface {
	TryLogin(user string, force bool) (string, error)
	Authenticate(user, token string) bool
	Logout(user string)
	Terminate(user string)
	Rename(oldUser, newUser string)
	CleanupExpired() int
}

// AuthMetrics receives login outcome counters. Implementations must be safe
// for concurrent use; a nil recorder disables recording.
type AuthMetrics interface {
	LoginGranted(forced bool)
	LoginRejected(reason string)
	SessionsExpired(count int)
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// PasswordHasher derives a storable hash from a plain password.
type PasswordHasher func(password string) (string, error)

// AuthService coordinates registration, login, logout, and per-request
// session validation against the tracker.
type AuthService struct {
	users          UserDirectory
	tracker        SessionTracker
	verifyPassword PasswordVerifier
	hashPassword   PasswordHasher
	now            func() time.Time
	metrics        AuthMetrics
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users UserDirectory, tracker SessionTracker, verify PasswordVerifier, hash PasswordHasher, now func() time.Time, metrics AuthMetrics, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:          users,
		tracker:        tracker,
		verifyPassword: verify,
		hashPassword:   hash,
		now:            now,
		metrics:        metrics,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register validates the requested account and stores it with a hashed
// password. The first registered account may bootstrap an administrator via
// params.Role; handlers restrict that to admin callers.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user directory not configured")
	}

	name := strings.TrimSpace(params.Name)
	logger := s.loggerWith(ctx, "Register", "name", name)

	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "name is required")
	} else if !validUserName(name) {
		vErr.add("name", "name must be 3-50 characters of letters, digits, or _-@.")
	}
	if len(params.Password) < 8 || len(params.Password) > 100 {
		vErr.add("password", "password must be 8-100 characters")
	}
	role := params.Role
	if role == 0 {
		role = RoleNormal
	}
	if role != RoleNormal && role != RoleAdmin {
		vErr.add("role", "unknown role")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		logger.ErrorContext(ctx, "failed to hash password", "error", err)
		return User{}, err
	}

	user, err := s.users.CreateUser(ctx, User{Name: name, Role: role, CreatedAt: s.now()}, hash)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	return user, nil
}

// Login verifies credentials and claims the user's single session slot.
// When a live session exists and force is unset, the typed conflict from the
// tracker propagates so callers can offer a takeover.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result LoginResult, err error) {
	if s == nil || s.users == nil || s.tracker == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	name := strings.TrimSpace(params.Name)
	logger := s.loggerWith(ctx, "Login", "name", name, "force", params.Force)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID).InfoContext(ctx, "login granted")
	}()

	if name == "" || params.Password == "" || !validUserName(name) {
		err = ErrInvalidCredentials
		return
	}

	// Opportunistic sweep before the attempt, per the tracker contract.
	if expired := s.tracker.CleanupExpired(); expired > 0 {
		if s.metrics != nil {
			s.metrics.SessionsExpired(expired)
		}
		logger.InfoContext(ctx, "expired sessions removed", "count", expired)
	}

	var creds UserCredentials
	creds, err = s.users.GetUserCredentialsByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrInvalidCredentials
		}
		if s.metrics != nil {
			s.metrics.LoginRejected("invalid_credentials")
		}
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		if s.metrics != nil {
			s.metrics.LoginRejected("invalid_credentials")
		}
		return
	}

	var token string
	token, err = s.tracker.TryLogin(creds.User.Name, params.Force)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoginRejected("session_conflict")
		}
		return
	}

	if s.metrics != nil {
		s.metrics.LoginGranted(params.Force)
	}
	result = LoginResult{User: creds.User, Token: token}
	return
}

// Logout drops the principal's session. Logging out twice is a no-op.
func (s *AuthService) Logout(ctx context.Context, principal Principal) {
	if s == nil || s.tracker == nil {
		return
	}
	s.tracker.Logout(principal.Name)
	s.loggerWith(ctx, "Logout", "user_id", principal.UserID).InfoContext(ctx, "session closed")
}

// Terminate removes another user's session on behalf of an administrator.
// Idempotent: terminating an absent session succeeds.
func (s *AuthService) Terminate(ctx context.Context, principal Principal, userID int64) error {
	if s == nil || s.users == nil || s.tracker == nil {
		return fmt.Errorf("auth service not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	s.tracker.Terminate(user.Name)
	s.loggerWith(ctx, "Terminate", "target", user.Name).InfoContext(ctx, "session terminated")
	return nil
}

// ValidateSession checks a presented name/token pair against the tracker and
// resolves the principal. Failure means the client must clear its session
// state; the tracker has already discarded the stale entry.
func (s *AuthService) ValidateSession(ctx context.Context, name, token string) (Principal, error) {
	if s == nil || s.users == nil || s.tracker == nil {
		return Principal{}, fmt.Errorf("auth service not configured")
	}

	name = strings.TrimSpace(name)
	if name == "" || token == "" {
		return Principal{}, ErrSessionExpired
	}

	if !s.tracker.Authenticate(name, token) {
		return Principal{}, ErrSessionExpired
	}

	creds, err := s.users.GetUserCredentialsByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Account removed while the session lived; drop the orphan.
			s.tracker.Terminate(name)
			return Principal{}, ErrSessionExpired
		}
		return Principal{}, err
	}

	user := creds.User
	return Principal{UserID: user.ID, Name: user.Name, IsAdmin: user.IsAdmin()}, nil
}

func validUserName(name string) bool {
	if len(name) < 3 || len(name) > 50 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '@', r == '.':
		default:
			return false
		}
	}
	return true
}
