package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// UserStore widens UserDirectory with the administrative account operations.
type UserStore interface {
	UserDirectory
	ListUsers(ctx context.Context) ([]User, error)
	RenameUser(ctx context.Context, id int64, newName string) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserService exposes account administration. Listing, creating, and
// deleting accounts is restricted to administrators; renaming is allowed for
// the account holder as well.
type UserService struct {
	users   UserStore
	tracker SessionTracker
	auth    *AuthService
	now     func() time.Time
	logger  *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore, tracker SessionTracker, auth *AuthService, now func() time.Time, logger *slog.Logger) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:   users,
		tracker: tracker,
		auth:    auth,
		now:     now,
		logger:  defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// List returns every account ordered by name. Administrators only.
func (s *UserService) List(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user store not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	return s.users.ListUsers(ctx)
}

// Get loads one account. Administrators may read any account; others only
// their own.
func (s *UserService) Get(ctx context.Context, principal Principal, userID int64) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user store not configured")
	}
	if !principal.IsAdmin && principal.UserID != userID {
		return User{}, ErrUnauthorized
	}
	return s.users.GetUser(ctx, userID)
}

// Create registers a new account on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, principal Principal, params RegisterParams) (User, error) {
	if s == nil || s.auth == nil {
		return User{}, fmt.Errorf("auth service not configured")
	}
	if !principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	return s.auth.Register(ctx, params)
}

// Rename changes an account name. The live session, if any, moves with the
// account so the holder stays logged in.
func (s *UserService) Rename(ctx context.Context, principal Principal, userID int64, newName string) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user store not configured")
	}
	if !principal.IsAdmin && principal.UserID != userID {
		return User{}, ErrUnauthorized
	}

	newName = strings.TrimSpace(newName)
	logger := s.loggerWith(ctx, "Rename", "user_id", userID)

	if !validUserName(newName) {
		vErr := &ValidationError{}
		vErr.add("name", "name must be 3-50 characters of letters, digits, or _-@.")
		return User{}, vErr
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if user.Name == newName {
		return user, nil
	}

	if err := s.users.RenameUser(ctx, userID, newName); err != nil {
		logger.ErrorContext(ctx, "failed to rename user", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}
	if s.tracker != nil {
		s.tracker.Rename(user.Name, newName)
	}

	user.Name = newName
	logger.InfoContext(ctx, "user renamed", "name", newName)
	return user, nil
}

// Delete removes an account and drops its session. Administrators only; an
// administrator cannot delete their own account while using it.
func (s *UserService) Delete(ctx context.Context, principal Principal, userID int64) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user store not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if principal.UserID == userID {
		vErr := &ValidationError{}
		vErr.add("id", "cannot delete the account in use")
		return vErr
	}

	logger := s.loggerWith(ctx, "Delete", "user_id", userID)

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if s.tracker != nil {
		s.tracker.Terminate(user.Name)
	}

	logger.InfoContext(ctx, "user deleted", "name", user.Name)
	return nil
}
