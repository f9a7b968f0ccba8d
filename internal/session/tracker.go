// Package session enforces the planner's single-active-session policy: each
// user identity holds at most one recognized live session, expired by
// inactivity or absolute age, replaceable through an explicit forced login.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// DefaultTTL is the inactivity window after which a session expires.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxAge caps a session's total lifetime regardless of activity.
	DefaultMaxAge = 24 * time.Hour

	tokenBytes = 32
)

// ActiveSessionError reports a login rejected because the user already holds
// a live session. Remaining is how long that session stays valid without
// further activity; callers surface it as a retryable conflict and may offer
// a forced login.
type ActiveSessionError struct {
	Remaining time.Duration
}

// Error implements the error interface.
func (e *ActiveSessionError) Error() string {
	return fmt.Sprintf("session: active session exists, expires in %d minute(s)", e.MinutesRemaining())
}

// MinutesRemaining rounds the remaining validity up to whole minutes.
func (e *ActiveSessionError) MinutesRemaining() int {
	if e == nil || e.Remaining <= 0 {
		return 0
	}
	return int(math.Ceil(e.Remaining.Minutes()))
}

type entry struct {
	token      string
	lastActive time.Time
	issuedAt   time.Time
}

// Tracker is the process-wide map from user identity to its active session.
// Every lookup-compare-mutate sequence holds the lock; TryLogin and
// Authenticate are check-then-act and would race without it.
type Tracker struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	maxAge   time.Duration
	now      func() time.Time
	newToken func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock injects the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTokenSource injects the session token generator. Defaults to a
// URL-safe random token of 32 bytes.
func WithTokenSource(newToken func() string) Option {
	return func(t *Tracker) {
		if newToken != nil {
			t.newToken = newToken
		}
	}
}

// WithTTL overrides the inactivity timeout.
func WithTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithMaxAge overrides the absolute session lifetime cap.
func WithMaxAge(maxAge time.Duration) Option {
	return func(t *Tracker) {
		if maxAge > 0 {
			t.maxAge = maxAge
		}
	}
}

// NewTracker constructs a tracker with the supplied options.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		entries:  make(map[string]entry),
		ttl:      DefaultTTL,
		maxAge:   DefaultMaxAge,
		now:      time.Now,
		newToken: randomToken,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TryLogin attempts to open a session for user. With no live entry it grants
// a fresh token. With a live entry it rejects unless force is set or the
// entry has already expired; the newest successful login always wins and the
// superseded token stops authenticating immediately.
func (t *Tracker) TryLogin(user string, force bool) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if e, ok := t.entries[user]; ok && !force {
		idle := now.Sub(e.lastActive)
		if idle < t.ttl && now.Sub(e.issuedAt) <= t.maxAge {
			return "", &ActiveSessionError{Remaining: t.ttl - idle}
		}
	}

	token := t.newToken()
	t.entries[user] = entry{token: token, lastActive: now, issuedAt: now}
	return token, nil
}

// Authenticate reports whether token is the live session token for user.
// Success slides the inactivity window forward. An expired entry is removed;
// a mismatched token merely fails, so a stray request carrying a superseded
// token cannot evict the session that replaced it.
func (t *Tracker) Authenticate(user, token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[user]
	if !ok {
		return false
	}

	now := t.now()
	if t.expiredLocked(e, now) {
		delete(t.entries, user)
		return false
	}
	if e.token != token {
		return false
	}

	e.lastActive = now
	t.entries[user] = e
	return true
}

// Logout removes the user's session. Absence is a normal state, not an error.
func (t *Tracker) Logout(user string) {
	t.mu.Lock()
	delete(t.entries, user)
	t.mu.Unlock()
}

// Terminate is the administrative form of Logout. Idempotent.
func (t *Tracker) Terminate(user string) {
	t.Logout(user)
}

// Rename moves a live session under a changed user identity, preserving the
// token and refreshing activity. It is not a fresh login: the issue time, and
// with it the absolute age cutoff, carries over.
func (t *Tracker) Rename(oldUser, newUser string) {
	if oldUser == newUser {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[oldUser]
	if !ok {
		return
	}
	delete(t.entries, oldUser)

	now := t.now()
	if t.expiredLocked(e, now) {
		return
	}
	e.lastActive = now
	t.entries[newUser] = e
}

// CleanupExpired discards every expired entry and returns how many were
// removed. The count is observability only.
func (t *Tracker) CleanupExpired() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for user, e := range t.entries {
		if t.expiredLocked(e, now) {
			delete(t.entries, user)
			removed++
		}
	}
	return removed
}

// ActiveCount returns the number of live, unexpired sessions.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	count := 0
	for _, e := range t.entries {
		if !t.expiredLocked(e, now) {
			count++
		}
	}
	return count
}

func (t *Tracker) expiredLocked(e entry, now time.Time) bool {
	if now.Sub(e.lastActive) > t.ttl {
		return true
	}
	return now.Sub(e.issuedAt) > t.maxAge
}

func randomToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("session: token source failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
