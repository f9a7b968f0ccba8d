package http

import (
	"context"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	eventIDContextKey   contextKey = "event_id"
	taskIDContextKey    contextKey = "task_id"
	userIDContextKey    contextKey = "user_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated
// principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if
// available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithEventID injects the event identifier resolved from the request
// path.
func ContextWithEventID(ctx context.Context, eventID int64) context.Context {
	return context.WithValue(ctx, eventIDContextKey, eventID)
}

// EventIDFromContext extracts an event identifier previously associated with
// the context.
func EventIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(eventIDContextKey).(int64)
	return id, ok
}

// ContextWithTaskID injects the task identifier resolved from the request
// path.
func ContextWithTaskID(ctx context.Context, taskID int64) context.Context {
	return context.WithValue(ctx, taskIDContextKey, taskID)
}

// TaskIDFromContext extracts a task identifier previously associated with the
// context.
func TaskIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(taskIDContextKey).(int64)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request
// path.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the
// context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}
