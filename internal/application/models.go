package application

import "time"

// Role values stored for users.
const (
	RoleNormal = 1
	RoleAdmin  = 3
)

// Task states.
const (
	TaskPending   = 0
	TaskCompleted = 1
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  int64
	Name    string
	IsAdmin bool
}

// EventInput captures caller provided event fields. Dates are canonical
// YYYY-MM-DD strings and times canonical HH:MM strings; optional bounds are
// empty when absent.
type EventInput struct {
	Name        string
	Description string
	StartDate   string
	StartTime   string
	EndDate     string
	EndTime     string
}

// Event represents a persisted calendar event.
type Event struct {
	ID          int64
	Name        string
	Description string
	StartDate   string
	StartTime   string
	EndDate     string
	EndTime     string
	OwnerID     int64
	CreatedAt   time.Time
}

// TaskInput captures caller provided task fields.
type TaskInput struct {
	Name        string
	Description string
	DueDate     string
	DueTime     string
	Priority    int
}

// Task represents a persisted task with its completion state.
type Task struct {
	ID          int64
	Name        string
	Description string
	DueDate     string
	DueTime     string
	Priority    int
	State       int
	OwnerID     int64
	CreatedAt   time.Time
}

// User represents a planner account.
type User struct {
	ID        int64
	Name      string
	Role      int
	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// CreateEventParams wraps the data required to create an event.
type CreateEventParams struct {
	Principal Principal
	Input     EventInput
}

// UpdateEventParams wraps the data required to update an existing event.
type UpdateEventParams struct {
	Principal Principal
	EventID   int64
	Input     EventInput
}

// MoveEventParams wraps a calendar drag-and-drop move. Only the bounds
// change; the not-in-the-past rule is relaxed while format and range checks
// still apply.
type MoveEventParams struct {
	Principal Principal
	EventID   int64
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

// CreateTaskParams wraps the data required to create a task.
type CreateTaskParams struct {
	Principal Principal
	Input     TaskInput
}

// UpdateTaskParams wraps the data required to update an existing task.
type UpdateTaskParams struct {
	Principal Principal
	TaskID    int64
	Input     TaskInput
	State     int
}

// RegisterParams wraps the data required to register a user.
type RegisterParams struct {
	Name     string
	Password string
	Role     int
}

// LoginParams captures a login attempt. Force requests a takeover of any
// live session held by the same user identity.
type LoginParams struct {
	Name     string
	Password string
	Force    bool
}

// LoginResult captures the outcome of a successful login.
type LoginResult struct {
	User  User
	Token string
}

// DashboardSummary aggregates the landing-page counters and listings.
type DashboardSummary struct {
	TodayEvents    []Event
	TodayTasks     []Task
	WeekTotal      int
	WeekCompleted  int
	TomorrowEvents int
	WeekEvents     int
}

// PurgeResult reports how many stale records an administrative purge removed.
type PurgeResult struct {
	Events int
	Tasks  int
}
