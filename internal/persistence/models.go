package persistence

import "time"

// Event is the persisted row for a calendar event. Dates and times are
// canonical strings ("YYYY-MM-DD" / "HH:MM"); whatever shape the driver
// returns is normalized at the scan boundary and never escapes this package.
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

// Task is the persisted row for a task.
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

// User is the persisted row for an account, password hash included.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	Role         int
	CreatedAt    time.Time
}
