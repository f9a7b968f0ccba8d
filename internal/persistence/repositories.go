package persistence

import "context"

// EventFilter narrows event queries. A zero OwnerID means no owner filter;
// empty date bounds mean unbounded.
type EventFilter struct {
	OwnerID int64
	OnDate  string
	From    string
	To      string
}

// TaskFilter narrows task queries. State selects pending or completed tasks
// when non-nil.
type TaskFilter struct {
	OwnerID int64
	OnDate  string
	From    string
	To      string
	State   *int
}

// EventRepository exposes CRUD operations for events, ordered by start date
// ascending on listings.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id int64) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	CountEvents(ctx context.Context, filter EventFilter) (int, error)
	PurgeEventsBefore(ctx context.Context, date string) (int, error)
}

// TaskRepository exposes CRUD operations for tasks, ordered by due date
// ascending on listings.
type TaskRepository interface {
	CreateTask(ctx context.Context, task Task) (Task, error)
	UpdateTask(ctx context.Context, task Task) error
	SetTaskState(ctx context.Context, id int64, state int) error
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	DeleteTask(ctx context.Context, id int64) error
	CountTasks(ctx context.Context, filter TaskFilter) (total, completed int, err error)
	PurgeTasksBefore(ctx context.Context, date string) (int, error)
}

// UserRepository exposes account storage. Names are unique.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByName(ctx context.Context, name string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	RenameUser(ctx context.Context, id int64, newName string) error
	DeleteUser(ctx context.Context, id int64) error
}
