// Package testfixtures provides deterministic builders shared by the
// planner's test suites: fixed clocks, sequential session tokens, record
// fixtures, and a SQLite harness backed by a temporary database.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/persistence"
)

var (
	userCounter  uint64
	eventCounter uint64
	taskCounter  uint64
)

var referenceTime = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures:
// a Tuesday morning, so week-bound assertions have weekdays on both sides.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic account record that can be
// materialised for application or persistence tests.
type UserFixture struct {
	ID           int64
	Name         string
	PasswordHash string
	Role         int
	CreatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		ID:           int64(idx),
		Name:         fmt.Sprintf("user%03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         application.RoleNormal,
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id int64) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserName overrides the generated account name.
func WithUserName(name string) UserOption {
	return func(f *UserFixture) {
		f.Name = name
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// WithUserRole sets the role on the generated fixture.
func WithUserRole(role int) UserOption {
	return func(f *UserFixture) {
		f.Role = role
	}
}

// AsAdmin marks the fixture as an administrator account.
func AsAdmin() UserOption {
	return WithUserRole(application.RoleAdmin)
}

// WithUserCreatedAt sets the created timestamp on the fixture.
func WithUserCreatedAt(t time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = t
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:        f.ID,
		Name:      f.Name,
		Role:      f.Role,
		CreatedAt: f.CreatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{
		UserID:  f.ID,
		Name:    f.Name,
		IsAdmin: f.Role == application.RoleAdmin,
	}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Name:         f.Name,
		PasswordHash: f.PasswordHash,
		Role:         f.Role,
		CreatedAt:    f.CreatedAt,
	}
}

// ----------------------------- Event fixtures ----------------------------

// EventFixture represents a deterministic calendar event record.
type EventFixture struct {
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

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides. Successive fixtures land on successive days after the
// reference date.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	day := referenceTime.AddDate(0, 0, int(idx))
	fixture := EventFixture{
		ID:        int64(idx),
		Name:      fmt.Sprintf("Event %03d", idx),
		StartDate: day.Format("2006-01-02"),
		StartTime: "09:00",
		OwnerID:   1,
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the generated event ID.
func WithEventID(id int64) EventOption {
	return func(f *EventFixture) {
		f.ID = id
	}
}

// WithEventName overrides the generated name.
func WithEventName(name string) EventOption {
	return func(f *EventFixture) {
		f.Name = name
	}
}

// WithEventDescription sets the description.
func WithEventDescription(description string) EventOption {
	return func(f *EventFixture) {
		f.Description = description
	}
}

// WithEventStart sets the start date and time.
func WithEventStart(date, clock string) EventOption {
	return func(f *EventFixture) {
		f.StartDate = date
		f.StartTime = clock
	}
}

// WithEventEnd sets the end date and time.
func WithEventEnd(date, clock string) EventOption {
	return func(f *EventFixture) {
		f.EndDate = date
		f.EndTime = clock
	}
}

// WithEventOwner sets the owning account.
func WithEventOwner(ownerID int64) EventOption {
	return func(f *EventFixture) {
		f.OwnerID = ownerID
	}
}

// WithEventCreatedAt sets the created timestamp.
func WithEventCreatedAt(t time.Time) EventOption {
	return func(f *EventFixture) {
		f.CreatedAt = t
	}
}

// Application returns the fixture as an application.Event value.
func (f EventFixture) Application() application.Event {
	return application.Event{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		StartDate:   f.StartDate,
		StartTime:   f.StartTime,
		EndDate:     f.EndDate,
		EndTime:     f.EndTime,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
	}
}

// Input returns the fixture as an application.EventInput.
func (f EventFixture) Input() application.EventInput {
	return application.EventInput{
		Name:        f.Name,
		Description: f.Description,
		StartDate:   f.StartDate,
		StartTime:   f.StartTime,
		EndDate:     f.EndDate,
		EndTime:     f.EndTime,
	}
}

// Persistence returns the fixture as a persistence.Event value.
func (f EventFixture) Persistence() persistence.Event {
	return persistence.Event{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		StartDate:   f.StartDate,
		StartTime:   f.StartTime,
		EndDate:     f.EndDate,
		EndTime:     f.EndTime,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
	}
}

// ----------------------------- Task fixtures -----------------------------

// TaskFixture represents a deterministic task record.
type TaskFixture struct {
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

// TaskOption configures the generated task fixture.
type TaskOption func(*TaskFixture)

// NewTaskFixture returns a deterministic task fixture with optional
// overrides. Tasks default to pending with medium priority.
func NewTaskFixture(opts ...TaskOption) TaskFixture {
	idx := atomic.AddUint64(&taskCounter, 1)
	day := referenceTime.AddDate(0, 0, int(idx))
	fixture := TaskFixture{
		ID:        int64(idx),
		Name:      fmt.Sprintf("Task %03d", idx),
		DueDate:   day.Format("2006-01-02"),
		Priority:  2,
		State:     application.TaskPending,
		OwnerID:   1,
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithTaskID overrides the generated task ID.
func WithTaskID(id int64) TaskOption {
	return func(f *TaskFixture) {
		f.ID = id
	}
}

// WithTaskName overrides the generated name.
func WithTaskName(name string) TaskOption {
	return func(f *TaskFixture) {
		f.Name = name
	}
}

// WithTaskDescription sets the description.
func WithTaskDescription(description string) TaskOption {
	return func(f *TaskFixture) {
		f.Description = description
	}
}

// WithTaskDue sets the due date and optional due time.
func WithTaskDue(date, clock string) TaskOption {
	return func(f *TaskFixture) {
		f.DueDate = date
		f.DueTime = clock
	}
}

// WithTaskPriority sets the priority.
func WithTaskPriority(priority int) TaskOption {
	return func(f *TaskFixture) {
		f.Priority = priority
	}
}

// Completed marks the task as completed.
func Completed() TaskOption {
	return func(f *TaskFixture) {
		f.State = application.TaskCompleted
	}
}

// WithTaskOwner sets the owning account.
func WithTaskOwner(ownerID int64) TaskOption {
	return func(f *TaskFixture) {
		f.OwnerID = ownerID
	}
}

// WithTaskCreatedAt sets the created timestamp.
func WithTaskCreatedAt(t time.Time) TaskOption {
	return func(f *TaskFixture) {
		f.CreatedAt = t
	}
}

// Application returns the fixture as an application.Task value.
func (f TaskFixture) Application() application.Task {
	return application.Task{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		Priority:    f.Priority,
		State:       f.State,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
	}
}

// Input returns the fixture as an application.TaskInput.
func (f TaskFixture) Input() application.TaskInput {
	return application.TaskInput{
		Name:        f.Name,
		Description: f.Description,
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		Priority:    f.Priority,
	}
}

// Persistence returns the fixture as a persistence.Task value.
func (f TaskFixture) Persistence() persistence.Task {
	return persistence.Task{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		Priority:    f.Priority,
		State:       f.State,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
	}
}
