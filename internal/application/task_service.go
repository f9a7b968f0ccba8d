package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// TaskFilter narrows task queries the same way EventFilter narrows events,
// with State selecting pending or completed tasks when non-nil.
type TaskFilter struct {
	OwnerID int64
	OnDate  string
	From    string
	To      string
	State   *int
}

// TaskRepository persists tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, task Task) (Task, error)
	UpdateTask(ctx context.Context, task Task) error
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	DeleteTask(ctx context.Context, id int64) error
	SetTaskState(ctx context.Context, id int64, state int) error
	CountTasks(ctx context.Context, filter TaskFilter) (total, completed int, err error)
	PurgeTasksBefore(ctx context.Context, cutoffDate string) (int, error)
}

// TaskService owns the task lifecycle, including the state toggle used by
// the dashboard checkboxes.
type TaskService struct {
	tasks     TaskRepository
	summaries SummaryInvalidator
	now       func() time.Time
	logger    *slog.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(tasks TaskRepository, summaries SummaryInvalidator, now func() time.Time, logger *slog.Logger) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		tasks:     tasks,
		summaries: summaries,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

func (s *TaskService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TaskService", operation, attrs...)
}

func normalizeTaskInput(input TaskInput) TaskInput {
	return TaskInput{
		Name:        validate.SanitizeText(input.Name),
		Description: validate.SanitizeText(input.Description),
		DueDate:     validate.OptionalText(input.DueDate),
		DueTime:     validate.OptionalText(input.DueTime),
		Priority:    input.Priority,
	}
}

func (s *TaskService) validateTaskInput(input TaskInput, pastCheck bool) error {
	vErr := &ValidationError{}

	if !validate.NotBlank(input.Name) {
		vErr.add("name", "name is required")
	} else if !validate.SafeText(input.Name, 100, true) {
		vErr.add("name", "name contains invalid characters or exceeds 100 characters")
	}
	if input.Description != "" && !validate.SafeText(input.Description, 500, false) {
		vErr.add("description", "description contains invalid characters or exceeds 500 characters")
	}

	if input.DueDate == "" {
		vErr.add("due_date", "due date is required")
	} else if !validate.DateFormat(input.DueDate) {
		vErr.add("due_date", "due date must use the YYYY-MM-DD format")
	}
	if input.DueTime != "" && !validate.TimeFormat(input.DueTime) {
		vErr.add("due_time", "due time must use the HH:MM format")
	}
	if !validate.PriorityValue(input.Priority) {
		vErr.add("priority", "priority must be 1, 2, or 3")
	}
	if vErr.HasErrors() {
		return vErr
	}

	if pastCheck && !validate.DateTimeNotPast(input.DueDate, input.DueTime, s.now()) {
		vErr.add("due_date", "due date must not be in the past")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func authorizeTask(principal Principal, task Task) error {
	if principal.IsAdmin || task.OwnerID == principal.UserID {
		return nil
	}
	return ErrUnauthorized
}

// Create validates and stores a new pending task owned by the principal.
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}
	if params.Principal.UserID <= 0 {
		return Task{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Create", "user_id", params.Principal.UserID)

	input := normalizeTaskInput(params.Input)
	if err := s.validateTaskInput(input, true); err != nil {
		return Task{}, err
	}

	task, err := s.tasks.CreateTask(ctx, Task{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     input.DueDate,
		DueTime:     input.DueTime,
		Priority:    input.Priority,
		State:       TaskPending,
		OwnerID:     params.Principal.UserID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create task", "error", err, "error_kind", ErrorKind(err))
		return Task{}, err
	}

	s.invalidate(params.Principal.UserID)
	logger.With("task_id", task.ID).InfoContext(ctx, "task created")
	return task, nil
}

// Update replaces a stored task's fields, including its state.
func (s *TaskService) Update(ctx context.Context, params UpdateTaskParams) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}

	logger := s.loggerWith(ctx, "Update", "user_id", params.Principal.UserID, "task_id", params.TaskID)

	task, err := s.tasks.GetTask(ctx, params.TaskID)
	if err != nil {
		return Task{}, err
	}
	if err := authorizeTask(params.Principal, task); err != nil {
		logger.WarnContext(ctx, "task update denied")
		return Task{}, err
	}

	input := normalizeTaskInput(params.Input)
	if err := s.validateTaskInput(input, true); err != nil {
		return Task{}, err
	}
	if !validate.StateValue(params.State) {
		vErr := &ValidationError{}
		vErr.add("state", "state must be 0 or 1")
		return Task{}, vErr
	}

	task.Name = input.Name
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.DueTime = input.DueTime
	task.Priority = input.Priority
	task.State = params.State

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		logger.ErrorContext(ctx, "failed to update task", "error", err, "error_kind", ErrorKind(err))
		return Task{}, err
	}

	s.invalidate(task.OwnerID)
	logger.InfoContext(ctx, "task updated")
	return task, nil
}

// SetState flips one task between pending and completed without touching the
// other fields. The dashboard checkbox calls this.
func (s *TaskService) SetState(ctx context.Context, principal Principal, taskID int64, state int) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}

	logger := s.loggerWith(ctx, "SetState", "user_id", principal.UserID, "task_id", taskID, "state", state)

	if !validate.StateValue(state) {
		vErr := &ValidationError{}
		vErr.add("state", "state must be 0 or 1")
		return Task{}, vErr
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if err := authorizeTask(principal, task); err != nil {
		logger.WarnContext(ctx, "task state change denied")
		return Task{}, err
	}

	if err := s.tasks.SetTaskState(ctx, taskID, state); err != nil {
		logger.ErrorContext(ctx, "failed to set task state", "error", err, "error_kind", ErrorKind(err))
		return Task{}, err
	}

	task.State = state
	s.invalidate(task.OwnerID)
	logger.InfoContext(ctx, "task state changed")
	return task, nil
}

// Get loads one task the principal may see.
func (s *TaskService) Get(ctx context.Context, principal Principal, taskID int64) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if err := authorizeTask(principal, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// List returns the principal's tasks, optionally narrowed by date or state.
func (s *TaskService) List(ctx context.Context, principal Principal, filter TaskFilter) ([]Task, error) {
	if s == nil || s.tasks == nil {
		return nil, fmt.Errorf("task repository not configured")
	}
	if principal.UserID <= 0 {
		return nil, ErrUnauthorized
	}

	filter.OwnerID = principal.UserID
	return s.tasks.ListTasks(ctx, filter)
}

// Delete removes one task after the ownership check.
func (s *TaskService) Delete(ctx context.Context, principal Principal, taskID int64) error {
	if s == nil || s.tasks == nil {
		return fmt.Errorf("task repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "user_id", principal.UserID, "task_id", taskID)

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := authorizeTask(principal, task); err != nil {
		logger.WarnContext(ctx, "task delete denied")
		return err
	}

	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		logger.ErrorContext(ctx, "failed to delete task", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.invalidate(task.OwnerID)
	logger.InfoContext(ctx, "task deleted")
	return nil
}

func (s *TaskService) invalidate(ownerID int64) {
	if s.summaries != nil {
		s.summaries.Invalidate(ownerID)
	}
}
