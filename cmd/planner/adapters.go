package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/persistence"
)

// mapStorageError translates persistence sentinels into the application
// taxonomy so services and handlers never see driver-level errors.
func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrConstraintViolation):
		return fmt.Errorf("%w: %v", application.ErrAlreadyExists, err)
	case errors.Is(err, persistence.ErrInvalidInput):
		return &application.ValidationError{FieldErrors: map[string]string{
			"input": err.Error(),
		}}
	default:
		return err
	}
}

type userStoreAdapter struct {
	repo persistence.UserRepository
}

func newUserStoreAdapter(repo persistence.UserRepository) *userStoreAdapter {
	return &userStoreAdapter{repo: repo}
}

func (a *userStoreAdapter) GetUserCredentialsByName(ctx context.Context, name string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByName(ctx, name)
	if err != nil {
		return application.UserCredentials{}, mapStorageError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *userStoreAdapter) GetUser(ctx context.Context, id int64) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userStoreAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	stored, err := a.repo.CreateUser(ctx, persistence.User{
		Name:         user.Name,
		PasswordHash: passwordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userStoreAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *userStoreAdapter) RenameUser(ctx context.Context, id int64, newName string) error {
	return mapStorageError(a.repo.RenameUser(ctx, id, newName))
}

func (a *userStoreAdapter) DeleteUser(ctx context.Context, id int64) error {
	return mapStorageError(a.repo.DeleteUser(ctx, id))
}

type eventRepositoryAdapter struct {
	repo persistence.EventRepository
}

func newEventRepositoryAdapter(repo persistence.EventRepository) *eventRepositoryAdapter {
	return &eventRepositoryAdapter{repo: repo}
}

func (a *eventRepositoryAdapter) CreateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	stored, err := a.repo.CreateEvent(ctx, toPersistenceEvent(event))
	if err != nil {
		return application.Event{}, mapStorageError(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) UpdateEvent(ctx context.Context, event application.Event) error {
	return mapStorageError(a.repo.UpdateEvent(ctx, toPersistenceEvent(event)))
}

func (a *eventRepositoryAdapter) GetEvent(ctx context.Context, id int64) (application.Event, error) {
	stored, err := a.repo.GetEvent(ctx, id)
	if err != nil {
		return application.Event{}, mapStorageError(err)
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) ListEvents(ctx context.Context, filter application.EventFilter) ([]application.Event, error) {
	models, err := a.repo.ListEvents(ctx, persistence.EventFilter{
		OwnerID: filter.OwnerID,
		OnDate:  filter.OnDate,
		From:    filter.From,
		To:      filter.To,
	})
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	events := make([]application.Event, 0, len(models))
	for _, model := range models {
		events = append(events, toApplicationEvent(model))
	}
	return events, nil
}

func (a *eventRepositoryAdapter) DeleteEvent(ctx context.Context, id int64) error {
	return mapStorageError(a.repo.DeleteEvent(ctx, id))
}

func (a *eventRepositoryAdapter) CountEvents(ctx context.Context, filter application.EventFilter) (int, error) {
	count, err := a.repo.CountEvents(ctx, persistence.EventFilter{
		OwnerID: filter.OwnerID,
		OnDate:  filter.OnDate,
		From:    filter.From,
		To:      filter.To,
	})
	if err != nil {
		return 0, mapStorageError(err)
	}
	return count, nil
}

func (a *eventRepositoryAdapter) PurgeEventsBefore(ctx context.Context, cutoffDate string) (int, error) {
	removed, err := a.repo.PurgeEventsBefore(ctx, cutoffDate)
	if err != nil {
		return 0, mapStorageError(err)
	}
	return removed, nil
}

type taskRepositoryAdapter struct {
	repo persistence.TaskRepository
}

func newTaskRepositoryAdapter(repo persistence.TaskRepository) *taskRepositoryAdapter {
	return &taskRepositoryAdapter{repo: repo}
}

func (a *taskRepositoryAdapter) CreateTask(ctx context.Context, task application.Task) (application.Task, error) {
	stored, err := a.repo.CreateTask(ctx, toPersistenceTask(task))
	if err != nil {
		return application.Task{}, mapStorageError(err)
	}
	return toApplicationTask(stored), nil
}

func (a *taskRepositoryAdapter) UpdateTask(ctx context.Context, task application.Task) error {
	return mapStorageError(a.repo.UpdateTask(ctx, toPersistenceTask(task)))
}

func (a *taskRepositoryAdapter) SetTaskState(ctx context.Context, id int64, state int) error {
	return mapStorageError(a.repo.SetTaskState(ctx, id, state))
}

func (a *taskRepositoryAdapter) GetTask(ctx context.Context, id int64) (application.Task, error) {
	stored, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return application.Task{}, mapStorageError(err)
	}
	return toApplicationTask(stored), nil
}

func (a *taskRepositoryAdapter) ListTasks(ctx context.Context, filter application.TaskFilter) ([]application.Task, error) {
	models, err := a.repo.ListTasks(ctx, toPersistenceTaskFilter(filter))
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	tasks := make([]application.Task, 0, len(models))
	for _, model := range models {
		tasks = append(tasks, toApplicationTask(model))
	}
	return tasks, nil
}

func (a *taskRepositoryAdapter) DeleteTask(ctx context.Context, id int64) error {
	return mapStorageError(a.repo.DeleteTask(ctx, id))
}

func (a *taskRepositoryAdapter) CountTasks(ctx context.Context, filter application.TaskFilter) (int, int, error) {
	total, completed, err := a.repo.CountTasks(ctx, toPersistenceTaskFilter(filter))
	if err != nil {
		return 0, 0, mapStorageError(err)
	}
	return total, completed, nil
}

func (a *taskRepositoryAdapter) PurgeTasksBefore(ctx context.Context, cutoffDate string) (int, error) {
	removed, err := a.repo.PurgeTasksBefore(ctx, cutoffDate)
	if err != nil {
		return 0, mapStorageError(err)
	}
	return removed, nil
}

func toPersistenceTaskFilter(filter application.TaskFilter) persistence.TaskFilter {
	var state *int
	if filter.State != nil {
		value := *filter.State
		state = &value
	}
	return persistence.TaskFilter{
		OwnerID: filter.OwnerID,
		OnDate:  filter.OnDate,
		From:    filter.From,
		To:      filter.To,
		State:   state,
	}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:        model.ID,
		Name:      model.Name,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

func toApplicationEvent(model persistence.Event) application.Event {
	return application.Event{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		StartDate:   model.StartDate,
		StartTime:   model.StartTime,
		EndDate:     model.EndDate,
		EndTime:     model.EndTime,
		OwnerID:     model.OwnerID,
		CreatedAt:   model.CreatedAt,
	}
}

func toPersistenceEvent(event application.Event) persistence.Event {
	return persistence.Event{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		StartDate:   event.StartDate,
		StartTime:   event.StartTime,
		EndDate:     event.EndDate,
		EndTime:     event.EndTime,
		OwnerID:     event.OwnerID,
		CreatedAt:   event.CreatedAt,
	}
}

func toApplicationTask(model persistence.Task) application.Task {
	return application.Task{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		DueDate:     model.DueDate,
		DueTime:     model.DueTime,
		Priority:    model.Priority,
		State:       model.State,
		OwnerID:     model.OwnerID,
		CreatedAt:   model.CreatedAt,
	}
}

func toPersistenceTask(task application.Task) persistence.Task {
	return persistence.Task{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		DueDate:     task.DueDate,
		DueTime:     task.DueTime,
		Priority:    task.Priority,
		State:       task.State,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
	}
}
