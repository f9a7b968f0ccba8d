package application

import (
	"context"
	"fmt"
	"strings"
)

// userStoreStub implements UserStore in memory.
type userStoreStub struct {
	users      map[int64]UserCredentials
	nextID     int64
	createErr  error
	renameErr  error
	deleteErr  error
	renameTo   map[int64]string
	deletedIDs []int64
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{
		users:    make(map[int64]UserCredentials),
		nextID:   1,
		renameTo: make(map[int64]string),
	}
}

func (s *userStoreStub) seed(name, passwordHash string, role int) User {
	user := User{ID: s.nextID, Name: name, Role: role}
	s.users[user.ID] = UserCredentials{User: user, PasswordHash: passwordHash}
	s.nextID++
	return user
}

func (s *userStoreStub) CreateUser(_ context.Context, user User, passwordHash string) (User, error) {
	if s.createErr != nil {
		return User{}, s.createErr
	}
	for _, existing := range s.users {
		if existing.User.Name == user.Name {
			return User{}, ErrAlreadyExists
		}
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = UserCredentials{User: user, PasswordHash: passwordHash}
	return user, nil
}

func (s *userStoreStub) GetUser(_ context.Context, id int64) (User, error) {
	creds, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return creds.User, nil
}

func (s *userStoreStub) GetUserCredentialsByName(_ context.Context, name string) (UserCredentials, error) {
	for _, creds := range s.users {
		if creds.User.Name == name {
			return creds, nil
		}
	}
	return UserCredentials{}, ErrNotFound
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]User, error) {
	var users []User
	for _, creds := range s.users {
		users = append(users, creds.User)
	}
	return users, nil
}

func (s *userStoreStub) RenameUser(_ context.Context, id int64, newName string) error {
	if s.renameErr != nil {
		return s.renameErr
	}
	creds, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	creds.User.Name = newName
	s.users[id] = creds
	s.renameTo[id] = newName
	return nil
}

func (s *userStoreStub) DeleteUser(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

// trackerStub records session calls without real expiry bookkeeping.
type trackerStub struct {
	conflict     error
	tokens       int
	loginCalls   []string
	forceCalls   []bool
	logoutCalls  []string
	renames      [][2]string
	terminated   []string
	expiredCount int
	authOK       bool
}

func (s *trackerStub) TryLogin(user string, force bool) (string, error) {
	s.loginCalls = append(s.loginCalls, user)
	s.forceCalls = append(s.forceCalls, force)
	if s.conflict != nil && !force {
		return "", s.conflict
	}
	s.tokens++
	return fmt.Sprintf("token-%d", s.tokens), nil
}

func (s *trackerStub) Authenticate(user, token string) bool {
	return s.authOK && strings.HasPrefix(token, "token-")
}

func (s *trackerStub) Logout(user string) {
	s.logoutCalls = append(s.logoutCalls, user)
}

func (s *trackerStub) Terminate(user string) {
	s.terminated = append(s.terminated, user)
}

func (s *trackerStub) Rename(oldUser, newUser string) {
	s.renames = append(s.renames, [2]string{oldUser, newUser})
}

func (s *trackerStub) CleanupExpired() int {
	n := s.expiredCount
	s.expiredCount = 0
	return n
}

// eventRepositoryStub implements EventRepository in memory.
type eventRepositoryStub struct {
	events    map[int64]Event
	nextID    int64
	createErr error
	updateErr error
	listErr   error
	countErr  error
	purged    []string
	purgeN    int
}

func newEventRepositoryStub() *eventRepositoryStub {
	return &eventRepositoryStub{events: make(map[int64]Event), nextID: 1}
}

func (s *eventRepositoryStub) seed(event Event) Event {
	event.ID = s.nextID
	s.nextID++
	s.events[event.ID] = event
	return event
}

func (s *eventRepositoryStub) CreateEvent(_ context.Context, event Event) (Event, error) {
	if s.createErr != nil {
		return Event{}, s.createErr
	}
	event.ID = s.nextID
	s.nextID++
	s.events[event.ID] = event
	return event, nil
}

func (s *eventRepositoryStub) UpdateEvent(_ context.Context, event Event) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.events[event.ID]; !ok {
		return ErrNotFound
	}
	s.events[event.ID] = event
	return nil
}

func (s *eventRepositoryStub) GetEvent(_ context.Context, id int64) (Event, error) {
	event, ok := s.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return event, nil
}

func (s *eventRepositoryStub) ListEvents(_ context.Context, filter EventFilter) ([]Event, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Event
	for _, event := range s.events {
		if matchesEventFilter(event, filter) {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *eventRepositoryStub) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *eventRepositoryStub) CountEvents(ctx context.Context, filter EventFilter) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	events, err := s.ListEvents(ctx, filter)
	return len(events), err
}

func (s *eventRepositoryStub) PurgeEventsBefore(_ context.Context, cutoffDate string) (int, error) {
	s.purged = append(s.purged, cutoffDate)
	removed := 0
	for id, event := range s.events {
		if event.StartDate < cutoffDate {
			delete(s.events, id)
			removed++
		}
	}
	if s.purgeN > 0 {
		return s.purgeN, nil
	}
	return removed, nil
}

func matchesEventFilter(event Event, filter EventFilter) bool {
	if filter.OwnerID > 0 && event.OwnerID != filter.OwnerID {
		return false
	}
	if filter.OnDate != "" && event.StartDate != filter.OnDate {
		return false
	}
	if filter.From != "" && event.StartDate < filter.From {
		return false
	}
	if filter.To != "" && event.StartDate > filter.To {
		return false
	}
	return true
}

// taskRepositoryStub implements TaskRepository in memory.
type taskRepositoryStub struct {
	tasks     map[int64]Task
	nextID    int64
	createErr error
	updateErr error
	stateErr  error
	purged    []string
	purgeN    int
}

func newTaskRepositoryStub() *taskRepositoryStub {
	return &taskRepositoryStub{tasks: make(map[int64]Task), nextID: 1}
}

func (s *taskRepositoryStub) seed(task Task) Task {
	task.ID = s.nextID
	s.nextID++
	s.tasks[task.ID] = task
	return task
}

func (s *taskRepositoryStub) CreateTask(_ context.Context, task Task) (Task, error) {
	if s.createErr != nil {
		return Task{}, s.createErr
	}
	task.ID = s.nextID
	s.nextID++
	s.tasks[task.ID] = task
	return task, nil
}

func (s *taskRepositoryStub) UpdateTask(_ context.Context, task Task) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *taskRepositoryStub) GetTask(_ context.Context, id int64) (Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

func (s *taskRepositoryStub) ListTasks(_ context.Context, filter TaskFilter) ([]Task, error) {
	var out []Task
	for _, task := range s.tasks {
		if matchesTaskFilter(task, filter) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *taskRepositoryStub) DeleteTask(_ context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *taskRepositoryStub) SetTaskState(_ context.Context, id int64, state int) error {
	if s.stateErr != nil {
		return s.stateErr
	}
	task, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	task.State = state
	s.tasks[id] = task
	return nil
}

func (s *taskRepositoryStub) CountTasks(ctx context.Context, filter TaskFilter) (int, int, error) {
	tasks, err := s.ListTasks(ctx, filter)
	if err != nil {
		return 0, 0, err
	}
	completed := 0
	for _, task := range tasks {
		if task.State == TaskCompleted {
			completed++
		}
	}
	return len(tasks), completed, nil
}

func (s *taskRepositoryStub) PurgeTasksBefore(_ context.Context, cutoffDate string) (int, error) {
	s.purged = append(s.purged, cutoffDate)
	removed := 0
	for id, task := range s.tasks {
		if task.DueDate < cutoffDate {
			delete(s.tasks, id)
			removed++
		}
	}
	if s.purgeN > 0 {
		return s.purgeN, nil
	}
	return removed, nil
}

func matchesTaskFilter(task Task, filter TaskFilter) bool {
	if filter.OwnerID > 0 && task.OwnerID != filter.OwnerID {
		return false
	}
	if filter.OnDate != "" && task.DueDate != filter.OnDate {
		return false
	}
	if filter.From != "" && task.DueDate < filter.From {
		return false
	}
	if filter.To != "" && task.DueDate > filter.To {
		return false
	}
	if filter.State != nil && task.State != *filter.State {
		return false
	}
	return true
}

// plainHash and plainVerify stand in for argon2id in service tests.
func plainHash(password string) (string, error) {
	return "hash:" + password, nil
}

func plainVerify(hashedPassword, password string) error {
	if hashedPassword != "hash:"+password {
		return ErrInvalidCredentials
	}
	return nil
}
