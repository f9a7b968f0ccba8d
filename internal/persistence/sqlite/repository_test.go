package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PeteerDHeras/proyectoFinal/internal/persistence"
	"github.com/PeteerDHeras/proyectoFinal/internal/testfixtures"
)

func seedOwner(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.UserOption) persistence.User {
	t.Helper()

	user, err := h.Users.CreateUser(context.Background(), testfixtures.NewUserFixture(opts...).Persistence())
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	t.Run("create assigns an id and round-trips", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)

		created := seedOwner(t, h, testfixtures.WithUserName("alice"))
		if created.ID == 0 {
			t.Fatal("expected an assigned id")
		}

		byID, err := h.Users.GetUser(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		byName, err := h.Users.GetUserByName(context.Background(), "alice")
		if err != nil {
			t.Fatalf("GetUserByName failed: %v", err)
		}
		if byID.ID != byName.ID || byID.PasswordHash != created.PasswordHash {
			t.Fatalf("lookups disagree: %+v vs %+v", byID, byName)
		}
	})

	t.Run("duplicate names violate the constraint", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)

		seedOwner(t, h, testfixtures.WithUserName("alice"))
		_, err := h.Users.CreateUser(context.Background(), testfixtures.NewUserFixture(testfixtures.WithUserName("alice")).Persistence())
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("rejects malformed names before touching the database", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)

		fixture := testfixtures.NewUserFixture(testfixtures.WithUserName("a b"))
		if _, err := h.Users.CreateUser(context.Background(), fixture.Persistence()); !errors.Is(err, persistence.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rename moves the unique name", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)

		user := seedOwner(t, h, testfixtures.WithUserName("alice"))
		if err := h.Users.RenameUser(context.Background(), user.ID, "alice2"); err != nil {
			t.Fatalf("RenameUser failed: %v", err)
		}
		if _, err := h.Users.GetUserByName(context.Background(), "alice"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("old name should be gone, got %v", err)
		}
		renamed, err := h.Users.GetUserByName(context.Background(), "alice2")
		if err != nil || renamed.ID != user.ID {
			t.Fatalf("renamed lookup failed: %v (%+v)", err, renamed)
		}
	})

	t.Run("delete cascades to owned records", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)

		user := seedOwner(t, h)
		event := testfixtures.NewEventFixture(testfixtures.WithEventOwner(user.ID))
		if _, err := h.Events.CreateEvent(context.Background(), event.Persistence()); err != nil {
			t.Fatalf("failed to seed event: %v", err)
		}
		task := testfixtures.NewTaskFixture(testfixtures.WithTaskOwner(user.ID))
		if _, err := h.Tasks.CreateTask(context.Background(), task.Persistence()); err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}

		if err := h.Users.DeleteUser(context.Background(), user.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}

		events, err := h.Events.ListEvents(context.Background(), persistence.EventFilter{OwnerID: user.ID})
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		tasks, err := h.Tasks.ListTasks(context.Background(), persistence.TaskFilter{OwnerID: user.ID})
		if err != nil {
			t.Fatalf("ListTasks failed: %v", err)
		}
		if len(events) != 0 || len(tasks) != 0 {
			t.Fatalf("cascade left %d events and %d tasks", len(events), len(tasks))
		}
	})

	t.Run("list orders by name", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)

		seedOwner(t, h, testfixtures.WithUserName("carol"))
		seedOwner(t, h, testfixtures.WithUserName("alice"))
		seedOwner(t, h, testfixtures.WithUserName("bob"))

		users, err := h.Users.ListUsers(context.Background())
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 3 || users[0].Name != "alice" || users[2].Name != "carol" {
			t.Fatalf("unexpected ordering: %+v", users)
		}
	})
}

func TestEventRepository(t *testing.T) {
	t.Parallel()

	t.Run("create and get round-trip canonical fields", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		fixture := testfixtures.NewEventFixture(
			testfixtures.WithEventOwner(owner.ID),
			testfixtures.WithEventStart("2025-06-11", "09:30"),
			testfixtures.WithEventEnd("2025-06-11", "10:30"),
			testfixtures.WithEventDescription("quarterly review"),
		)
		created, err := h.Events.CreateEvent(context.Background(), fixture.Persistence())
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if created.ID == 0 {
			t.Fatal("expected an assigned id")
		}

		got, err := h.Events.GetEvent(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.StartDate != "2025-06-11" || got.StartTime != "09:30" || got.EndTime != "10:30" {
			t.Fatalf("bounds did not round-trip: %+v", got)
		}
		if got.Description != "quarterly review" {
			t.Fatalf("description did not round-trip: %q", got.Description)
		}
	})

	t.Run("rejects inverted ranges", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		fixture := testfixtures.NewEventFixture(
			testfixtures.WithEventOwner(owner.ID),
			testfixtures.WithEventStart("2025-06-11", "10:00"),
			testfixtures.WithEventEnd("2025-06-10", ""),
		)
		if _, err := h.Events.CreateEvent(context.Background(), fixture.Persistence()); !errors.Is(err, persistence.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("list filters by owner and date window in order", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		alice := seedOwner(t, h)
		bob := seedOwner(t, h)

		seed := func(ownerID int64, date, clock string) {
			t.Helper()
			fixture := testfixtures.NewEventFixture(
				testfixtures.WithEventOwner(ownerID),
				testfixtures.WithEventStart(date, clock),
			)
			if _, err := h.Events.CreateEvent(context.Background(), fixture.Persistence()); err != nil {
				t.Fatalf("failed to seed event: %v", err)
			}
		}
		seed(alice.ID, "2025-06-12", "14:00")
		seed(alice.ID, "2025-06-11", "09:00")
		seed(alice.ID, "2025-06-11", "08:00")
		seed(alice.ID, "2025-06-20", "09:00")
		seed(bob.ID, "2025-06-11", "09:00")

		events, err := h.Events.ListEvents(context.Background(), persistence.EventFilter{
			OwnerID: alice.ID,
			From:    "2025-06-11",
			To:      "2025-06-13",
		})
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("len(events) = %d, want 3", len(events))
		}
		if events[0].StartTime != "08:00" || events[1].StartTime != "09:00" || events[2].StartDate != "2025-06-12" {
			t.Fatalf("unexpected ordering: %+v", events)
		}

		count, err := h.Events.CountEvents(context.Background(), persistence.EventFilter{OwnerID: alice.ID, OnDate: "2025-06-11"})
		if err != nil {
			t.Fatalf("CountEvents failed: %v", err)
		}
		if count != 2 {
			t.Fatalf("count = %d, want 2", count)
		}
	})

	t.Run("update rewrites the row and missing ids map to not found", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		created, err := h.Events.CreateEvent(context.Background(), testfixtures.NewEventFixture(testfixtures.WithEventOwner(owner.ID)).Persistence())
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		created.Name = "Renamed"
		if err := h.Events.UpdateEvent(context.Background(), created); err != nil {
			t.Fatalf("UpdateEvent failed: %v", err)
		}
		got, err := h.Events.GetEvent(context.Background(), created.ID)
		if err != nil || got.Name != "Renamed" {
			t.Fatalf("update did not stick: %v (%+v)", err, got)
		}

		missing := created
		missing.ID = 9999
		if err := h.Events.UpdateEvent(context.Background(), missing); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("purge removes rows strictly before the cutoff", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		for _, date := range []string{"2025-06-01", "2025-06-06", "2025-06-07", "2025-06-10"} {
			fixture := testfixtures.NewEventFixture(
				testfixtures.WithEventOwner(owner.ID),
				testfixtures.WithEventStart(date, "09:00"),
			)
			if _, err := h.Events.CreateEvent(context.Background(), fixture.Persistence()); err != nil {
				t.Fatalf("failed to seed event: %v", err)
			}
		}

		removed, err := h.Events.PurgeEventsBefore(context.Background(), "2025-06-07")
		if err != nil {
			t.Fatalf("PurgeEventsBefore failed: %v", err)
		}
		if removed != 2 {
			t.Fatalf("removed = %d, want 2", removed)
		}

		remaining, err := h.Events.ListEvents(context.Background(), persistence.EventFilter{OwnerID: owner.ID})
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(remaining) != 2 || remaining[0].StartDate != "2025-06-07" {
			t.Fatalf("boundary row should survive: %+v", remaining)
		}
	})

	t.Run("delete removes the row once", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		created, err := h.Events.CreateEvent(context.Background(), testfixtures.NewEventFixture(testfixtures.WithEventOwner(owner.ID)).Persistence())
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if err := h.Events.DeleteEvent(context.Background(), created.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if err := h.Events.DeleteEvent(context.Background(), created.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on repeat, got %v", err)
		}
	})
}

func TestTaskRepository(t *testing.T) {
	t.Parallel()

	t.Run("create defaults survive the round-trip", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		fixture := testfixtures.NewTaskFixture(
			testfixtures.WithTaskOwner(owner.ID),
			testfixtures.WithTaskDue("2025-06-13", "17:00"),
			testfixtures.WithTaskPriority(3),
		)
		created, err := h.Tasks.CreateTask(context.Background(), fixture.Persistence())
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		got, err := h.Tasks.GetTask(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Priority != 3 || got.State != 0 || got.DueTime != "17:00" {
			t.Fatalf("unexpected task: %+v", got)
		}
	})

	t.Run("rejects out-of-range priorities and states", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		bad := testfixtures.NewTaskFixture(testfixtures.WithTaskOwner(owner.ID), testfixtures.WithTaskPriority(4))
		if _, err := h.Tasks.CreateTask(context.Background(), bad.Persistence()); !errors.Is(err, persistence.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for priority, got %v", err)
		}
		if err := h.Tasks.SetTaskState(context.Background(), 1, 2); !errors.Is(err, persistence.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for state, got %v", err)
		}
	})

	t.Run("set state flips only the completion flag", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		created, err := h.Tasks.CreateTask(context.Background(), testfixtures.NewTaskFixture(testfixtures.WithTaskOwner(owner.ID)).Persistence())
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		if err := h.Tasks.SetTaskState(context.Background(), created.ID, 1); err != nil {
			t.Fatalf("SetTaskState failed: %v", err)
		}
		got, err := h.Tasks.GetTask(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.State != 1 || got.Name != created.Name {
			t.Fatalf("unexpected task after toggle: %+v", got)
		}
	})

	t.Run("counts split totals and completions within a window", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		seed := func(date string, opts ...testfixtures.TaskOption) {
			t.Helper()
			opts = append(opts, testfixtures.WithTaskOwner(owner.ID), testfixtures.WithTaskDue(date, ""))
			if _, err := h.Tasks.CreateTask(context.Background(), testfixtures.NewTaskFixture(opts...).Persistence()); err != nil {
				t.Fatalf("failed to seed task: %v", err)
			}
		}
		seed("2025-06-09", testfixtures.Completed())
		seed("2025-06-10")
		seed("2025-06-12", testfixtures.Completed())
		seed("2025-06-20")

		total, completed, err := h.Tasks.CountTasks(context.Background(), persistence.TaskFilter{
			OwnerID: owner.ID,
			From:    "2025-06-09",
			To:      "2025-06-15",
		})
		if err != nil {
			t.Fatalf("CountTasks failed: %v", err)
		}
		if total != 3 || completed != 2 {
			t.Fatalf("total = %d, completed = %d, want 3 and 2", total, completed)
		}

		state := 0
		tasks, err := h.Tasks.ListTasks(context.Background(), persistence.TaskFilter{OwnerID: owner.ID, State: &state})
		if err != nil {
			t.Fatalf("ListTasks failed: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("pending tasks = %d, want 2", len(tasks))
		}
	})

	t.Run("purge removes rows strictly before the cutoff", func(t *testing.T) {
		t.Parallel()
		h := testfixtures.NewSQLiteHarness(t)
		owner := seedOwner(t, h)

		for _, date := range []string{"2025-06-05", "2025-06-07", "2025-06-09"} {
			fixture := testfixtures.NewTaskFixture(
				testfixtures.WithTaskOwner(owner.ID),
				testfixtures.WithTaskDue(date, ""),
			)
			if _, err := h.Tasks.CreateTask(context.Background(), fixture.Persistence()); err != nil {
				t.Fatalf("failed to seed task: %v", err)
			}
		}

		removed, err := h.Tasks.PurgeTasksBefore(context.Background(), "2025-06-07")
		if err != nil {
			t.Fatalf("PurgeTasksBefore failed: %v", err)
		}
		if removed != 1 {
			t.Fatalf("removed = %d, want 1", removed)
		}
	})
}
