package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type invalidatorSpy struct {
	owners []int64
}

func (s *invalidatorSpy) Invalidate(ownerID int64) {
	s.owners = append(s.owners, ownerID)
}

func TestEventService_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	owner := Principal{UserID: 1, Name: "alice"}

	t.Run("stores a sanitized event", func(t *testing.T) {
		t.Parallel()

		repo := newEventRepositoryStub()
		spy := &invalidatorSpy{}
		svc := NewEventService(repo, spy, fixedClock(now), nil)

		event, err := svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input: EventInput{
				Name:      "  Standup\x00  ",
				StartDate: "2025-06-11",
				StartTime: "09:00",
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if event.Name != "Standup" {
			t.Fatalf("name not sanitized: %q", event.Name)
		}
		if event.OwnerID != owner.UserID {
			t.Fatalf("owner not stamped: %d", event.OwnerID)
		}
		if len(spy.owners) != 1 || spy.owners[0] != owner.UserID {
			t.Fatalf("summary cache not invalidated: %#v", spy.owners)
		}
	})

	t.Run("treats null sentinels as absent bounds", func(t *testing.T) {
		t.Parallel()

		repo := newEventRepositoryStub()
		svc := NewEventService(repo, nil, fixedClock(now), nil)

		event, err := svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input: EventInput{
				Name:      "Holiday",
				StartDate: "2025-06-11",
				StartTime: "09:00",
				EndDate:   "null",
				EndTime:   "null",
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if event.EndDate != "" || event.EndTime != "" {
			t.Fatalf("null sentinels survived: %q %q", event.EndDate, event.EndTime)
		}
	})

	t.Run("rejects unsafe names", func(t *testing.T) {
		t.Parallel()

		svc := NewEventService(newEventRepositoryStub(), nil, fixedClock(now), nil)

		_, err := svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input: EventInput{
				Name:      "<script>alert(1)</script>",
				StartDate: "2025-06-11",
			},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["name"]; !ok {
			t.Fatalf("expected a name error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("requires a start time", func(t *testing.T) {
		t.Parallel()

		svc := NewEventService(newEventRepositoryStub(), nil, fixedClock(now), nil)

		// The storage schema requires a clock time, so the pipeline must
		// reject its absence with a field message instead of letting the
		// gateway bounce it.
		_, err := svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input:     EventInput{Name: "Timeless", StartDate: "2025-06-11"},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["start_time"]; !ok {
			t.Fatalf("expected a start_time error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a start in the past", func(t *testing.T) {
		t.Parallel()

		svc := NewEventService(newEventRepositoryStub(), nil, fixedClock(now), nil)

		_, err := svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input:     EventInput{Name: "Yesterday", StartDate: "2025-06-09", StartTime: "08:00"},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["start_date"]; !ok {
			t.Fatalf("expected a start_date error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("rejects inverted ranges", func(t *testing.T) {
		t.Parallel()

		svc := NewEventService(newEventRepositoryStub(), nil, fixedClock(now), nil)

		_, err := svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input: EventInput{
				Name:      "Backwards",
				StartDate: "2025-06-12",
				StartTime: "09:00",
				EndDate:   "2025-06-11",
			},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["end_date"]; !ok {
			t.Fatalf("expected an end_date error, got %#v", vErr.FieldErrors)
		}

		_, err = svc.Create(context.Background(), CreateEventParams{
			Principal: owner,
			Input: EventInput{
				Name:      "Backwards",
				StartDate: "2025-06-12",
				StartTime: "15:00",
				EndTime:   "14:00",
			},
		})
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["end_time"]; !ok {
			t.Fatalf("expected an end_time error, got %#v", vErr.FieldErrors)
		}
	})
}

func TestEventService_Update(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	t.Run("rewrites fields for the owner", func(t *testing.T) {
		t.Parallel()

		repo := newEventRepositoryStub()
		seeded := repo.seed(Event{Name: "Standup", StartDate: "2025-06-11", OwnerID: 1})
		svc := NewEventService(repo, nil, fixedClock(now), nil)

		updated, err := svc.Update(context.Background(), UpdateEventParams{
			Principal: Principal{UserID: 1},
			EventID:   seeded.ID,
			Input:     EventInput{Name: "Retro", StartDate: "2025-06-12", StartTime: "16:00"},
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "Retro" || updated.StartTime != "16:00" {
			t.Fatalf("fields not applied: %+v", updated)
		}
	})

	t.Run("denies other users and allows admins", func(t *testing.T) {
		t.Parallel()

		repo := newEventRepositoryStub()
		seeded := repo.seed(Event{Name: "Standup", StartDate: "2025-06-11", OwnerID: 1})
		svc := NewEventService(repo, nil, fixedClock(now), nil)

		_, err := svc.Update(context.Background(), UpdateEventParams{
			Principal: Principal{UserID: 2},
			EventID:   seeded.ID,
			Input:     EventInput{Name: "Hijack", StartDate: "2025-06-12", StartTime: "10:00"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}

		if _, err := svc.Update(context.Background(), UpdateEventParams{
			Principal: Principal{UserID: 9, IsAdmin: true},
			EventID:   seeded.ID,
			Input:     EventInput{Name: "Moderated", StartDate: "2025-06-12", StartTime: "10:00"},
		}); err != nil {
			t.Fatalf("admin update failed: %v", err)
		}
	})

	t.Run("missing event maps to not found", func(t *testing.T) {
		t.Parallel()

		svc := NewEventService(newEventRepositoryStub(), nil, fixedClock(now), nil)
		_, err := svc.Update(context.Background(), UpdateEventParams{
			Principal: Principal{UserID: 1},
			EventID:   42,
			Input:     EventInput{Name: "Ghost", StartDate: "2025-06-12", StartTime: "10:00"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEventService_Move(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	t.Run("allows a past target", func(t *testing.T) {
		t.Parallel()

		repo := newEventRepositoryStub()
		seeded := repo.seed(Event{Name: "Standup", StartDate: "2025-06-11", StartTime: "09:00", OwnerID: 1})
		svc := NewEventService(repo, nil, fixedClock(now), nil)

		moved, err := svc.Move(context.Background(), MoveEventParams{
			Principal: Principal{UserID: 1},
			EventID:   seeded.ID,
			StartDate: "2025-06-01",
			StartTime: "09:00",
		})
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if moved.StartDate != "2025-06-01" {
			t.Fatalf("StartDate = %q", moved.StartDate)
		}
	})

	t.Run("still rejects malformed dates", func(t *testing.T) {
		t.Parallel()

		repo := newEventRepositoryStub()
		seeded := repo.seed(Event{Name: "Standup", StartDate: "2025-06-11", OwnerID: 1})
		svc := NewEventService(repo, nil, fixedClock(now), nil)

		_, err := svc.Move(context.Background(), MoveEventParams{
			Principal: Principal{UserID: 1},
			EventID:   seeded.ID,
			StartDate: "11/06/2025",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestEventService_ListScopesToPrincipal(t *testing.T) {
	t.Parallel()

	repo := newEventRepositoryStub()
	repo.seed(Event{Name: "Mine", StartDate: "2025-06-11", OwnerID: 1})
	repo.seed(Event{Name: "Theirs", StartDate: "2025-06-11", OwnerID: 2})
	svc := NewEventService(repo, nil, nil, nil)

	events, err := svc.List(context.Background(), Principal{UserID: 1}, EventFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 1 || events[0].Name != "Mine" {
		t.Fatalf("expected only the principal's events, got %#v", events)
	}
}

func TestEventService_Delete(t *testing.T) {
	t.Parallel()

	repo := newEventRepositoryStub()
	seeded := repo.seed(Event{Name: "Standup", StartDate: "2025-06-11", OwnerID: 1})
	spy := &invalidatorSpy{}
	svc := NewEventService(repo, spy, nil, nil)

	if err := svc.Delete(context.Background(), Principal{UserID: 2}, seeded.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.Delete(context.Background(), Principal{UserID: 1}, seeded.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetEvent(context.Background(), seeded.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("event still present after delete")
	}
	if len(spy.owners) != 1 {
		t.Fatalf("summary cache not invalidated: %#v", spy.owners)
	}
}
