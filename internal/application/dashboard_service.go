package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// todayEventsLimit caps the landing-page event listing.
const todayEventsLimit = 5

// DashboardService computes the landing-page summary: today's agenda, this
// week's task progress, and a couple of forward-looking counters. Results
// are cached per owner for a short window and dropped on mutation.
type DashboardService struct {
	events EventRepository
	tasks  TaskRepository
	cache  *summaryCache
	now    func() time.Time
	logger *slog.Logger
}

// NewDashboardService constructs a DashboardService with a cache holding
// summaries for cacheTTL. A non-positive TTL falls back to 30 seconds.
func NewDashboardService(events EventRepository, tasks TaskRepository, cacheTTL time.Duration, now func() time.Time, logger *slog.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		events: events,
		tasks:  tasks,
		cache:  newSummaryCache(cacheTTL, 0, now),
		now:    now,
		logger: defaultLogger(logger),
	}
}

// Invalidate drops one owner's cached summary. Event and task services call
// this after every mutation.
func (s *DashboardService) Invalidate(ownerID int64) {
	if s == nil {
		return
	}
	s.cache.Invalidate(ownerID)
}

// InvalidateAll drops every cached summary.
func (s *DashboardService) InvalidateAll() {
	if s == nil {
		return
	}
	s.cache.InvalidateAll()
}

// Summarize builds the dashboard for the principal. The week runs Monday
// through Sunday around the current date.
func (s *DashboardService) Summarize(ctx context.Context, principal Principal) (DashboardSummary, error) {
	if s == nil || s.events == nil || s.tasks == nil {
		return DashboardSummary{}, fmt.Errorf("dashboard repositories not configured")
	}
	if principal.UserID <= 0 {
		return DashboardSummary{}, ErrUnauthorized
	}

	if summary, ok := s.cache.Get(principal.UserID); ok {
		return summary, nil
	}

	logger := serviceLogger(ctx, s.logger, "DashboardService", "Summarize", "user_id", principal.UserID)

	today := s.now()
	todayDate := today.Format(validate.DateLayout)
	tomorrowDate := today.AddDate(0, 0, 1).Format(validate.DateLayout)
	weekStart, weekEnd := weekBounds(today)

	var summary DashboardSummary

	todayEvents, err := s.events.ListEvents(ctx, EventFilter{OwnerID: principal.UserID, OnDate: todayDate})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list today's events", "error", err)
		return DashboardSummary{}, err
	}
	if len(todayEvents) > todayEventsLimit {
		todayEvents = todayEvents[:todayEventsLimit]
	}
	summary.TodayEvents = todayEvents

	summary.TodayTasks, err = s.tasks.ListTasks(ctx, TaskFilter{OwnerID: principal.UserID, OnDate: todayDate})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list today's tasks", "error", err)
		return DashboardSummary{}, err
	}

	summary.WeekTotal, summary.WeekCompleted, err = s.tasks.CountTasks(ctx, TaskFilter{
		OwnerID: principal.UserID,
		From:    weekStart,
		To:      weekEnd,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to count week tasks", "error", err)
		return DashboardSummary{}, err
	}

	summary.TomorrowEvents, err = s.events.CountEvents(ctx, EventFilter{OwnerID: principal.UserID, OnDate: tomorrowDate})
	if err != nil {
		logger.ErrorContext(ctx, "failed to count tomorrow's events", "error", err)
		return DashboardSummary{}, err
	}

	summary.WeekEvents, err = s.events.CountEvents(ctx, EventFilter{
		OwnerID: principal.UserID,
		From:    weekStart,
		To:      weekEnd,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to count week events", "error", err)
		return DashboardSummary{}, err
	}

	s.cache.Store(principal.UserID, summary)
	return summary, nil
}

// weekBounds returns the Monday and Sunday dates of the week containing t.
func weekBounds(t time.Time) (string, string) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	monday := t.AddDate(0, 0, 1-weekday)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(validate.DateLayout), sunday.Format(validate.DateLayout)
}
