package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// EventFilter narrows event queries. OwnerID is required; OnDate selects a
// single day while From/To select an inclusive date range.
type EventFilter struct {
	OwnerID int64
	OnDate  string
	From    string
	To      string
}

// EventRepository persists calendar events.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id int64) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	CountEvents(ctx context.Context, filter EventFilter) (int, error)
	PurgeEventsBefore(ctx context.Context, cutoffDate string) (int, error)
}

// SummaryInvalidator drops cached dashboard summaries after a mutation.
// A nil invalidator disables invalidation.
type SummaryInvalidator interface {
	Invalidate(ownerID int64)
}

// EventService owns the event lifecycle: sanitize, validate, authorize,
// persist.
type EventService struct {
	events    EventRepository
	summaries SummaryInvalidator
	now       func() time.Time
	logger    *slog.Logger
}

// NewEventService constructs an EventService.
func NewEventService(events EventRepository, summaries SummaryInvalidator, now func() time.Time, logger *slog.Logger) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{
		events:    events,
		summaries: summaries,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// normalizeEventInput strips control characters and collapses the optional
// sentinels before validation sees the fields.
func normalizeEventInput(input EventInput) EventInput {
	return EventInput{
		Name:        validate.SanitizeText(input.Name),
		Description: validate.SanitizeText(input.Description),
		StartDate:   validate.OptionalText(input.StartDate),
		StartTime:   validate.OptionalText(input.StartTime),
		EndDate:     validate.OptionalText(input.EndDate),
		EndTime:     validate.OptionalText(input.EndTime),
	}
}

// validateEventInput runs the fixed validation order: presence, safe text,
// lengths, formats, past check, then cross-field ranges. When pastCheck is
// false the not-in-the-past rule is skipped; drag-and-drop moves use that.
func (s *EventService) validateEventInput(input EventInput, pastCheck bool) error {
	vErr := &ValidationError{}

	if !validate.NotBlank(input.Name) {
		vErr.add("name", "name is required")
	} else if !validate.SafeText(input.Name, 100, true) {
		vErr.add("name", "name contains invalid characters or exceeds 100 characters")
	}
	if input.Description != "" && !validate.SafeText(input.Description, 500, false) {
		vErr.add("description", "description contains invalid characters or exceeds 500 characters")
	}

	if input.StartDate == "" {
		vErr.add("start_date", "start date is required")
	} else if !validate.DateFormat(input.StartDate) {
		vErr.add("start_date", "start date must use the YYYY-MM-DD format")
	}
	if input.StartTime == "" {
		vErr.add("start_time", "start time is required")
	} else if !validate.TimeFormat(input.StartTime) {
		vErr.add("start_time", "start time must use the HH:MM format")
	}
	if input.EndDate != "" && !validate.DateFormat(input.EndDate) {
		vErr.add("end_date", "end date must use the YYYY-MM-DD format")
	}
	if input.EndTime != "" && !validate.TimeFormat(input.EndTime) {
		vErr.add("end_time", "end time must use the HH:MM format")
	}
	if vErr.HasErrors() {
		return vErr
	}

	if pastCheck && !validate.DateTimeNotPast(input.StartDate, input.StartTime, s.now()) {
		vErr.add("start_date", "start must not be in the past")
	}
	if !validate.DateRange(input.StartDate, input.EndDate) {
		vErr.add("end_date", "end date must not be before the start date")
	}
	if (input.EndDate == "" || input.EndDate == input.StartDate) &&
		!validate.TimeRange(input.StartTime, input.EndTime) {
		vErr.add("end_time", "end time must not be before the start time")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// authorizeEvent checks that the principal may act on the event.
// Administrators may act on any event.
func authorizeEvent(principal Principal, event Event) error {
	if principal.IsAdmin || event.OwnerID == principal.UserID {
		return nil
	}
	return ErrUnauthorized
}

// Create validates and stores a new event owned by the principal.
func (s *EventService) Create(ctx context.Context, params CreateEventParams) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}
	if params.Principal.UserID <= 0 {
		return Event{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Create", "user_id", params.Principal.UserID)

	input := normalizeEventInput(params.Input)
	if err := s.validateEventInput(input, true); err != nil {
		return Event{}, err
	}

	event, err := s.events.CreateEvent(ctx, Event{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		StartTime:   input.StartTime,
		EndDate:     input.EndDate,
		EndTime:     input.EndTime,
		OwnerID:     params.Principal.UserID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
		return Event{}, err
	}

	s.invalidate(params.Principal.UserID)
	logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	return event, nil
}

// Update replaces a stored event's fields after re-running the full
// validation pipeline and the ownership check.
func (s *EventService) Update(ctx context.Context, params UpdateEventParams) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "Update", "user_id", params.Principal.UserID, "event_id", params.EventID)

	event, err := s.events.GetEvent(ctx, params.EventID)
	if err != nil {
		return Event{}, err
	}
	if err := authorizeEvent(params.Principal, event); err != nil {
		logger.WarnContext(ctx, "event update denied")
		return Event{}, err
	}

	input := normalizeEventInput(params.Input)
	if err := s.validateEventInput(input, true); err != nil {
		return Event{}, err
	}

	event.Name = input.Name
	event.Description = input.Description
	event.StartDate = input.StartDate
	event.StartTime = input.StartTime
	event.EndDate = input.EndDate
	event.EndTime = input.EndTime

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
		return Event{}, err
	}

	s.invalidate(event.OwnerID)
	logger.InfoContext(ctx, "event updated")
	return event, nil
}

// Move shifts an event's bounds from a calendar drag-and-drop. Format and
// range checks still apply but the target may lie in the past.
func (s *EventService) Move(ctx context.Context, params MoveEventParams) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "Move", "user_id", params.Principal.UserID, "event_id", params.EventID)

	event, err := s.events.GetEvent(ctx, params.EventID)
	if err != nil {
		return Event{}, err
	}
	if err := authorizeEvent(params.Principal, event); err != nil {
		logger.WarnContext(ctx, "event move denied")
		return Event{}, err
	}

	input := normalizeEventInput(EventInput{
		Name:        event.Name,
		Description: event.Description,
		StartDate:   params.StartDate,
		StartTime:   params.StartTime,
		EndDate:     params.EndDate,
		EndTime:     params.EndTime,
	})
	if err := s.validateEventInput(input, false); err != nil {
		return Event{}, err
	}

	event.StartDate = input.StartDate
	event.StartTime = input.StartTime
	event.EndDate = input.EndDate
	event.EndTime = input.EndTime

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		logger.ErrorContext(ctx, "failed to move event", "error", err, "error_kind", ErrorKind(err))
		return Event{}, err
	}

	s.invalidate(event.OwnerID)
	logger.InfoContext(ctx, "event moved", "start_date", event.StartDate)
	return event, nil
}

// Get loads one event the principal may see.
func (s *EventService) Get(ctx context.Context, principal Principal, eventID int64) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	if err := authorizeEvent(principal, event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// List returns the principal's events, optionally narrowed to a day or an
// inclusive date range.
func (s *EventService) List(ctx context.Context, principal Principal, filter EventFilter) ([]Event, error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("event repository not configured")
	}
	if principal.UserID <= 0 {
		return nil, ErrUnauthorized
	}

	filter.OwnerID = principal.UserID
	return s.events.ListEvents(ctx, filter)
}

// Delete removes one event after the ownership check.
func (s *EventService) Delete(ctx context.Context, principal Principal, eventID int64) error {
	if s == nil || s.events == nil {
		return fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "user_id", principal.UserID, "event_id", eventID)

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := authorizeEvent(principal, event); err != nil {
		logger.WarnContext(ctx, "event delete denied")
		return err
	}

	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.invalidate(event.OwnerID)
	logger.InfoContext(ctx, "event deleted")
	return nil
}

func (s *EventService) invalidate(ownerID int64) {
	if s.summaries != nil {
		s.summaries.Invalidate(ownerID)
	}
}
