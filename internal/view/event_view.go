// Package view shapes persisted events and tasks for display: a full detail
// projection, a calendar-feed projection, and a modal projection shared
// between both entity types so one UI fragment renders either. Every
// transform is pure and idempotent; re-wrapping normalized output yields the
// same result.
package view

import (
	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// EventDetail is the normalized display form of an event.
type EventDetail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	StartTime   string `json:"start_time"`
	EndDate     string `json:"end_date"`
	EndTime     string `json:"end_time"`
	OwnerID     int64  `json:"owner_id"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CalendarEntry is the feed projection consumed by the calendar widget.
// Start and End are ISO local datetimes ("YYYY-MM-DDTHH:MM").
type CalendarEntry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
	Kind  string `json:"kind"`
}

// ModalDetail is the shared modal shape. Tasks surface their due date as the
// start date with no end bounds, so the same fragment renders both types.
type ModalDetail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	StartTime   string `json:"start_time"`
	EndDate     string `json:"end_date"`
	EndTime     string `json:"end_time"`
	Priority    int    `json:"priority,omitempty"`
	State       int    `json:"state"`
}

// EventView wraps one persisted event.
type EventView struct {
	event application.Event
}

// NewEventView wraps an event for presentation.
func NewEventView(event application.Event) EventView {
	return EventView{event: event}
}

// Detail returns the full normalized projection.
func (v EventView) Detail() EventDetail {
	created := ""
	if !v.event.CreatedAt.IsZero() {
		created = v.event.CreatedAt.UTC().Format("2006-01-02 15:04")
	}
	return EventDetail{
		ID:          v.event.ID,
		Name:        v.event.Name,
		Description: v.event.Description,
		StartDate:   validate.NormalizeDate(v.event.StartDate),
		StartTime:   validate.NormalizeTime(v.event.StartTime),
		EndDate:     validate.NormalizeDate(v.event.EndDate),
		EndTime:     validate.NormalizeTime(v.event.EndTime),
		OwnerID:     v.event.OwnerID,
		CreatedAt:   created,
	}
}

// Calendar returns the feed projection. A missing start time renders the
// entry as all-day starting at midnight; missing end bounds default to the
// start, so a point event spans no time.
func (v EventView) Calendar() CalendarEntry {
	startTime := validate.NormalizeTime(v.event.StartTime)
	if startTime == "" {
		startTime = "00:00"
	}
	endTime := validate.NormalizeTime(v.event.EndTime)
	if endTime == "" {
		endTime = startTime
	}
	endDate := validate.NormalizeDate(v.event.EndDate)
	if endDate == "" {
		endDate = validate.NormalizeDate(v.event.StartDate)
	}

	return CalendarEntry{
		ID:    v.event.ID,
		Title: v.event.Name,
		Start: validate.NormalizeDate(v.event.StartDate) + "T" + startTime,
		End:   endDate + "T" + endTime,
		Kind:  "event",
	}
}

// Modal returns the shared modal projection.
func (v EventView) Modal() ModalDetail {
	d := v.Detail()
	return ModalDetail{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		StartDate:   d.StartDate,
		StartTime:   d.StartTime,
		EndDate:     d.EndDate,
		EndTime:     d.EndTime,
	}
}
