package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/view"
)

type dashboardService interface {
	Summarize(ctx context.Context, principal application.Principal) (application.DashboardSummary, error)
}

type maintenanceService interface {
	Purge(ctx context.Context, principal application.Principal) (application.PurgeResult, error)
}

// DashboardHandler serves the landing-page summary, the calendar feed, and
// the administrative purge.
type DashboardHandler struct {
	dashboard   dashboardService
	events      eventService
	maintenance maintenanceService
	responder   responder
	logger      *slog.Logger
}

// NewDashboardHandler wires the summary, feed, and purge endpoints.
func NewDashboardHandler(dashboard dashboardService, events eventService, maintenance maintenanceService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{
		dashboard:   dashboard,
		events:      events,
		maintenance: maintenance,
		responder:   newResponder(base),
		logger:      base,
	}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

// Summary returns today's agenda and the week's counters for the principal.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.dashboard == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	summary, err := h.dashboard.Summarize(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "Summary", "principal_id", principal.UserID).ErrorContext(r.Context(), "dashboard summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	events := make([]view.EventDetail, 0, len(summary.TodayEvents))
	for _, event := range summary.TodayEvents {
		events = append(events, view.NewEventView(event).Detail())
	}
	tasks := make([]view.TaskDetail, 0, len(summary.TodayTasks))
	for _, task := range summary.TodayTasks {
		tasks = append(tasks, view.NewTaskView(task).Detail())
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{
		TodayEvents:    events,
		TodayTasks:     tasks,
		WeekTotal:      summary.WeekTotal,
		WeekCompleted:  summary.WeekCompleted,
		TomorrowEvents: summary.TomorrowEvents,
		WeekEvents:     summary.WeekEvents,
	})
}

// CalendarFeed returns the principal's events shaped for the calendar
// widget, optionally narrowed by from/to query parameters.
func (h *DashboardHandler) CalendarFeed(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.events == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	events, err := h.events.List(r.Context(), principal, application.EventFilter{
		From: query.Get("from"),
		To:   query.Get("to"),
	})
	if err != nil {
		h.log(r.Context(), "CalendarFeed", "principal_id", principal.UserID).ErrorContext(r.Context(), "calendar feed failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	entries := make([]view.CalendarEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, view.NewEventView(event).Calendar())
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entries)
}

// Purge removes stale records on behalf of an administrator and reports the
// counts.
func (h *DashboardHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.maintenance == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Purge", "principal_id", principal.UserID)

	result, err := h.maintenance.Purge(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "purge failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "purge completed", "events_removed", result.Events, "tasks_removed", result.Tasks)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, purgeResponse{
		EventsRemoved: result.Events,
		TasksRemoved:  result.Tasks,
	})
}

type dashboardResponse struct {
	TodayEvents    []view.EventDetail `json:"today_events"`
	TodayTasks     []view.TaskDetail  `json:"today_tasks"`
	WeekTotal      int                `json:"week_total"`
	WeekCompleted  int                `json:"week_completed"`
	TomorrowEvents int                `json:"tomorrow_events"`
	WeekEvents     int                `json:"week_events"`
}

type purgeResponse struct {
	EventsRemoved int `json:"events_removed"`
	TasksRemoved  int `json:"tasks_removed"`
}
