package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// DefaultPurgeRetentionDays keeps records for three days past their date
// before an administrative purge removes them.
const DefaultPurgeRetentionDays = 3

// MaintenanceMetrics receives purge counters. A nil recorder disables
// recording.
type MaintenanceMetrics interface {
	RecordsPurged(kind string, count int)
}

// MaintenanceService performs administrative housekeeping over the stores.
type MaintenanceService struct {
	events        EventRepository
	tasks         TaskRepository
	summaries     *DashboardService
	retentionDays int
	now           func() time.Time
	metrics       MaintenanceMetrics
	logger        *slog.Logger
}

// NewMaintenanceService constructs a MaintenanceService. A non-positive
// retention falls back to DefaultPurgeRetentionDays.
func NewMaintenanceService(events EventRepository, tasks TaskRepository, summaries *DashboardService, retentionDays int, now func() time.Time, metrics MaintenanceMetrics, logger *slog.Logger) *MaintenanceService {
	if retentionDays <= 0 {
		retentionDays = DefaultPurgeRetentionDays
	}
	if now == nil {
		now = time.Now
	}
	return &MaintenanceService{
		events:        events,
		tasks:         tasks,
		summaries:     summaries,
		retentionDays: retentionDays,
		now:           now,
		metrics:       metrics,
		logger:        defaultLogger(logger),
	}
}

// Purge deletes events and tasks dated strictly before today minus the
// retention window and reports the removal counts. Administrators only.
func (s *MaintenanceService) Purge(ctx context.Context, principal Principal) (PurgeResult, error) {
	if s == nil || s.events == nil || s.tasks == nil {
		return PurgeResult{}, fmt.Errorf("maintenance repositories not configured")
	}
	if !principal.IsAdmin {
		return PurgeResult{}, ErrUnauthorized
	}

	cutoff := s.now().AddDate(0, 0, -s.retentionDays).Format(validate.DateLayout)
	logger := serviceLogger(ctx, s.logger, "MaintenanceService", "Purge",
		"user_id", principal.UserID, "cutoff", cutoff)

	var result PurgeResult
	var err error

	result.Events, err = s.events.PurgeEventsBefore(ctx, cutoff)
	if err != nil {
		logger.ErrorContext(ctx, "failed to purge events", "error", err)
		return PurgeResult{}, err
	}
	result.Tasks, err = s.tasks.PurgeTasksBefore(ctx, cutoff)
	if err != nil {
		logger.ErrorContext(ctx, "failed to purge tasks", "error", err)
		return PurgeResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordsPurged("events", result.Events)
		s.metrics.RecordsPurged("tasks", result.Tasks)
	}
	if s.summaries != nil {
		s.summaries.InvalidateAll()
	}

	logger.InfoContext(ctx, "purge completed", "events_removed", result.Events, "tasks_removed", result.Tasks)
	return result, nil
}
