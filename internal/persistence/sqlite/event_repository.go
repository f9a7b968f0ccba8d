package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/PeteerDHeras/proyectoFinal/internal/persistence"
	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// EventRepository implements persistence.EventRepository on SQLite.
type EventRepository struct {
	store *Store
}

// NewEventRepository wires an event repository to the store.
func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

func validateEvent(event persistence.Event, requireID bool) error {
	if requireID && !validate.IDValue(event.ID) {
		return fmt.Errorf("%w: event id", persistence.ErrInvalidInput)
	}
	if !validate.SafeText(event.Name, 100, true) || !validate.NotBlank(event.Name) {
		return fmt.Errorf("%w: event name", persistence.ErrInvalidInput)
	}
	if !validate.SafeText(event.Description, 500, false) {
		return fmt.Errorf("%w: event description", persistence.ErrInvalidInput)
	}
	if !validate.DateFormat(event.StartDate) {
		return fmt.Errorf("%w: start date", persistence.ErrInvalidInput)
	}
	if !validate.TimeFormat(event.StartTime) {
		return fmt.Errorf("%w: start time", persistence.ErrInvalidInput)
	}
	if event.EndDate != "" && !validate.DateFormat(event.EndDate) {
		return fmt.Errorf("%w: end date", persistence.ErrInvalidInput)
	}
	if event.EndTime != "" && !validate.TimeFormat(event.EndTime) {
		return fmt.Errorf("%w: end time", persistence.ErrInvalidInput)
	}
	if !validate.DateRange(event.StartDate, event.EndDate) {
		return fmt.Errorf("%w: end date precedes start date", persistence.ErrInvalidInput)
	}
	if (event.EndDate == "" || event.EndDate == event.StartDate) && !validate.TimeRange(event.StartTime, event.EndTime) {
		return fmt.Errorf("%w: end time precedes start time", persistence.ErrInvalidInput)
	}
	if !validate.IDValue(event.OwnerID) {
		return fmt.Errorf("%w: owner id", persistence.ErrInvalidInput)
	}
	return nil
}

// CreateEvent validates and inserts an event, returning it with the assigned id.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	if err := validateEvent(event, false); err != nil {
		return persistence.Event{}, err
	}

	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO events (name, description, start_date, start_time, end_date, end_time, owner_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			event.Name,
			nullable(event.Description),
			event.StartDate,
			event.StartTime,
			nullable(event.EndDate),
			nullable(event.EndTime),
			event.OwnerID,
			formatTimestamp(event.CreatedAt),
		)
		if err != nil {
			return mapSQLError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted id: %w", err)
		}
		event.ID = id
		return nil
	})
	if err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// UpdateEvent validates and rewrites an existing event row.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) error {
	if err := validateEvent(event, true); err != nil {
		return err
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE events
			SET name = ?, description = ?, start_date = ?, start_time = ?, end_date = ?, end_time = ?
			WHERE id = ?`,
			event.Name,
			nullable(event.Description),
			event.StartDate,
			event.StartTime,
			nullable(event.EndDate),
			nullable(event.EndTime),
			event.ID,
		)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

// GetEvent loads one event by id.
func (r *EventRepository) GetEvent(ctx context.Context, id int64) (persistence.Event, error) {
	if !validate.IDValue(id) {
		return persistence.Event{}, fmt.Errorf("%w: event id", persistence.ErrInvalidInput)
	}

	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, start_date, start_time, end_date, end_time, owner_id, created_at
		FROM events WHERE id = ?`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Event{}, persistence.ErrNotFound
		}
		return persistence.Event{}, err
	}
	return event, nil
}

// ListEvents returns events matching the filter ordered by start date, then
// start time, ascending.
func (r *EventRepository) ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.Event, error) {
	query := `
		SELECT id, name, description, start_date, start_time, end_date, end_time, owner_id, created_at
		FROM events`
	where, args := eventFilterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date ASC, start_time ASC, id ASC"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CountEvents returns how many events match the filter.
func (r *EventRepository) CountEvents(ctx context.Context, filter persistence.EventFilter) (int, error) {
	query := "SELECT COUNT(*) FROM events"
	where, args := eventFilterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapSQLError(err)
	}
	return count, nil
}

// DeleteEvent removes an event by id.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	if !validate.IDValue(id) {
		return fmt.Errorf("%w: event id", persistence.ErrInvalidInput)
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

// PurgeEventsBefore deletes events whose start date is strictly before the
// cutoff and reports how many were removed.
func (r *EventRepository) PurgeEventsBefore(ctx context.Context, date string) (int, error) {
	if !validate.DateFormat(date) {
		return 0, fmt.Errorf("%w: purge cutoff", persistence.ErrInvalidInput)
	}

	var removed int
	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE start_date < ?", date)
		if err != nil {
			return mapSQLError(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count purged events: %w", err)
		}
		removed = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func eventFilterClauses(filter persistence.EventFilter) ([]string, []any) {
	var where []string
	var args []any
	if filter.OwnerID > 0 {
		where = append(where, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.OnDate != "" {
		where = append(where, "start_date = ?")
		args = append(args, filter.OnDate)
	}
	if filter.From != "" {
		where = append(where, "start_date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "start_date <= ?")
		args = append(args, filter.To)
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent normalizes the driver's raw date/time values into canonical
// strings. The heterogeneous union stops here.
func scanEvent(row rowScanner) (persistence.Event, error) {
	var (
		event       persistence.Event
		description sql.NullString
		startDate   any
		startTime   any
		endDate     any
		endTime     any
		createdAt   string
	)
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&description,
		&startDate,
		&startTime,
		&endDate,
		&endTime,
		&event.OwnerID,
		&createdAt,
	); err != nil {
		return persistence.Event{}, err
	}

	event.Description = description.String
	event.StartDate = validate.NormalizeDate(startDate)
	event.StartTime = validate.NormalizeTime(startTime)
	event.EndDate = validate.NormalizeDate(endDate)
	event.EndTime = validate.NormalizeTime(endTime)
	event.CreatedAt = parseTimestamp(createdAt)
	return event, nil
}
