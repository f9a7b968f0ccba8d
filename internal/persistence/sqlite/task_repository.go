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

// TaskRepository implements persistence.TaskRepository on SQLite.
type TaskRepository struct {
	store *Store
}

// NewTaskRepository wires a task repository to the store.
func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func validateTask(task persistence.Task, requireID bool) error {
	if requireID && !validate.IDValue(task.ID) {
		return fmt.Errorf("%w: task id", persistence.ErrInvalidInput)
	}
	if !validate.SafeText(task.Name, 100, true) || !validate.NotBlank(task.Name) {
		return fmt.Errorf("%w: task name", persistence.ErrInvalidInput)
	}
	if !validate.SafeText(task.Description, 500, false) {
		return fmt.Errorf("%w: task description", persistence.ErrInvalidInput)
	}
	if !validate.DateFormat(task.DueDate) {
		return fmt.Errorf("%w: due date", persistence.ErrInvalidInput)
	}
	if task.DueTime != "" && !validate.TimeFormat(task.DueTime) {
		return fmt.Errorf("%w: due time", persistence.ErrInvalidInput)
	}
	if !validate.PriorityValue(task.Priority) {
		return fmt.Errorf("%w: priority", persistence.ErrInvalidInput)
	}
	if !validate.StateValue(task.State) {
		return fmt.Errorf("%w: state", persistence.ErrInvalidInput)
	}
	if !validate.IDValue(task.OwnerID) {
		return fmt.Errorf("%w: owner id", persistence.ErrInvalidInput)
	}
	return nil
}

// CreateTask validates and inserts a task, returning it with the assigned id.
func (r *TaskRepository) CreateTask(ctx context.Context, task persistence.Task) (persistence.Task, error) {
	if err := validateTask(task, false); err != nil {
		return persistence.Task{}, err
	}

	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (name, description, due_date, due_time, priority, state, owner_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			task.Name,
			nullable(task.Description),
			task.DueDate,
			nullable(task.DueTime),
			task.Priority,
			task.State,
			task.OwnerID,
			formatTimestamp(task.CreatedAt),
		)
		if err != nil {
			return mapSQLError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted id: %w", err)
		}
		task.ID = id
		return nil
	})
	if err != nil {
		return persistence.Task{}, err
	}
	return task, nil
}

// UpdateTask validates and rewrites an existing task row.
func (r *TaskRepository) UpdateTask(ctx context.Context, task persistence.Task) error {
	if err := validateTask(task, true); err != nil {
		return err
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET name = ?, description = ?, due_date = ?, due_time = ?, priority = ?, state = ?
			WHERE id = ?`,
			task.Name,
			nullable(task.Description),
			task.DueDate,
			nullable(task.DueTime),
			task.Priority,
			task.State,
			task.ID,
		)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

// SetTaskState flips only the completion state of a task.
func (r *TaskRepository) SetTaskState(ctx context.Context, id int64, state int) error {
	if !validate.IDValue(id) {
		return fmt.Errorf("%w: task id", persistence.ErrInvalidInput)
	}
	if !validate.StateValue(state) {
		return fmt.Errorf("%w: state", persistence.ErrInvalidInput)
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE tasks SET state = ? WHERE id = ?", state, id)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

// GetTask loads one task by id.
func (r *TaskRepository) GetTask(ctx context.Context, id int64) (persistence.Task, error) {
	if !validate.IDValue(id) {
		return persistence.Task{}, fmt.Errorf("%w: task id", persistence.ErrInvalidInput)
	}

	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, due_date, due_time, priority, state, owner_id, created_at
		FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Task{}, persistence.ErrNotFound
		}
		return persistence.Task{}, err
	}
	return task, nil
}

// ListTasks returns tasks matching the filter ordered by due date ascending.
func (r *TaskRepository) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	query := `
		SELECT id, name, description, due_date, due_time, priority, state, owner_id, created_at
		FROM tasks`
	where, args := taskFilterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date ASC, id ASC"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var tasks []persistence.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CountTasks returns the total and completed counts for tasks matching the
// filter.
func (r *TaskRepository) CountTasks(ctx context.Context, filter persistence.TaskFilter) (int, int, error) {
	query := "SELECT COUNT(*), COALESCE(SUM(CASE WHEN state = 1 THEN 1 ELSE 0 END), 0) FROM tasks"
	where, args := taskFilterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var total, completed int
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&total, &completed); err != nil {
		return 0, 0, mapSQLError(err)
	}
	return total, completed, nil
}

// DeleteTask removes a task by id.
func (r *TaskRepository) DeleteTask(ctx context.Context, id int64) error {
	if !validate.IDValue(id) {
		return fmt.Errorf("%w: task id", persistence.ErrInvalidInput)
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

// PurgeTasksBefore deletes tasks whose due date is strictly before the cutoff
// and reports how many were removed.
func (r *TaskRepository) PurgeTasksBefore(ctx context.Context, date string) (int, error) {
	if !validate.DateFormat(date) {
		return 0, fmt.Errorf("%w: purge cutoff", persistence.ErrInvalidInput)
	}

	var removed int
	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE due_date < ?", date)
		if err != nil {
			return mapSQLError(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count purged tasks: %w", err)
		}
		removed = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func taskFilterClauses(filter persistence.TaskFilter) ([]string, []any) {
	var where []string
	var args []any
	if filter.OwnerID > 0 {
		where = append(where, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.OnDate != "" {
		where = append(where, "due_date = ?")
		args = append(args, filter.OnDate)
	}
	if filter.From != "" {
		where = append(where, "due_date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "due_date <= ?")
		args = append(args, filter.To)
	}
	if filter.State != nil {
		where = append(where, "state = ?")
		args = append(args, *filter.State)
	}
	return where, args
}

// scanTask normalizes the driver's raw date/time values into canonical
// strings at the boundary.
func scanTask(row rowScanner) (persistence.Task, error) {
	var (
		task        persistence.Task
		description sql.NullString
		dueDate     any
		dueTime     any
		createdAt   string
	)
	if err := row.Scan(
		&task.ID,
		&task.Name,
		&description,
		&dueDate,
		&dueTime,
		&task.Priority,
		&task.State,
		&task.OwnerID,
		&createdAt,
	); err != nil {
		return persistence.Task{}, err
	}

	task.Description = description.String
	task.DueDate = validate.NormalizeDate(dueDate)
	task.DueTime = validate.NormalizeTime(dueTime)
	task.CreatedAt = parseTimestamp(createdAt)
	return task, nil
}
