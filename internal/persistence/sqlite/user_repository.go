package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/PeteerDHeras/proyectoFinal/internal/persistence"
	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// usernamePattern is the set of characters accepted in account names.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-@.]+$`)

// UserRepository implements persistence.UserRepository on SQLite.
type UserRepository struct {
	store *Store
}

// NewUserRepository wires a user repository to the store.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func validateUserName(name string) error {
	if !validate.Length(name, 3, 50) || !usernamePattern.MatchString(name) {
		return fmt.Errorf("%w: user name", persistence.ErrInvalidInput)
	}
	return nil
}

// CreateUser validates and inserts an account, returning it with the
// assigned id. Names are unique; collisions map to ErrConstraintViolation.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) (persistence.User, error) {
	if err := validateUserName(user.Name); err != nil {
		return persistence.User{}, err
	}
	if user.PasswordHash == "" {
		return persistence.User{}, fmt.Errorf("%w: password hash", persistence.ErrInvalidInput)
	}
	if user.Role != 1 && user.Role != 3 {
		return persistence.User{}, fmt.Errorf("%w: role", persistence.ErrInvalidInput)
	}

	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (name, password_hash, role, created_at)
			VALUES (?, ?, ?, ?)`,
			user.Name,
			user.PasswordHash,
			user.Role,
			formatTimestamp(user.CreatedAt),
		)
		if err != nil {
			return mapSQLError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted id: %w", err)
		}
		user.ID = id
		return nil
	})
	if err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// GetUser loads one account by id.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (persistence.User, error) {
	if !validate.IDValue(id) {
		return persistence.User{}, fmt.Errorf("%w: user id", persistence.ErrInvalidInput)
	}

	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, password_hash, role, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByName loads one account by its unique name.
func (r *UserRepository) GetUserByName(ctx context.Context, name string) (persistence.User, error) {
	if err := validateUserName(name); err != nil {
		return persistence.User{}, err
	}

	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, password_hash, role, created_at FROM users WHERE name = ?`, name)
	return scanUser(row)
}

// ListUsers returns every account ordered by name ascending.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, name, password_hash, role, created_at FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var (
			user      persistence.User
			createdAt string
		)
		if err := rows.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Role, &createdAt); err != nil {
			return nil, err
		}
		user.CreatedAt = parseTimestamp(createdAt)
		users = append(users, user)
	}
	return users, rows.Err()
}

// RenameUser changes an account's unique name.
func (r *UserRepository) RenameUser(ctx context.Context, id int64, newName string) error {
	if !validate.IDValue(id) {
		return fmt.Errorf("%w: user id", persistence.ErrInvalidInput)
	}
	if err := validateUserName(newName); err != nil {
		return err
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE users SET name = ? WHERE id = ?", newName, id)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

// DeleteUser removes an account; its events and tasks cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	if !validate.IDValue(id) {
		return fmt.Errorf("%w: user id", persistence.ErrInvalidInput)
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return mapSQLError(err)
		}
		return requireRows(res)
	})
}

func scanUser(row *sql.Row) (persistence.User, error) {
	var (
		user      persistence.User
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, err
	}
	user.CreatedAt = parseTimestamp(createdAt)
	return user, nil
}
