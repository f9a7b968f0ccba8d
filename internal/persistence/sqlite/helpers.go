package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/PeteerDHeras/proyectoFinal/internal/persistence"
)

// nullable maps the empty string to NULL so optional columns store real
// absence instead of "".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// requireRows converts a zero-row mutation into ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// mapSQLError translates driver errors into the package's sentinel taxonomy.
// Raw driver text is preserved only in the wrapped chain for logging.
func mapSQLError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique") || strings.Contains(msg, "constraint") {
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}
