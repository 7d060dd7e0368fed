package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// SQLSTATE codes the store layer distinguishes.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// MapError translates a driver error into the store sentinels:
//
//	sql.ErrNoRows        -> store.ErrNotFound
//	23505                -> store.ErrDuplicate
//	23503, 23514, 23502  -> store.ErrInvalidEntity
//
// The driver error stays in the chain. Other errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %s: %w", store.ErrDuplicate, violated(pgErr), err)
	case foreignKeyViolationCode, checkViolationCode, notNullViolationCode:
		return fmt.Errorf("%w: %s: %w", store.ErrInvalidEntity, violated(pgErr), err)
	default:
		return err
	}
}

// violated names what a constraint error refers to, for messages.
func violated(e *pgconn.PgError) string {
	switch {
	case e.ConstraintName != "":
		return "constraint " + e.ConstraintName
	case e.ColumnName != "":
		return "column " + e.ColumnName
	default:
		return "sqlstate " + e.Code
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// duplicateAs replaces a unique violation with a more specific sentinel,
// such as store.ErrEmailExists. Other errors go through MapError.
func duplicateAs(err, sentinel error) error {
	if !IsUniqueViolation(err) {
		return MapError(err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// CheckRowsAffected returns store.ErrNotFound naming entity when a statement
// touched no rows.
func CheckRowsAffected(result sql.Result, entity string) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if entity == "" {
		return store.ErrNotFound
	}
	return fmt.Errorf("%w: %s not found", store.ErrNotFound, entity)
}
