package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a by-id lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password. Callers must not distinguish the two cases.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError reports caller-level missing or invalid request
// parameters, rejected before any domain logic runs.
type ValidationError struct {
	Missing []string
	Msg     string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	return e.Msg
}

// MissingFields builds a ValidationError for absent required parameters.
func MissingFields(names ...string) *ValidationError {
	return &ValidationError{Missing: names}
}

// BatchError is the hard failure of an ingestion batch: the transactional
// multi-insert aborted and none of its rows were committed. RowErrors
// collected during the parse phase are carried along so the caller still
// sees them.
type BatchError struct {
	Err       error
	RowErrors []RowError
}

func (e *BatchError) Error() string {
	return "batch insert failed: " + storeErrorMessage(e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Postgres error codes the pipeline cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// storeErrorMessage translates a store-level error into a message that names
// the violated invariant instead of leaking driver internals.
func storeErrorMessage(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return "duplicate (campaign_id, date) pair"
	case pgForeignKeyViolation:
		return "referenced record does not exist"
	case pgNotNullViolation:
		return fmt.Sprintf("missing or unparseable value for %s", pgErr.ColumnName)
	case pgCheckViolation:
		return "value out of range (negative values are not allowed)"
	default:
		return pgErr.Message
	}
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isForeignKeyViolation reports whether err is a referential-integrity failure.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// ConstraintMessage exposes the store error translation for layers that
// surface persistence failures (campaign/client/user writes).
func ConstraintMessage(err error) string {
	return storeErrorMessage(err)
}

// IsConstraintViolation reports whether err is any integrity-constraint
// failure raised by the store.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
		return true
	}
	return false
}
