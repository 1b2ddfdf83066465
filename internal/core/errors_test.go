package core

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestValidationErrorMessage(t *testing.T) {
	err := MissingFields("campaign_id", "date")
	want := "missing required fields: campaign_id, date"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	plain := &ValidationError{Msg: "invalid id"}
	if plain.Error() != "invalid id" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "invalid id")
	}
}

func TestStoreErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgUniqueViolation},
			want: "duplicate (campaign_id, date) pair",
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: pgForeignKeyViolation},
			want: "referenced record does not exist",
		},
		{
			name: "not null violation names column",
			err:  &pgconn.PgError{Code: pgNotNullViolation, ColumnName: "impressions"},
			want: "missing or unparseable value for impressions",
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: pgCheckViolation},
			want: "value out of range (negative values are not allowed)",
		},
		{
			name: "non postgres error passes through",
			err:  errors.New("connection reset"),
			want: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storeErrorMessage(tt.err); got != tt.want {
				t.Errorf("storeErrorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBatchError(t *testing.T) {
	inner := &pgconn.PgError{Code: pgUniqueViolation}
	be := &BatchError{
		Err:       inner,
		RowErrors: []RowError{{Reason: "Missing fields", Missing: []string{"spend"}}},
	}

	want := "batch insert failed: duplicate (campaign_id, date) pair"
	if be.Error() != want {
		t.Errorf("Error() = %q, want %q", be.Error(), want)
	}

	var pgErr *pgconn.PgError
	if !errors.As(be, &pgErr) {
		t.Error("BatchError should unwrap to the store error")
	}
}

func TestIsConstraintViolation(t *testing.T) {
	if !IsConstraintViolation(&pgconn.PgError{Code: pgCheckViolation}) {
		t.Error("check violation should be a constraint violation")
	}
	if IsConstraintViolation(&pgconn.PgError{Code: "57014"}) {
		t.Error("query cancellation is not a constraint violation")
	}
	if IsConstraintViolation(errors.New("boom")) {
		t.Error("plain errors are not constraint violations")
	}
}
