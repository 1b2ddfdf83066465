package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digivantrix/campaigns/internal/core"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", core.ErrNotFound, http.StatusNotFound},
		{"bad credentials", core.ErrInvalidCredentials, http.StatusUnauthorized},
		{"upload slots exhausted", core.ErrTooManyUploads, http.StatusTooManyRequests},
		{"validation", &core.ValidationError{Msg: "invalid id"}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			respondError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestRespondErrorMissingFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/metrics/upload-csv", nil)
	respondError(rec, req, core.MissingFields("campaign_id"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Missing) != 1 || body.Missing[0] != "campaign_id" {
		t.Errorf("missing = %v, want [campaign_id]", body.Missing)
	}
}

func TestRespondErrorBatchFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/metrics/upload-csv", nil)

	be := &core.BatchError{
		Err:       &pgconn.PgError{Code: "23505"},
		RowErrors: []core.RowError{{Reason: "Missing fields", Missing: []string{"spend"}}},
	}
	respondError(rec, req, be)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error  string          `json:"error"`
		Errors []core.RowError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "batch insert failed: duplicate (campaign_id, date) pair" {
		t.Errorf("error = %q", body.Error)
	}
	if len(body.Errors) != 1 {
		t.Errorf("errors = %d rows, want 1", len(body.Errors))
	}
}
