package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestIngestMetricsRequiresCampaignID(t *testing.T) {
	s := NewService(nil, Options{})

	for _, id := range []int64{0, -1} {
		_, err := s.IngestMetrics(context.Background(), id, strings.NewReader("date\n"))

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("campaignID=%d: err = %v, want ValidationError", id, err)
		}
		if len(vErr.Missing) != 1 || vErr.Missing[0] != "campaign_id" {
			t.Errorf("campaignID=%d: missing = %v, want [campaign_id]", id, vErr.Missing)
		}
	}
}

func TestIngestMetricsEmptyUpload(t *testing.T) {
	// An empty stream never reaches the store, so a nil pool is safe here.
	s := NewService(nil, Options{})

	result, err := s.IngestMetrics(context.Background(), 1, strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 0 || len(result.RowErrors) != 0 {
		t.Errorf("result = %+v, want zero inserted and no row errors", result)
	}
}

func TestIngestMetricsAllRowsRejectedSkipsStore(t *testing.T) {
	// Header lacks every required column: no candidates survive parsing, so
	// the batch returns without opening a transaction.
	s := NewService(nil, Options{})

	data := "day,views\n2024-01-01,100\n"
	result, err := s.IngestMetrics(context.Background(), 1, strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 0 {
		t.Errorf("Inserted = %d, want 0", result.Inserted)
	}
	if len(result.RowErrors) != 1 {
		t.Fatalf("RowErrors = %d, want 1", len(result.RowErrors))
	}
	if result.RowErrors[0].Reason != "Missing fields" {
		t.Errorf("Reason = %q, want %q", result.RowErrors[0].Reason, "Missing fields")
	}
}
