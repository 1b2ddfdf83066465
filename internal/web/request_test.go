package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDateRangeQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{"no bounds", "", "", "", false},
		{"from only", "from=2024-01-01", "2024-01-01", "", false},
		{"both bounds", "from=2024-01-01&to=2024-01-31", "2024-01-01", "2024-01-31", false},
		{"bad from", "from=January", "", "", true},
		{"bad to", "to=31/01/2024", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/reports/summary?"+tt.query, nil)
			dr, err := dateRangeQuery(r)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			check := func(got *time.Time, want string, label string) {
				if want == "" {
					if got != nil {
						t.Errorf("%s = %v, want nil", label, got)
					}
					return
				}
				if got == nil || got.Format("2006-01-02") != want {
					t.Errorf("%s = %v, want %s", label, got, want)
				}
			}
			check(dr.From, tt.wantFrom, "From")
			check(dr.To, tt.wantTo, "To")
		})
	}
}

func TestIntQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/metrics?page=3&pageSize=abc&limit=-2", nil)

	if got := intQuery(r, "page", 1); got != 3 {
		t.Errorf("page = %d, want 3", got)
	}
	if got := intQuery(r, "pageSize", 50); got != 50 {
		t.Errorf("pageSize = %d, want default 50", got)
	}
	if got := intQuery(r, "limit", 5); got != 5 {
		t.Errorf("limit = %d, want default 5", got)
	}
	if got := intQuery(r, "missing", 7); got != 7 {
		t.Errorf("missing = %d, want default 7", got)
	}
}
