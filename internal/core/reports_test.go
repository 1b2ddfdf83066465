package core

import (
	"testing"
	"time"
)

func TestDeriveCTR(t *testing.T) {
	tests := []struct {
		name        string
		clicks      int64
		impressions int64
		want        float64
	}{
		{"normal ratio", 20, 100, 0.2},
		{"zero impressions", 50, 0, 0},
		{"negative impressions", 10, -1, 0},
		{"zero clicks", 0, 1000, 0},
		{"clicks exceed impressions", 10, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveCTR(tt.clicks, tt.impressions); got != tt.want {
				t.Errorf("deriveCTR(%d, %d) = %v, want %v",
					tt.clicks, tt.impressions, got, tt.want)
			}
		})
	}
}

func TestDeriveCPC(t *testing.T) {
	tests := []struct {
		name   string
		spend  float64
		clicks int64
		want   float64
	}{
		{"normal ratio", 10, 40, 0.25},
		{"zero clicks", 99.5, 0, 0},
		{"negative clicks", 10, -3, 0},
		{"zero spend", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveCPC(tt.spend, tt.clicks); got != tt.want {
				t.Errorf("deriveCPC(%v, %d) = %v, want %v",
					tt.spend, tt.clicks, got, tt.want)
			}
		})
	}
}

func TestDateRangeClause(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dr        DateRange
		wantConds []string
		wantArgs  int
	}{
		{"open range", DateRange{}, nil, 0},
		{"from only", DateRange{From: &from}, []string{"m.date >= $1"}, 1},
		{"to only", DateRange{To: &to}, []string{"m.date <= $1"}, 1},
		{"both bounds", DateRange{From: &from, To: &to}, []string{"m.date >= $1", "m.date <= $2"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var conds []string
			var args []any
			tt.dr.clause("m.date", &conds, &args)

			if len(conds) != len(tt.wantConds) {
				t.Fatalf("conds = %v, want %v", conds, tt.wantConds)
			}
			for i := range conds {
				if conds[i] != tt.wantConds[i] {
					t.Errorf("conds[%d] = %q, want %q", i, conds[i], tt.wantConds[i])
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}
