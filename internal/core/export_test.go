package core

import (
	"strings"
	"testing"
	"time"
)

func TestWriteMetricsCSV(t *testing.T) {
	rows := []MetricRow{
		{
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Impressions:  1000,
			Clicks:       50,
			Conversions:  5,
			CostPerClick: 0.25,
			Spend:        12.5,
		},
		{
			Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Impressions:  0,
			Clicks:       0,
			Conversions:  0,
			CostPerClick: 0,
			Spend:        0,
		},
	}

	var buf strings.Builder
	if err := writeMetricsCSV(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "date,impressions,clicks,conversions,cpc,spend\n" +
		"2024-01-01,1000,50,5,0.2500,12.50\n" +
		"2024-01-02,0,0,0,0.0000,0.00\n"
	if buf.String() != want {
		t.Errorf("csv output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteMetricsCSVEmpty(t *testing.T) {
	var buf strings.Builder
	if err := writeMetricsCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.String() != "date,impressions,clicks,conversions,cpc,spend\n" {
		t.Errorf("empty export = %q, want header only", buf.String())
	}
}
