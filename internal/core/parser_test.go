package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Date", " IMPRESSIONS ", `"clicks"`, "spend"})

	want := HeaderIndex{"date": 0, "impressions": 1, "clicks": 2, "spend": 3}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("MakeHeaderIndex = %v, want %v", idx, want)
	}
}

func TestParseMetricRecordMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		row     []string
		missing []string
	}{
		{
			name:    "no spend column",
			header:  []string{"date", "impressions", "clicks", "conversions", "cost_per_click"},
			row:     []string{"2024-01-01", "100", "10", "2", "0.5"},
			missing: []string{"spend"},
		},
		{
			name:    "several columns absent",
			header:  []string{"date", "impressions"},
			row:     []string{"2024-01-01", "100"},
			missing: []string{"clicks", "conversions", "cost_per_click", "spend"},
		},
		{
			name:    "empty header",
			header:  []string{},
			row:     []string{},
			missing: []string{"date", "impressions", "clicks", "conversions", "cost_per_click", "spend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := MakeHeaderIndex(tt.header)
			_, rowErr := parseMetricRecord(7, idx, tt.row)
			if rowErr == nil {
				t.Fatal("expected a row error, got none")
			}
			if rowErr.Reason != "Missing fields" {
				t.Errorf("Reason = %q, want %q", rowErr.Reason, "Missing fields")
			}
			if !reflect.DeepEqual(rowErr.Missing, tt.missing) {
				t.Errorf("Missing = %v, want %v", rowErr.Missing, tt.missing)
			}
		})
	}
}

func TestParseMetricRecordAccepted(t *testing.T) {
	idx := MakeHeaderIndex([]string{"date", "impressions", "clicks", "conversions", "cost_per_click", "spend"})
	row := []string{"2024-03-15", "1000", "50", "5", "$0.25", "12.50"}

	c, rowErr := parseMetricRecord(42, idx, row)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %+v", rowErr)
	}

	if c.CampaignID != 42 {
		t.Errorf("CampaignID = %d, want 42", c.CampaignID)
	}
	if !c.Date.Valid || c.Date.Time.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("Date = %+v, want valid 2024-03-15", c.Date)
	}
	if !c.Impressions.Valid || c.Impressions.Int32 != 1000 {
		t.Errorf("Impressions = %+v, want 1000", c.Impressions)
	}
	if !c.CostPerClick.Valid {
		t.Errorf("CostPerClick = %+v, want valid", c.CostPerClick)
	}
}

func TestParseMetricRecordUnparseableValuesStayNull(t *testing.T) {
	// All columns present, values garbage: the row is accepted and the
	// invalid values travel as NULL for the store to reject.
	idx := MakeHeaderIndex([]string{"date", "impressions", "clicks", "conversions", "cost_per_click", "spend"})
	row := []string{"not-a-date", "abc", "", "xyz", "free", "n/a"}

	c, rowErr := parseMetricRecord(1, idx, row)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %+v", rowErr)
	}
	if c.Date.Valid || c.Impressions.Valid || c.Clicks.Valid ||
		c.Conversions.Valid || c.CostPerClick.Valid || c.Spend.Valid {
		t.Errorf("expected all fields invalid, got %+v", c)
	}
}

func TestPartitionRecords(t *testing.T) {
	idx := MakeHeaderIndex([]string{"date", "impressions", "clicks", "conversions", "cost_per_click"})
	records := [][]string{
		{"2024-01-01", "10", "1", "0", "0.1"},
		{"", "", "", "", ""},
		{"2024-01-02", "20", "2", "1", "0.2"},
	}

	candidates, rowErrors := partitionRecords(3, idx, records)

	if len(candidates) != 0 {
		t.Errorf("candidates = %d, want 0 (spend column missing)", len(candidates))
	}
	// The all-blank row is skipped, not reported.
	if len(rowErrors) != 2 {
		t.Fatalf("rowErrors = %d, want 2", len(rowErrors))
	}
	if rowErrors[0].Row["date"] != "2024-01-01" || rowErrors[1].Row["date"] != "2024-01-02" {
		t.Errorf("row errors out of input order: %+v", rowErrors)
	}
}

func TestPartitionRecordsOrderPreserved(t *testing.T) {
	idx := MakeHeaderIndex([]string{"date", "impressions", "clicks", "conversions", "cost_per_click", "spend"})
	records := [][]string{
		{"2024-01-03", "30", "3", "1", "0.3", "9"},
		{"2024-01-01", "10", "1", "0", "0.1", "1"},
		{"2024-01-02", "20", "2", "1", "0.2", "4"},
	}

	candidates, rowErrors := partitionRecords(1, idx, records)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %+v", rowErrors)
	}
	if len(candidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(candidates))
	}

	got := []string{
		candidates[0].Date.Time.Format("2006-01-02"),
		candidates[1].Date.Time.Format("2006-01-02"),
		candidates[2].Date.Time.Format("2006-01-02"),
	}
	want := []string{"2024-01-03", "2024-01-01", "2024-01-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidate order = %v, want %v", got, want)
	}
}

func TestReadCSVEmptyStream(t *testing.T) {
	header, records, err := readCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != nil {
		t.Errorf("header = %v, want nil for empty stream", header)
	}
	if records != nil {
		t.Errorf("records = %v, want nil for empty stream", records)
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	data := "date,impressions,clicks,conversions,cost_per_click,spend\n" +
		"2024-01-01,100,10\n" +
		"2024-01-02,200,20,2,0.5,10\n"

	header, records, err := readCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(header) != 6 {
		t.Errorf("header columns = %d, want 6", len(header))
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2 (short rows are kept)", len(records))
	}
}
