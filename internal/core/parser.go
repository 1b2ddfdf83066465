package core

// parser.go turns raw CSV records into typed metric-row candidates.
//
// Each record is classified independently: either it becomes a candidate for
// the transactional loader, or a RowError naming exactly the missing fields.
// The partition is pure and order-preserving; nothing here touches the store.

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// metricFields are the required CSV columns for a metric row, in canonical
// order.
var metricFields = []string{"date", "impressions", "clicks", "conversions", "cost_per_click", "spend"}

// HeaderIndex maps lowercased column names to their position in a CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a CSV header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// metricCandidate is a typed metric row accepted at parse time. Fields hold
// pgtype values so that unparseable input travels to the store as NULL and
// is rejected there, keeping the store the authority over value validity.
type metricCandidate struct {
	CampaignID   int64
	Date         pgtype.Date
	Impressions  pgtype.Int4
	Clicks       pgtype.Int4
	Conversions  pgtype.Int4
	CostPerClick pgtype.Numeric
	Spend        pgtype.Numeric
}

// copyRow returns the candidate as a COPY row matching metricCopyColumns.
func (c metricCandidate) copyRow() []any {
	return []any{c.CampaignID, c.Date, c.Impressions, c.Clicks, c.Conversions, c.CostPerClick, c.Spend}
}

// metricCopyColumns is the column order used for the COPY bulk insert.
var metricCopyColumns = []string{"campaign_id", "date", "impressions", "clicks", "conversions", "cost_per_click", "spend"}

// parseMetricRecord converts one raw record into a candidate or a RowError.
// A field is missing when its column is absent from the header; value-level
// problems are left to the store's constraints.
func parseMetricRecord(campaignID int64, idx HeaderIndex, row []string) (metricCandidate, *RowError) {
	var missing []string
	for _, f := range metricFields {
		if _, ok := idx[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return metricCandidate{}, &RowError{
			Row:     recordMap(idx, row),
			Reason:  "Missing fields",
			Missing: missing,
		}
	}

	cell := func(field string) string {
		pos := idx[field]
		if pos >= len(row) {
			return ""
		}
		return CleanCell(row[pos])
	}

	return metricCandidate{
		CampaignID:   campaignID,
		Date:         ToPgDate(cell("date")),
		Impressions:  ToPgCount(cell("impressions")),
		Clicks:       ToPgCount(cell("clicks")),
		Conversions:  ToPgCount(cell("conversions")),
		CostPerClick: ToPgNumeric(cell("cost_per_click")),
		Spend:        ToPgNumeric(cell("spend")),
	}, nil
}

// partitionRecords routes every record through the parser, accumulating
// accepted candidates and RowErrors in input order. Empty rows are skipped.
func partitionRecords(campaignID int64, idx HeaderIndex, records [][]string) ([]metricCandidate, []RowError) {
	var candidates []metricCandidate
	var rowErrors []RowError

	for _, row := range records {
		if isEmptyRow(row) {
			continue
		}
		candidate, rowErr := parseMetricRecord(campaignID, idx, row)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, rowErrors
}

// recordMap reconstructs the raw record as a field→value mapping for
// diagnostics.
func recordMap(idx HeaderIndex, row []string) map[string]string {
	m := make(map[string]string, len(idx))
	for name, pos := range idx {
		if pos < len(row) {
			m[name] = row[pos]
		} else {
			m[name] = ""
		}
	}
	return m
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
