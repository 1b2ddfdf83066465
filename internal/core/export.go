package core

// export.go serializes a filtered metric set as flat CSV. This is a
// row-level passthrough projection, no aggregation.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// exportHeader is the fixed export column set; cpc is the stored per-row
// cost_per_click rate.
var exportHeader = []string{"date", "impressions", "clicks", "conversions", "cpc", "spend"}

// ExportMetrics streams matching rows, ordered by date ascending, to w as
// CSV with the fixed column set date,impressions,clicks,conversions,cpc,spend.
func (s *Service) ExportMetrics(ctx context.Context, filter MetricFilter, w io.Writer) error {
	rows, err := s.queryMetrics(ctx, filter, "ORDER BY date ASC", nil)
	if err != nil {
		return err
	}
	return writeMetricsCSV(w, rows)
}

// writeMetricsCSV renders rows with fixed decimal precision: cost_per_click
// keeps 4 fractional digits, spend 2.
func writeMetricsCSV(w io.Writer, rows []MetricRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, m := range rows {
		record := []string{
			m.Date.Format("2006-01-02"),
			strconv.FormatInt(m.Impressions, 10),
			strconv.FormatInt(m.Clicks, 10),
			strconv.FormatInt(m.Conversions, 10),
			strconv.FormatFloat(m.CostPerClick, 'f', 4, 64),
			strconv.FormatFloat(m.Spend, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
