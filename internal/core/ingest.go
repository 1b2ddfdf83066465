package core

// ingest.go is the batch validator and atomic loader for metrics CSV uploads.
//
// The two failure modes are kept strictly apart: parse-time problems are
// collected per row and never abort the batch, while any persistence failure
// aborts the whole transaction so that no partial batch is ever committed.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/digivantrix/campaigns/internal/logging"
	"github.com/digivantrix/campaigns/internal/monitor"
	"github.com/jackc/pgx/v5"
)

// IngestMetrics reads CSV data for one campaign and persists every accepted
// row in a single all-or-nothing transaction.
//
// The returned IngestResult carries the committed row count and all RowErrors
// collected while parsing. A store-level failure surfaces as *BatchError with
// the same RowErrors attached and an Inserted count of zero.
func (s *Service) IngestMetrics(ctx context.Context, campaignID int64, data io.Reader) (*IngestResult, error) {
	if campaignID <= 0 {
		return nil, MissingFields("campaign_id")
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	header, records, err := readCSV(data)
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid CSV: %v", err)}
	}
	if header == nil {
		// Empty upload: nothing to insert, nothing failed.
		return &IngestResult{Inserted: 0, RowErrors: nil}, nil
	}

	idx := MakeHeaderIndex(header)
	candidates, rowErrors := partitionRecords(campaignID, idx, records)
	monitor.RowsRejected.Add(float64(len(rowErrors)))

	logger := logging.FromContext(ctx)
	logger.Debug("metrics batch parsed",
		"campaign_id", campaignID,
		"accepted", len(candidates),
		"row_errors", len(rowErrors),
	)

	if len(candidates) == 0 {
		return &IngestResult{Inserted: 0, RowErrors: rowErrors}, nil
	}

	if err := s.insertMetricBatch(ctx, candidates); err != nil {
		monitor.BatchFailures.Inc()
		logger.Warn("metrics batch aborted",
			"campaign_id", campaignID,
			"rows", len(candidates),
			"error", err,
		)
		return nil, &BatchError{Err: err, RowErrors: rowErrors}
	}

	monitor.RowsIngested.Add(float64(len(candidates)))
	logger.Info("metrics batch committed",
		"campaign_id", campaignID,
		"inserted", len(candidates),
		"row_errors", len(rowErrors),
	)

	return &IngestResult{Inserted: len(candidates), RowErrors: rowErrors}, nil
}

// insertMetricBatch writes all candidates inside one transaction using the
// COPY protocol. Either every row lands or none does.
func (s *Service) insertMetricBatch(ctx context.Context, candidates []metricCandidate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, len(candidates))
	for i, c := range candidates {
		rows[i] = c.copyRow()
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"performance_metrics"},
		metricCopyColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// readCSV consumes the whole stream, returning the header row and the data
// rows. A nil header means the stream was empty.
func readCSV(data io.Reader) ([]string, [][]string, error) {
	r := csv.NewReader(NewSanitizedReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		records = append(records, row)
	}

	return header, records, nil
}
