package core

// metrics.go covers single-row operations on the metrics store: filtered
// listing with pagination, lookups, partial updates, and deletion. Bulk
// ingestion lives in ingest.go.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const metricColumns = `id, campaign_id, date, impressions, clicks, conversions,
	cost_per_click::float8, spend::float8, created_at`

// ListMetrics returns one page of metric rows matching the filter, newest
// date first.
func (s *Service) ListMetrics(ctx context.Context, filter MetricFilter, page, pageSize int) (*MetricPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var conds []string
	var args []any
	if filter.CampaignID != nil {
		args = append(args, *filter.CampaignID)
		conds = append(conds, fmt.Sprintf("campaign_id = $%d", len(args)))
	}
	filter.Range.clause("date", &conds, &args)

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM performance_metrics %s`, where)
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count metrics: %w", err)
	}

	offset := (page - 1) * pageSize
	data, err := s.queryMetrics(ctx, filter, "ORDER BY date DESC", &pageClause{limit: pageSize, offset: offset})
	if err != nil {
		return nil, err
	}

	return &MetricPage{Total: total, Page: page, PageSize: pageSize, Data: data}, nil
}

// GetMetric returns one metric row by id, or ErrNotFound.
func (s *Service) GetMetric(ctx context.Context, id int64) (*MetricRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM performance_metrics WHERE id = $1`, metricColumns)

	var m MetricRow
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.CampaignID, &m.Date,
		&m.Impressions, &m.Clicks, &m.Conversions,
		&m.CostPerClick, &m.Spend, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metric: %w", err)
	}
	return &m, nil
}

// UpdateMetric applies a partial update to a metric row and returns the
// updated row. Only non-nil fields change; created_at is immutable.
func (s *Service) UpdateMetric(ctx context.Context, id int64, upd MetricUpdate) (*MetricRow, error) {
	var sets []string
	var args []any

	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Date != nil {
		d := ToPgDate(*upd.Date)
		if !d.Valid {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid date %q", *upd.Date)}
		}
		set("date", d)
	}
	if upd.Impressions != nil {
		set("impressions", *upd.Impressions)
	}
	if upd.Clicks != nil {
		set("clicks", *upd.Clicks)
	}
	if upd.Conversions != nil {
		set("conversions", *upd.Conversions)
	}
	if upd.CostPerClick != nil {
		set("cost_per_click", *upd.CostPerClick)
	}
	if upd.Spend != nil {
		set("spend", *upd.Spend)
	}

	if len(sets) == 0 {
		return s.GetMetric(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE performance_metrics SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), metricColumns)

	var m MetricRow
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.CampaignID, &m.Date,
		&m.Impressions, &m.Clicks, &m.Conversions,
		&m.CostPerClick, &m.Spend, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("update metric: %w", err)
	}
	return &m, nil
}

// DeleteMetric removes one metric row by id, or returns ErrNotFound.
func (s *Service) DeleteMetric(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM performance_metrics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// pageClause bolts LIMIT/OFFSET onto a metrics query.
type pageClause struct {
	limit  int
	offset int
}

// queryMetrics runs a filtered scan of the metrics store with the given
// ordering and optional pagination.
func (s *Service) queryMetrics(ctx context.Context, filter MetricFilter, orderBy string, pg *pageClause) ([]MetricRow, error) {
	var conds []string
	var args []any
	if filter.CampaignID != nil {
		args = append(args, *filter.CampaignID)
		conds = append(conds, fmt.Sprintf("campaign_id = $%d", len(args)))
	}
	filter.Range.clause("date", &conds, &args)

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	paging := ""
	if pg != nil {
		args = append(args, pg.limit)
		paging = fmt.Sprintf("LIMIT $%d", len(args))
		args = append(args, pg.offset)
		paging += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	query := fmt.Sprintf(`SELECT %s FROM performance_metrics %s %s %s`,
		metricColumns, where, orderBy, paging)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var result []MetricRow
	for rows.Next() {
		var m MetricRow
		if err := rows.Scan(
			&m.ID, &m.CampaignID, &m.Date,
			&m.Impressions, &m.Clicks, &m.Conversions,
			&m.CostPerClick, &m.Spend, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
