package core

// reports.go is the aggregation engine: grouped rollups over the metrics
// store for ranking and summary queries. Aggregates are ephemeral views,
// recomputed per query, never stored.

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultTopLimit is the ranking size when the caller gives none.
const DefaultTopLimit = 5

// deriveCTR computes click-through rate from batch totals. Zero impressions
// yield exactly zero, never a division fault.
func deriveCTR(clicks, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(clicks) / float64(impressions)
}

// deriveCPC computes effective cost per click from total spend. Distinct
// from the stored per-row cost_per_click rate. Zero clicks yield exactly
// zero.
func deriveCPC(spend float64, clicks int64) float64 {
	if clicks <= 0 {
		return 0
	}
	return spend / float64(clicks)
}

// rangeClause appends date-range conditions for the given column qualifier.
func (r DateRange) clause(col string, conds *[]string, args *[]any) {
	if r.From != nil {
		*args = append(*args, *r.From)
		*conds = append(*conds, fmt.Sprintf("%s >= $%d", col, len(*args)))
	}
	if r.To != nil {
		*args = append(*args, *r.To)
		*conds = append(*conds, fmt.Sprintf("%s <= $%d", col, len(*args)))
	}
}

// TopCampaigns returns per-campaign aggregates over the date range, ranked
// by the requested key and truncated to limit. Each aggregate carries its
// campaign identity; a campaign id with no matching campaign yields a nil
// reference.
func (s *Service) TopCampaigns(ctx context.Context, by RankBy, limit int, dateRange DateRange) ([]CampaignAggregate, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	var conds []string
	var args []any
	dateRange.clause("m.date", &conds, &args)

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	order := "ctr DESC"
	if by == RankByConversions {
		order = "total_conversions DESC"
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT m.campaign_id,
		       COALESCE(SUM(m.impressions), 0)::bigint,
		       COALESCE(SUM(m.clicks), 0)::bigint,
		       COALESCE(SUM(m.conversions), 0)::bigint AS total_conversions,
		       COALESCE(SUM(m.spend), 0)::float8,
		       COALESCE(AVG(m.cost_per_click), 0)::float8,
		       CASE WHEN SUM(m.impressions) > 0
		            THEN SUM(m.clicks)::float8 / SUM(m.impressions)::float8
		            ELSE 0 END AS ctr,
		       c.id, c.client_id, c.campaign_name, c.status
		FROM performance_metrics m
		LEFT JOIN campaigns c ON c.id = m.campaign_id
		%s
		GROUP BY m.campaign_id, c.id
		ORDER BY %s
		LIMIT $%d`, where, order, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top campaigns query: %w", err)
	}
	defer rows.Close()

	var results []CampaignAggregate
	for rows.Next() {
		var agg CampaignAggregate
		var sqlCTR float64
		var cID, cClientID pgtype.Int8
		var cName, cStatus pgtype.Text

		if err := rows.Scan(
			&agg.CampaignID,
			&agg.TotalImpressions, &agg.TotalClicks, &agg.TotalConversions,
			&agg.TotalSpend, &agg.AvgCPC, &sqlCTR,
			&cID, &cClientID, &cName, &cStatus,
		); err != nil {
			return nil, fmt.Errorf("top campaigns scan: %w", err)
		}

		agg.CTR = deriveCTR(agg.TotalClicks, agg.TotalImpressions)
		if cID.Valid {
			agg.Campaign = &CampaignRef{
				ID:       cID.Int64,
				ClientID: cClientID.Int64,
				Name:     cName.String,
				Status:   CampaignStatus(cStatus.String),
			}
		}
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top campaigns rows: %w", err)
	}

	return results, nil
}

// CampaignSummary computes one global aggregate over the filter set. When a
// client scope is given, only metric rows belonging to that client's
// campaigns count; a client with no campaigns yields a zero-valued summary.
func (s *Service) CampaignSummary(ctx context.Context, clientID *int64, dateRange DateRange) (*Summary, error) {
	var conds []string
	var args []any
	dateRange.clause("date", &conds, &args)

	if clientID != nil {
		campaignIDs, err := s.clientCampaignIDs(ctx, *clientID)
		if err != nil {
			return nil, err
		}
		if len(campaignIDs) == 0 {
			return &Summary{}, nil
		}
		args = append(args, campaignIDs)
		conds = append(conds, fmt.Sprintf("campaign_id = ANY($%d)", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(impressions), 0)::bigint,
		       COALESCE(SUM(clicks), 0)::bigint,
		       COALESCE(SUM(conversions), 0)::bigint,
		       COALESCE(SUM(spend), 0)::float8,
		       COALESCE(AVG(impressions), 0)::float8,
		       COALESCE(AVG(clicks), 0)::float8,
		       COALESCE(AVG(conversions), 0)::float8,
		       COALESCE(AVG(spend), 0)::float8,
		       COALESCE(AVG(cost_per_click), 0)::float8
		FROM performance_metrics
		%s`, where)

	var sum Summary
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&sum.TotalImpressions, &sum.TotalClicks, &sum.TotalConversions,
		&sum.TotalSpend,
		&sum.AvgImpressions, &sum.AvgClicks, &sum.AvgConversions,
		&sum.AvgSpend, &sum.AvgCPC,
	)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}

	sum.CTR = deriveCTR(sum.TotalClicks, sum.TotalImpressions)
	sum.CPC = deriveCPC(sum.TotalSpend, sum.TotalClicks)
	return &sum, nil
}

// clientCampaignIDs resolves the campaigns owned by a client.
func (s *Service) clientCampaignIDs(ctx context.Context, clientID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM campaigns WHERE client_id = $1`, clientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client campaigns: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
