// Package core provides the business logic for the campaign management
// backend: CSV metrics ingestion, grouped aggregation, reporting, export,
// and the entity stores the pipeline depends on. It has no HTTP dependencies.
package core

import "time"

// Role is a user's access level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// Valid reports whether the role is one the system knows.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is an authenticated operator of the system. The password hash never
// leaves the core package.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Client is an advertiser that owns campaigns.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry,omitempty"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
)

// Valid reports whether the status is a known lifecycle state.
func (s CampaignStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Campaign is a marketing campaign with its associations resolved.
type Campaign struct {
	ID        int64          `json:"id"`
	ClientID  int64          `json:"client_id"`
	CreatedBy *int64         `json:"created_by,omitempty"`
	Name      string         `json:"campaign_name"`
	Budget    float64        `json:"budget"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Status    CampaignStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Platforms []string       `json:"platforms"`
	Tags      []string       `json:"tags"`
	Client    *ClientRef     `json:"client"`
}

// ClientRef is the minimal client identity attached to campaign views.
type ClientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Lookup is a name-only reference entity (platforms, tags).
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MetricRow is one day of performance data for a campaign. The
// (campaign_id, date) pair is unique across all rows; created_at is set once
// at persistence time.
type MetricRow struct {
	ID           int64     `json:"id"`
	CampaignID   int64     `json:"campaign_id"`
	Date         time.Time `json:"date"`
	Impressions  int64     `json:"impressions"`
	Clicks       int64     `json:"clicks"`
	Conversions  int64     `json:"conversions"`
	CostPerClick float64   `json:"cost_per_click"`
	Spend        float64   `json:"spend"`
	CreatedAt    time.Time `json:"created_at"`
}

// MetricUpdate is a partial update of a metric row. Nil fields are left
// untouched.
type MetricUpdate struct {
	Date         *string  `json:"date"`
	Impressions  *int64   `json:"impressions"`
	Clicks       *int64   `json:"clicks"`
	Conversions  *int64   `json:"conversions"`
	CostPerClick *float64 `json:"cost_per_click"`
	Spend        *float64 `json:"spend"`
}

// DateRange is an inclusive calendar-date interval. Either bound may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// MetricFilter selects metric rows for aggregation, listing, and export.
// It is a value: handlers build it once from request parameters and pass it
// down, nothing mutates it.
type MetricFilter struct {
	CampaignID *int64
	Range      DateRange
}

// MetricPage is one page of metric rows plus paging metadata.
type MetricPage struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Data     []MetricRow `json:"data"`
}

// RankBy selects the ordering key for top-campaign rankings.
type RankBy string

const (
	RankByCTR         RankBy = "ctr"
	RankByConversions RankBy = "conversions"
)

// CampaignRef is the campaign identity attached to ranked aggregates.
// A metric row whose campaign has vanished yields a nil reference, not an
// error.
type CampaignRef struct {
	ID       int64          `json:"id"`
	ClientID int64          `json:"client_id"`
	Name     string         `json:"campaign_name"`
	Status   CampaignStatus `json:"status"`
}

// CampaignAggregate is the per-campaign rollup returned by TopCampaigns.
// CTR is derived from the totals, never averaged per row; AvgCPC is the
// simple mean of the stored cost_per_click values.
type CampaignAggregate struct {
	CampaignID       int64        `json:"campaign_id"`
	TotalImpressions int64        `json:"total_impressions"`
	TotalClicks      int64        `json:"total_clicks"`
	TotalConversions int64        `json:"total_conversions"`
	TotalSpend       float64      `json:"total_spend"`
	AvgCPC           float64      `json:"average_cpc"`
	CTR              float64      `json:"ctr"`
	Campaign         *CampaignRef `json:"campaign"`
}

// Summary is the global rollup over a filter set. CTR and CPC are derived
// from the totals with zero guards: no rows, or zero denominators, yield
// exact zeros.
type Summary struct {
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalConversions int64   `json:"total_conversions"`
	TotalSpend       float64 `json:"total_spend"`
	AvgImpressions   float64 `json:"avg_impressions"`
	AvgClicks        float64 `json:"avg_clicks"`
	AvgConversions   float64 `json:"avg_conversions"`
	AvgSpend         float64 `json:"avg_spend"`
	AvgCPC           float64 `json:"avg_cpc"`
	CTR              float64 `json:"ctr"`
	CPC              float64 `json:"cpc"`
}

// IngestResult reports the outcome of one ingestion batch. RowErrors are
// soft failures collected during parsing; Inserted is the number of rows
// committed, which is zero whenever the batch transaction aborts.
type IngestResult struct {
	Inserted  int        `json:"inserted"`
	RowErrors []RowError `json:"errors"`
}

// RowError pairs a raw ingestion record with the reason it was rejected at
// parse time. Row errors are data, not faults: they never abort the batch.
type RowError struct {
	Row     map[string]string `json:"row"`
	Reason  string            `json:"error"`
	Missing []string          `json:"missing,omitempty"`
}
