package core

// campaigns.go manages the campaign entity and its platform/tag/client
// associations. Deleting a campaign cascades to its metric rows through the
// store's foreign keys.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CampaignParams carries create/update input for a campaign. Nil fields are
// absent; on update they are left untouched.
type CampaignParams struct {
	ClientID    *int64   `json:"client_id"`
	CreatedBy   *int64   `json:"created_by"`
	Name        *string  `json:"campaign_name"`
	Budget      *float64 `json:"budget"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Status      *string  `json:"status"`
	PlatformIDs []int64  `json:"platform_ids"`
	TagIDs      []int64  `json:"tag_ids"`
}

const campaignColumns = `id, client_id, created_by, campaign_name,
	COALESCE(budget, 0)::float8, start_date, end_date, status, created_at`

// CreateCampaign inserts a new campaign with its platform and tag sets.
func (s *Service) CreateCampaign(ctx context.Context, p CampaignParams) (*Campaign, error) {
	var missing []string
	if p.ClientID == nil {
		missing = append(missing, "client_id")
	}
	if p.Name == nil || *p.Name == "" {
		missing = append(missing, "campaign_name")
	}
	if p.StartDate == nil {
		missing = append(missing, "start_date")
	}
	if p.EndDate == nil {
		missing = append(missing, "end_date")
	}
	if len(missing) > 0 {
		return nil, MissingFields(missing...)
	}

	start := ToPgDate(*p.StartDate)
	end := ToPgDate(*p.EndDate)
	if !start.Valid || !end.Valid {
		return nil, &ValidationError{Msg: "invalid start_date or end_date"}
	}

	status := StatusDraft
	if p.Status != nil {
		status = CampaignStatus(*p.Status)
		if !status.Valid() {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid status %q", *p.Status)}
		}
	}

	var budget float64
	if p.Budget != nil {
		budget = *p.Budget
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO campaigns (client_id, created_by, campaign_name, budget, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		*p.ClientID, p.CreatedBy, *p.Name, budget, start, end, status,
	).Scan(&id)
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("insert campaign: %w", err)
	}

	if err := replaceAssociations(ctx, tx, id, p.PlatformIDs, p.TagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetCampaign(ctx, id)
}

// GetCampaign returns one campaign with platforms, tags, and client resolved.
func (s *Service) GetCampaign(ctx context.Context, id int64) (*Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignColumns)

	c, err := scanCampaign(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	if err := s.loadAssociations(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns returns all campaigns with their associations resolved.
func (s *Service) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM campaigns ORDER BY id`, campaignColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range campaigns {
		if err := s.loadAssociations(ctx, &campaigns[i]); err != nil {
			return nil, err
		}
	}
	return campaigns, nil
}

// UpdateCampaign applies a partial update, optionally replacing the platform
// and tag sets, and returns the updated campaign.
func (s *Service) UpdateCampaign(ctx context.Context, id int64, p CampaignParams) (*Campaign, error) {
	var sets []string
	var args []any

	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.ClientID != nil {
		set("client_id", *p.ClientID)
	}
	if p.CreatedBy != nil {
		set("created_by", *p.CreatedBy)
	}
	if p.Name != nil && *p.Name != "" {
		set("campaign_name", *p.Name)
	}
	if p.Budget != nil {
		set("budget", *p.Budget)
	}
	if p.StartDate != nil {
		d := ToPgDate(*p.StartDate)
		if !d.Valid {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid start_date %q", *p.StartDate)}
		}
		set("start_date", d)
	}
	if p.EndDate != nil {
		d := ToPgDate(*p.EndDate)
		if !d.Valid {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid end_date %q", *p.EndDate)}
		}
		set("end_date", d)
	}
	if p.Status != nil {
		status := CampaignStatus(*p.Status)
		if !status.Valid() {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid status %q", *p.Status)}
		}
		set("status", status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			if IsConstraintViolation(err) {
				return nil, &ValidationError{Msg: storeErrorMessage(err)}
			}
			return nil, fmt.Errorf("update campaign: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	} else {
		// Still verify the campaign exists before touching associations.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check campaign: %w", err)
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	if err := replaceAssociations(ctx, tx, id, p.PlatformIDs, p.TagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetCampaign(ctx, id)
}

// DeleteCampaign removes a campaign; its metric rows and association rows go
// with it via ON DELETE CASCADE.
func (s *Service) DeleteCampaign(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// replaceAssociations swaps the campaign's platform and tag sets when the
// caller provided them. A nil slice means "leave as is".
func replaceAssociations(ctx context.Context, db DBTX, campaignID int64, platformIDs, tagIDs []int64) error {
	if platformIDs != nil {
		if _, err := db.Exec(ctx, `DELETE FROM campaign_platforms WHERE campaign_id = $1`, campaignID); err != nil {
			return fmt.Errorf("clear platforms: %w", err)
		}
		for _, pid := range platformIDs {
			if _, err := db.Exec(ctx,
				`INSERT INTO campaign_platforms (campaign_id, platform_id) VALUES ($1, $2)`,
				campaignID, pid); err != nil {
				if IsConstraintViolation(err) {
					return &ValidationError{Msg: storeErrorMessage(err)}
				}
				return fmt.Errorf("set platform: %w", err)
			}
		}
	}

	if tagIDs != nil {
		if _, err := db.Exec(ctx, `DELETE FROM campaign_tags WHERE campaign_id = $1`, campaignID); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		for _, tid := range tagIDs {
			if _, err := db.Exec(ctx,
				`INSERT INTO campaign_tags (campaign_id, tag_id) VALUES ($1, $2)`,
				campaignID, tid); err != nil {
				if IsConstraintViolation(err) {
					return &ValidationError{Msg: storeErrorMessage(err)}
				}
				return fmt.Errorf("set tag: %w", err)
			}
		}
	}

	return nil
}

// loadAssociations fills in platform names, tag names, and the client
// reference for a campaign.
func (s *Service) loadAssociations(ctx context.Context, c *Campaign) error {
	var err error
	c.Platforms, err = s.associationNames(ctx, `
		SELECT p.name FROM platforms p
		JOIN campaign_platforms cp ON cp.platform_id = p.id
		WHERE cp.campaign_id = $1 ORDER BY p.name`, c.ID)
	if err != nil {
		return fmt.Errorf("load platforms: %w", err)
	}

	c.Tags, err = s.associationNames(ctx, `
		SELECT t.name FROM tags t
		JOIN campaign_tags ct ON ct.tag_id = t.id
		WHERE ct.campaign_id = $1 ORDER BY t.name`, c.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	var ref ClientRef
	err = s.pool.QueryRow(ctx, `SELECT id, name FROM clients WHERE id = $1`, c.ClientID).
		Scan(&ref.ID, &ref.Name)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		c.Client = nil
	case err != nil:
		return fmt.Errorf("load client: %w", err)
	default:
		c.Client = &ref
	}

	return nil
}

func (s *Service) associationNames(ctx context.Context, query string, campaignID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*Campaign, error) {
	var c Campaign
	var createdBy pgtype.Int8
	err := row.Scan(
		&c.ID, &c.ClientID, &createdBy, &c.Name,
		&c.Budget, &c.StartDate, &c.EndDate, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		c.CreatedBy = &createdBy.Int64
	}
	return &c, nil
}
