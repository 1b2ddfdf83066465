package core

// clients.go manages the client (advertiser) entity. Deleting a client
// cascades to its campaigns, and through them to their metric rows.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ClientParams carries create/update input for a client.
type ClientParams struct {
	Name         *string `json:"name"`
	Industry     *string `json:"industry"`
	ContactEmail *string `json:"contact_email"`
}

// CreateClient inserts a new client. Name and contact email are required;
// the contact email must be unique.
func (s *Service) CreateClient(ctx context.Context, p ClientParams) (*Client, error) {
	var missing []string
	if p.Name == nil || *p.Name == "" {
		missing = append(missing, "name")
	}
	if p.ContactEmail == nil || *p.ContactEmail == "" {
		missing = append(missing, "contact_email")
	}
	if len(missing) > 0 {
		return nil, MissingFields(missing...)
	}

	industry := ""
	if p.Industry != nil {
		industry = *p.Industry
	}

	var c Client
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (name, industry, contact_email)
		VALUES ($1, $2, $3)
		RETURNING id, name, COALESCE(industry, ''), contact_email, created_at`,
		*p.Name, industry, *p.ContactEmail,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.CreatedAt)
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &c, nil
}

// GetClient returns one client by id, or ErrNotFound.
func (s *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(industry, ''), contact_email, created_at
		FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// ListClients returns all clients.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, COALESCE(industry, ''), contact_email, created_at
		FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient applies a partial update and returns the updated client.
func (s *Service) UpdateClient(ctx context.Context, id int64, p ClientParams) (*Client, error) {
	var sets []string
	var args []any

	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil && *p.Name != "" {
		set("name", *p.Name)
	}
	if p.Industry != nil {
		set("industry", *p.Industry)
	}
	if p.ContactEmail != nil && *p.ContactEmail != "" {
		set("contact_email", *p.ContactEmail)
	}

	if len(sets) == 0 {
		return s.GetClient(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE clients SET %s WHERE id = $%d
		RETURNING id, name, COALESCE(industry, ''), contact_email, created_at`,
		strings.Join(sets, ", "), len(args))

	var c Client
	err := s.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Industry, &c.ContactEmail, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &c, nil
}

// DeleteClient removes a client and, transitively, its campaigns and their
// metric rows.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// lookupTable is a name-only entity store shared by platforms and tags.
type lookupTable string

const (
	platformsTable lookupTable = "platforms"
	tagsTable      lookupTable = "tags"
)

// CreateLookup inserts a platform or tag by name.
func (s *Service) CreateLookup(ctx context.Context, table lookupTable, name string) (*Lookup, error) {
	if name == "" {
		return nil, MissingFields("name")
	}

	var l Lookup
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name`, table)
	err := s.pool.QueryRow(ctx, query, name).Scan(&l.ID, &l.Name)
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return &l, nil
}

// ListLookups returns all platforms or tags.
func (s *Service) ListLookups(ctx context.Context, table lookupTable) ([]Lookup, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var result []Lookup
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// DeleteLookup removes a platform or tag by id.
func (s *Service) DeleteLookup(ctx context.Context, table lookupTable, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Platforms and Tags expose the lookup stores by name.

func (s *Service) CreatePlatform(ctx context.Context, name string) (*Lookup, error) {
	return s.CreateLookup(ctx, platformsTable, name)
}

func (s *Service) ListPlatforms(ctx context.Context) ([]Lookup, error) {
	return s.ListLookups(ctx, platformsTable)
}

func (s *Service) DeletePlatform(ctx context.Context, id int64) error {
	return s.DeleteLookup(ctx, platformsTable, id)
}

func (s *Service) CreateTag(ctx context.Context, name string) (*Lookup, error) {
	return s.CreateLookup(ctx, tagsTable, name)
}

func (s *Service) ListTags(ctx context.Context) ([]Lookup, error) {
	return s.ListLookups(ctx, tagsTable)
}

func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	return s.DeleteLookup(ctx, tagsTable, id)
}
