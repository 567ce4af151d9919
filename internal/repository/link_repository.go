package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shortlink-be/internal/entities"
)

// LinkRepository defines the interface for link storage operations.
// Lookups return nil, nil when no link matches.
type LinkRepository interface {
	FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error)
	FindByTargetURL(ctx context.Context, targetURL string) (*entities.Link, error)
	Create(ctx context.Context, targetURL, shortCode string) (*entities.Link, error)
	FindPage(ctx context.Context, offset, limit int) ([]*entities.Link, error)
	CountAll(ctx context.Context) (int64, error)
}

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new Postgres link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = `id, target_url, short_code, created_at`

func scanLink(row interface{ Scan(dest ...any) error }) (*entities.Link, error) {
	var link entities.Link
	if err := row.Scan(&link.ID, &link.TargetURL, &link.ShortCode, &link.CreatedAt); err != nil {
		return nil, err
	}
	return &link, nil
}

// Create inserts a new link. A duplicate short code or target URL is reported
// as ErrShortCodeTaken or ErrTargetURLTaken.
func (r *linkRepository) Create(ctx context.Context, targetURL, shortCode string) (*entities.Link, error) {
	query := `
		INSERT INTO links (target_url, short_code)
		VALUES ($1, $2)
		RETURNING ` + linkColumns

	link, err := scanLink(r.db.QueryRowContext(ctx, query, targetURL, shortCode))
	if err != nil {
		if conflict := classifyInsertError(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return link, nil
}

// FindByShortCode finds a link by its short code
func (r *linkRepository) FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = $1`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link by short code: %w", err)
	}

	return link, nil
}

// FindByTargetURL finds a link by its exact target URL
func (r *linkRepository) FindByTargetURL(ctx context.Context, targetURL string) (*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE target_url = $1`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, targetURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link by target url: %w", err)
	}

	return link, nil
}

// FindPage retrieves a window of links, newest first
func (r *linkRepository) FindPage(ctx context.Context, offset, limit int) ([]*entities.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	links := make([]*entities.Link, 0, max(limit, 0))
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// CountAll returns the total number of links
func (r *linkRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return total, nil
}
