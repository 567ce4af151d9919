package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"shortlink-be/internal/entities"
)

// ClickRepository defines the interface for click storage operations
type ClickRepository interface {
	RecordClick(ctx context.Context, linkID int64, earnings decimal.Decimal) (*entities.Click, error)
	// GetAggregates returns statistics keyed by link id. Links without clicks are absent from the map.
	GetAggregates(ctx context.Context, linkIDs []int64) (map[int64]*entities.LinkAggregate, error)
}

type clickRepository struct {
	db *sql.DB
}

// NewClickRepository creates a new Postgres click repository
func NewClickRepository(db *sql.DB) ClickRepository {
	return &clickRepository{db: db}
}

// RecordClick appends a click with its earnings
func (r *clickRepository) RecordClick(ctx context.Context, linkID int64, earnings decimal.Decimal) (*entities.Click, error) {
	query := `
		INSERT INTO clicks (link_id, earnings)
		VALUES ($1, $2)
		RETURNING id, link_id, earnings, created_at
	`

	var click entities.Click
	err := r.db.QueryRowContext(ctx, query, linkID, earnings).Scan(
		&click.ID,
		&click.LinkID,
		&click.Earnings,
		&click.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record click: %w", err)
	}

	return &click, nil
}

// GetAggregates computes click totals and per-month earnings for the given links.
// Totals are summed from the monthly rows so both come from one snapshot.
func (r *clickRepository) GetAggregates(ctx context.Context, linkIDs []int64) (map[int64]*entities.LinkAggregate, error) {
	aggregates := make(map[int64]*entities.LinkAggregate, len(linkIDs))
	if len(linkIDs) == 0 {
		return aggregates, nil
	}

	query := `
		SELECT link_id,
			to_char(date_trunc('month', created_at), 'MM/YYYY') AS month,
			COUNT(*),
			SUM(earnings)
		FROM clicks
		WHERE link_id = ANY($1)
		GROUP BY link_id, date_trunc('month', created_at)
		ORDER BY link_id, date_trunc('month', created_at) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(linkIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get click aggregates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			linkID int64
			clicks int64
			month  entities.MonthlyEarnings
		)
		if err := rows.Scan(&linkID, &month.Month, &clicks, &month.Earnings); err != nil {
			return nil, fmt.Errorf("failed to scan click aggregates: %w", err)
		}

		agg, ok := aggregates[linkID]
		if !ok {
			agg = &entities.LinkAggregate{
				TotalEarnings:    decimal.Zero,
				MonthlyBreakdown: []entities.MonthlyEarnings{},
			}
			aggregates[linkID] = agg
		}
		agg.TotalClicks += clicks
		agg.TotalEarnings = agg.TotalEarnings.Add(month.Earnings)
		agg.MonthlyBreakdown = append(agg.MonthlyBreakdown, month)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click aggregates: %w", err)
	}

	return aggregates, nil
}
