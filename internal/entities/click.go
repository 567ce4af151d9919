package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EarningsPerValidClick is credited to a link when a click passes fraud validation
var EarningsPerValidClick = decimal.RequireFromString("0.05")

// Click represents a single recorded redirect against a link
type Click struct {
	ID        int64           `json:"id"`
	LinkID    int64           `json:"link_id"`
	Earnings  decimal.Decimal `json:"earnings"` // Either zero or EarningsPerValidClick
	CreatedAt time.Time       `json:"created_at"`
}

// MonthlyEarnings is the earnings sum of one calendar month, Month formatted as MM/YYYY
type MonthlyEarnings struct {
	Month    string
	Earnings decimal.Decimal
}

// LinkAggregate holds the click statistics of a single link
type LinkAggregate struct {
	TotalClicks      int64
	TotalEarnings    decimal.Decimal
	MonthlyBreakdown []MonthlyEarnings // Most recent month first
}
