package models

// MonthlyEarningsResponse is one month of earnings, most recent first
type MonthlyEarningsResponse struct {
	Month    string  `json:"month"` // MM/YYYY
	Earnings float64 `json:"earnings"`
}

// LinkStatsResponse represents the statistics of a single link
type LinkStatsResponse struct {
	URL              string                    `json:"url"`
	ShortCode        string                    `json:"short_code"`
	TotalClicks      int64                     `json:"total_clicks"`
	TotalEarnings    float64                   `json:"total_earnings"`
	MonthlyBreakdown []MonthlyEarningsResponse `json:"monthly_breakdown"`
}

// StatsResponse is a page of link statistics
type StatsResponse struct {
	Data  []LinkStatsResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
