package entities

import "time"

// Link represents a shortened URL entity in the database
type Link struct {
	ID        int64     `json:"id"`
	TargetURL string    `json:"target_url"` // Trimmed, unique across all links
	ShortCode string    `json:"short_code"` // Unique, permanent once assigned
	CreatedAt time.Time `json:"created_at"`
}
