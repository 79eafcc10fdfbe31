package models

import "time"

// Click is a detailed record of a single resolved redirect, kept for analytics.
// The authoritative click counter lives on Mapping.Clicks; these rows add the
// who/when context around each increment.
type Click struct {
	ID uint `gorm:"primaryKey"`

	// Slug of the mapping that was resolved. Indexed so per-slug
	// aggregation stays cheap.
	Slug string `gorm:"index;size:64;not null"`

	Timestamp time.Time

	// UserAgent and IPAddress come straight from the resolving request.
	UserAgent string `gorm:"size:255"`
	IPAddress string `gorm:"size:50"`
}

// ClickEvent is the lightweight payload passed from the redirect path to the
// click workers over a channel. It carries only what is needed to increment
// the counter and write a Click row later.
type ClickEvent struct {
	Slug      string
	Timestamp time.Time
	UserAgent string
	IPAddress string
}
