package models

import "time"

// Mapping represents a slug-to-URL record in the database.
// The numeric ID is internal to the store and never serialized to API clients.
type Mapping struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Slug      string    `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	URL       string    `gorm:"not null" json:"url"`
	Clicks    int64     `gorm:"not null;default:0" json:"clicks"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
