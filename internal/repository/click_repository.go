package repository

import (
	"fmt"

	"github.com/athomax/shorturl/internal/models"
	"gorm.io/gorm"
)

// ClickRepository persists the detailed per-redirect click rows.
type ClickRepository interface {
	RecordClick(click *models.Click) error
	CountClicksBySlug(slug string) (int64, error)
}

// GormClickRepository implements ClickRepository on GORM.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates and returns a new GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// RecordClick inserts one click row.
func (r *GormClickRepository) RecordClick(click *models.Click) error {
	if err := r.db.Create(click).Error; err != nil {
		return fmt.Errorf("failed to record click for %q: %w", click.Slug, err)
	}
	return nil
}

// CountClicksBySlug counts the recorded click rows for a slug.
func (r *GormClickRepository) CountClicksBySlug(slug string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Click{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clicks for %q: %w", slug, err)
	}
	return count, nil
}
