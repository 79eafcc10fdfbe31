package repository

import (
	"errors"
	"fmt"

	apperrors "github.com/athomax/shorturl/internal/errors"
	"github.com/athomax/shorturl/internal/models"
	"gorm.io/gorm"
)

// MappingRepository defines the persistence contract for slug mappings.
// Create is insert-if-absent: uniqueness is enforced by the store's unique
// index on slug, never by a lookup beforehand.
type MappingRepository interface {
	Create(mapping *models.Mapping) error
	FindBySlug(slug string) (*models.Mapping, error)
	IncrementClicks(slug string) error
	All() ([]models.Mapping, error)
}

// GormMappingRepository implements MappingRepository on GORM.
// The gorm.DB must be opened with TranslateError so duplicate-key
// violations surface as gorm.ErrDuplicatedKey.
type GormMappingRepository struct {
	db *gorm.DB
}

// NewMappingRepository creates and returns a new GormMappingRepository.
func NewMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// Create inserts a new mapping. A unique-index violation on the slug is
// reported as apperrors.ErrSlugTaken; the row is left untouched.
func (r *GormMappingRepository) Create(mapping *models.Mapping) error {
	if err := r.db.Create(mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrSlugTaken
		}
		return fmt.Errorf("failed to create mapping %q: %w", mapping.Slug, err)
	}
	return nil
}

// FindBySlug fetches a mapping by its slug. A missing row is reported as
// apperrors.ErrSlugNotFound, distinct from any I/O failure.
func (r *GormMappingRepository) FindBySlug(slug string) (*models.Mapping, error) {
	var mapping models.Mapping
	if err := r.db.Where("slug = ?", slug).First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSlugNotFound
		}
		return nil, fmt.Errorf("failed to find mapping %q: %w", slug, err)
	}
	return &mapping, nil
}

// IncrementClicks bumps the click counter by exactly 1, SQL-side. The
// addition happens in the store so concurrent increments never lose an
// update to a read-modify-write race.
func (r *GormMappingRepository) IncrementClicks(slug string) error {
	result := r.db.Model(&models.Mapping{}).
		Where("slug = ?", slug).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment clicks for %q: %w", slug, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrSlugNotFound
	}
	return nil
}

// All returns every stored mapping. Used by the URL monitor.
func (r *GormMappingRepository) All() ([]models.Mapping, error) {
	var mappings []models.Mapping
	if err := r.db.Find(&mappings).Error; err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	return mappings, nil
}
