package services

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/athomax/shorturl/internal/errors"
	"github.com/athomax/shorturl/internal/models"
)

// memRepo is a mutex-guarded in-memory MappingRepository. Its Create is
// atomic, which is exactly the store contract the allocator relies on, so
// the concurrency properties can be tested without a database.
type memRepo struct {
	mu       sync.Mutex
	mappings map[string]*models.Mapping
}

func newMemRepo() *memRepo {
	return &memRepo{mappings: make(map[string]*models.Mapping)}
}

func (r *memRepo) Create(mapping *models.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.mappings[mapping.Slug]; exists {
		return apperrors.ErrSlugTaken
	}
	stored := *mapping
	r.mappings[mapping.Slug] = &stored
	return nil
}

func (r *memRepo) FindBySlug(slug string) (*models.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mapping, exists := r.mappings[slug]
	if !exists {
		return nil, apperrors.ErrSlugNotFound
	}
	found := *mapping
	return &found, nil
}

func (r *memRepo) IncrementClicks(slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mapping, exists := r.mappings[slug]
	if !exists {
		return apperrors.ErrSlugNotFound
	}
	mapping.Clicks++
	return nil
}

func (r *memRepo) All() ([]models.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.Mapping, 0, len(r.mappings))
	for _, mapping := range r.mappings {
		all = append(all, *mapping)
	}
	return all, nil
}

// failingRepo reports an I/O error from every operation.
type failingRepo struct{}

var errDiskOnFire = errors.New("disk I/O error")

func (failingRepo) Create(*models.Mapping) error { return errDiskOnFire }
func (failingRepo) FindBySlug(string) (*models.Mapping, error) { return nil, errDiskOnFire }
func (failingRepo) IncrementClicks(string) error { return errDiskOnFire }
func (failingRepo) All() ([]models.Mapping, error) { return nil, errDiskOnFire }

// takenRepo reports every insert as a collision, simulating a saturated
// slug space.
type takenRepo struct{}

func (takenRepo) Create(*models.Mapping) error { return apperrors.ErrSlugTaken }
func (takenRepo) FindBySlug(string) (*models.Mapping, error) { return nil, apperrors.ErrSlugNotFound }
func (takenRepo) IncrementClicks(string) error { return apperrors.ErrSlugNotFound }
func (takenRepo) All() ([]models.Mapping, error) { return nil, nil }

// staticCache is a TargetCache stub with a fixed content.
type staticCache struct {
	entries map[string]string
	mu      sync.Mutex
}

func (c *staticCache) Get(_ context.Context, slug string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	target, ok := c.entries[slug]
	return target, ok
}

func (c *staticCache) Set(_ context.Context, slug, target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	c.entries[slug] = target
}
