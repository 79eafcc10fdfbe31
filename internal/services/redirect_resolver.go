package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	apperrors "github.com/athomax/shorturl/internal/errors"
	"github.com/athomax/shorturl/internal/models"
	"github.com/athomax/shorturl/internal/repository"
)

// TargetCache is an optional read-through cache in front of the mapping
// store. Mappings are immutable after creation, so cached targets never go
// stale; implementations may still expire entries to bound memory.
type TargetCache interface {
	Get(ctx context.Context, slug string) (string, bool)
	Set(ctx context.Context, slug, target string)
}

// RedirectResolver resolves a slug to its target URL and schedules the
// click accounting for each successful resolution.
type RedirectResolver struct {
	repo   repository.MappingRepository
	cache  TargetCache // may be nil
	clicks chan<- models.ClickEvent
}

// NewRedirectResolver creates and returns a new RedirectResolver. cache may
// be nil to resolve straight from the store.
func NewRedirectResolver(repo repository.MappingRepository, cache TargetCache, clicks chan<- models.ClickEvent) *RedirectResolver {
	return &RedirectResolver{
		repo:   repo,
		cache:  cache,
		clicks: clicks,
	}
}

// Resolve looks up slug and returns its target URL, enqueueing exactly one
// click event for the workers. The slug is taken as the caller supplied it,
// lowercased to match allocation-time normalization.
//
// A miss returns *apperrors.NotFoundError carrying the original slug; a
// store failure returns an error matching apperrors.ErrStoreUnavailable.
// The two are never conflated. The click event is fire-and-forget: its
// loss or failure never affects the returned target.
func (r *RedirectResolver) Resolve(ctx context.Context, slug, userAgent, ipAddress string) (string, error) {
	normalized := strings.ToLower(slug)

	if r.cache != nil {
		if target, ok := r.cache.Get(ctx, normalized); ok {
			r.trackClick(normalized, userAgent, ipAddress)
			return target, nil
		}
	}

	mapping, err := r.repo.FindBySlug(normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrSlugNotFound) {
			return "", &apperrors.NotFoundError{Slug: slug}
		}
		return "", &apperrors.StoreUnavailableError{Op: "find mapping", Err: err}
	}

	if r.cache != nil {
		r.cache.Set(ctx, normalized, mapping.URL)
	}

	r.trackClick(normalized, userAgent, ipAddress)
	return mapping.URL, nil
}

// Lookup fetches the mapping for slug without recording a click. Used by
// the stats endpoint and the CLI.
func (r *RedirectResolver) Lookup(slug string) (*models.Mapping, error) {
	normalized := strings.ToLower(slug)

	mapping, err := r.repo.FindBySlug(normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrSlugNotFound) {
			return nil, &apperrors.NotFoundError{Slug: slug}
		}
		return nil, &apperrors.StoreUnavailableError{Op: "find mapping", Err: err}
	}
	return mapping, nil
}

// trackClick enqueues a click event without blocking the redirect path.
// When the buffer is full the event is dropped: a lost count is acceptable,
// a delayed redirect is not.
func (r *RedirectResolver) trackClick(slug, userAgent, ipAddress string) {
	event := models.ClickEvent{
		Slug:      slug,
		Timestamp: time.Now(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	select {
	case r.clicks <- event:
	default:
		log.Printf("WARNING: click event buffer full, dropping event for %q", slug)
	}
}
