// Package services contains the business logic of the URL shortener: slug
// allocation and redirect resolution.
package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/athomax/shorturl/internal/errors"
	"github.com/athomax/shorturl/internal/models"
	"github.com/athomax/shorturl/internal/repository"
)

// slugCharset is the alphabet for generated slugs: lowercase alphanumerics,
// so generated and normalized caller-supplied slugs live in the same space.
const slugCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GeneratedSlugLength is the fixed length of generated slugs.
const GeneratedSlugLength = 5

// maxGenerateAttempts bounds regeneration when a generated slug collides.
// Collisions are vanishingly rare in a 36^5 space, but an unbounded loop
// against a filling keyspace would never terminate.
const maxGenerateAttempts = 5

// slugPattern accepts letters, digits, underscore and hyphen, length >= 1.
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SlugAllocator decides the slug for a new mapping, validates inputs and
// performs the atomic insert against the mapping store.
type SlugAllocator struct {
	repo repository.MappingRepository
}

// NewSlugAllocator creates and returns a new SlugAllocator.
func NewSlugAllocator(repo repository.MappingRepository) *SlugAllocator {
	return &SlugAllocator{repo: repo}
}

// Allocate creates a new mapping from targetURL under requestedSlug, or
// under a generated slug when requestedSlug is empty.
//
// Error classification:
//   - *apperrors.ValidationError for a malformed url or slug,
//   - apperrors.ErrSlugTaken when the requested slug already exists,
//   - apperrors.ErrSlugExhausted when generation keeps colliding,
//   - apperrors.ErrStoreUnavailable (via errors.Is) on store I/O failure.
//
// Uniqueness is decided solely by the store's insert: there is no
// check-then-insert, so concurrent allocators racing on the same slug see
// exactly one success.
func (a *SlugAllocator) Allocate(requestedSlug, targetURL string) (*models.Mapping, error) {
	target, err := normalizeTargetURL(targetURL)
	if err != nil {
		return nil, err
	}

	// Slugs are case-insensitive: lowercase before validation and storage.
	slug := strings.ToLower(strings.TrimSpace(requestedSlug))
	if slug != "" {
		if !slugPattern.MatchString(slug) {
			return nil, &apperrors.ValidationError{Field: "slug"}
		}
		return a.insert(slug, target)
	}

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		candidate, err := generateSlug(GeneratedSlugLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}

		mapping, err := a.insert(candidate, target)
		if errors.Is(err, apperrors.ErrSlugTaken) {
			log.Printf("Generated slug %q already exists, retrying (%d/%d)...",
				candidate, attempt, maxGenerateAttempts)
			continue
		}
		return mapping, err
	}

	return nil, apperrors.ErrSlugExhausted
}

// insert performs the insert-if-absent and classifies the outcome. A
// rejected insert leaves no partial state behind.
func (a *SlugAllocator) insert(slug, target string) (*models.Mapping, error) {
	mapping := &models.Mapping{
		Slug: slug,
		URL:  target,
	}
	if err := a.repo.Create(mapping); err != nil {
		if errors.Is(err, apperrors.ErrSlugTaken) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, &apperrors.StoreUnavailableError{Op: "insert mapping", Err: err}
	}
	return mapping, nil
}

// normalizeTargetURL trims the target and requires an absolute http(s) URL
// with a host.
func normalizeTargetURL(raw string) (string, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return "", &apperrors.ValidationError{Field: "url"}
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", &apperrors.ValidationError{Field: "url"}
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", &apperrors.ValidationError{Field: "url"}
	}

	return target, nil
}

// generateSlug draws a random slug of the given length from slugCharset
// using crypto/rand.
func generateSlug(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = slugCharset[num.Int64()]
	}
	return string(code), nil
}
