package workers

import (
	"sync"
	"testing"
	"time"

	"github.com/athomax/shorturl/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMappingRepo struct {
	mu     sync.Mutex
	clicks map[string]int64
}

func (r *countingMappingRepo) Create(*models.Mapping) error { return nil }
func (r *countingMappingRepo) FindBySlug(string) (*models.Mapping, error) { return nil, nil }
func (r *countingMappingRepo) All() ([]models.Mapping, error) { return nil, nil }

func (r *countingMappingRepo) IncrementClicks(slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks[slug]++
	return nil
}

func (r *countingMappingRepo) clicksFor(slug string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clicks[slug]
}

type recordingClickRepo struct {
	mu      sync.Mutex
	records []models.Click
}

func (r *recordingClickRepo) RecordClick(click *models.Click) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *click)
	return nil
}

func (r *recordingClickRepo) CountClicksBySlug(slug string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, record := range r.records {
		if record.Slug == slug {
			count++
		}
	}
	return count, nil
}

func TestClickWorkersProcessEveryEvent(t *testing.T) {
	mappingRepo := &countingMappingRepo{clicks: make(map[string]int64)}
	clickRepo := &recordingClickRepo{}
	events := make(chan models.ClickEvent, 32)

	StartClickWorkers(3, events, mappingRepo, clickRepo)

	const sent = 20
	for i := 0; i < sent; i++ {
		events <- models.ClickEvent{
			Slug:      "abc",
			Timestamp: time.Now(),
			UserAgent: "test-agent",
			IPAddress: "127.0.0.1",
		}
	}
	close(events)

	require.Eventually(t, func() bool {
		return mappingRepo.clicksFor("abc") == sent
	}, 2*time.Second, 10*time.Millisecond, "all increments must be applied")

	require.Eventually(t, func() bool {
		count, _ := clickRepo.CountClicksBySlug("abc")
		return count == sent
	}, 2*time.Second, 10*time.Millisecond)

	// One increment per event, no more.
	assert.EqualValues(t, sent, mappingRepo.clicksFor("abc"))
}
