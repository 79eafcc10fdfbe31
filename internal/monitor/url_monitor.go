// Package monitor periodically checks whether stored target URLs are still
// reachable and logs state changes.
package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/athomax/shorturl/internal/repository"
)

// URLMonitor walks all stored mappings on an interval, probes each target
// with a HEAD request and logs transitions between accessible and
// inaccessible.
type URLMonitor struct {
	repo        repository.MappingRepository
	interval    time.Duration
	knownStates map[string]bool // slug -> last observed accessibility
	mu          sync.Mutex
	httpClient  *http.Client
}

// NewURLMonitor creates and returns a new URLMonitor.
func NewURLMonitor(repo repository.MappingRepository, interval time.Duration) *URLMonitor {
	return &URLMonitor{
		repo:        repo,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Start runs the monitoring loop until the program stops. Blocking; run it
// in its own goroutine.
func (m *URLMonitor) Start() {
	log.Printf("[MONITOR] Starting URL monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkTargets()

	for range ticker.C {
		m.checkTargets()
	}
}

// checkTargets probes every stored target once and reports changes against
// the previous round.
func (m *URLMonitor) checkTargets() {
	mappings, err := m.repo.All()
	if err != nil {
		log.Printf("[MONITOR] ERROR retrieving mappings: %v", err)
		return
	}

	for _, mapping := range mappings {
		currentState := m.isAccessible(mapping.URL)

		m.mu.Lock()
		previousState, seen := m.knownStates[mapping.Slug]
		m.knownStates[mapping.Slug] = currentState
		m.mu.Unlock()

		if !seen {
			log.Printf("[MONITOR] Initial state for %s (%s): %s",
				mapping.Slug, mapping.URL, formatState(currentState))
			continue
		}

		if currentState != previousState {
			log.Printf("[MONITOR] Target of %s (%s) changed from %s to %s",
				mapping.Slug, mapping.URL, formatState(previousState), formatState(currentState))
		}
	}
}

// isAccessible treats 2xx and 3xx responses as healthy. HEAD keeps the
// probe cheap; bodies are never needed.
func (m *URLMonitor) isAccessible(target string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		log.Printf("[MONITOR] Error building request for %q: %v", target, err)
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
