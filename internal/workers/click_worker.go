// Package workers processes click events asynchronously so the redirect
// path never waits on accounting writes.
package workers

import (
	"log"

	"github.com/athomax/shorturl/internal/models"
	"github.com/athomax/shorturl/internal/repository"
)

// StartClickWorkers launches a pool of goroutines draining clickEvents.
// Each event produces one atomic counter increment on the mapping plus one
// click detail row. Failures are logged and swallowed: accounting must
// never turn a served redirect into an error.
func StartClickWorkers(workerCount int, clickEvents <-chan models.ClickEvent, mappingRepo repository.MappingRepository, clickRepo repository.ClickRepository) {
	log.Printf("Starting %d click worker(s)...", workerCount)

	for i := 0; i < workerCount; i++ {
		go clickWorker(clickEvents, mappingRepo, clickRepo)
	}
}

// clickWorker runs until the event channel is closed.
func clickWorker(clickEvents <-chan models.ClickEvent, mappingRepo repository.MappingRepository, clickRepo repository.ClickRepository) {
	for event := range clickEvents {
		// The increment is a single store-side addition, so concurrent
		// workers on the same slug cannot lose updates.
		if err := mappingRepo.IncrementClicks(event.Slug); err != nil {
			log.Printf("ERROR: failed to increment clicks for %q: %v", event.Slug, err)
		}

		click := &models.Click{
			Slug:      event.Slug,
			Timestamp: event.Timestamp,
			UserAgent: event.UserAgent,
			IPAddress: event.IPAddress,
		}
		if err := clickRepo.RecordClick(click); err != nil {
			log.Printf("ERROR: failed to record click for %q (UserAgent: %s, IP: %s): %v",
				event.Slug, event.UserAgent, event.IPAddress, err)
		}
	}
}
