package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"concert-tracker/internal/models"
	"concert-tracker/internal/store"
)

// SweepStats summarizes one retention pass.
type SweepStats struct {
	EventsRemoved int
	PricesRemoved int
}

// Sweeper purges events and price observations older than the retention
// window, independent of what the current fetch cycle contains.
type Sweeper struct {
	store         Store
	retentionDays int
}

func NewSweeper(st Store, retentionDays int) *Sweeper {
	return &Sweeper{store: st, retentionDays: retentionDays}
}

// Sweep deletes rows dated strictly before now minus the retention window.
// The threshold is computed once at sweep start. An event upserted moments
// ago is still removed if its date predates the threshold.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepStats, error) {
	var stats SweepStats
	cutoff := now.AddDate(0, 0, -s.retentionDays).Format(models.DateLayout)

	eventIDs, err := s.store.EventsOlderThan(ctx, cutoff)
	if err != nil {
		return stats, fmt.Errorf("failed to query events older than %s: %w", cutoff, err)
	}
	priceKeys, err := s.store.PricesOlderThan(ctx, cutoff)
	if err != nil {
		return stats, fmt.Errorf("failed to query prices older than %s: %w", cutoff, err)
	}

	swept := make(map[string]struct{}, len(eventIDs))
	batch := store.NewBatch()
	pendingEvents, pendingPrices := 0, 0
	flush := func() {
		if commitBatch(ctx, s.store, batch, "Sweeper") == nil {
			stats.EventsRemoved += pendingEvents
			stats.PricesRemoved += pendingPrices
		}
		batch = store.NewBatch()
		pendingEvents, pendingPrices = 0, 0
	}

	for _, id := range eventIDs {
		batch.DeleteEvent(id)
		swept[id] = struct{}{}
		pendingEvents++

		if batch.Len() >= store.MaxBatchOps {
			flush()
		}
	}

	for _, key := range priceKeys {
		// Deleting an event already removes all of its price rows.
		if _, ok := swept[key.EventID]; ok {
			continue
		}
		batch.DeletePricePoint(key.EventID, key.Date)
		pendingPrices++

		if batch.Len() >= store.MaxBatchOps {
			flush()
		}
	}
	flush()

	log.Printf("[Sweeper] Swept %d events and %d price rows older than %s",
		stats.EventsRemoved, stats.PricesRemoved, cutoff)
	return stats, nil
}
