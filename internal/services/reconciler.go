package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"concert-tracker/internal/models"
	"concert-tracker/internal/store"
	"concert-tracker/internal/utils"
)

const (
	maxWriteAttempts  = 3
	writeRetryInitial = 100 * time.Millisecond
	writeRetryMax     = time.Second
)

// Store is the durable backend the pipeline writes to.
type Store interface {
	ListEventIDs(ctx context.Context) (map[string]struct{}, error)
	UpsertEvent(ctx context.Context, event *models.Event) error
	UpsertPricePoint(ctx context.Context, point *models.PricePoint) error
	EventsOlderThan(ctx context.Context, cutoff string) ([]string, error)
	PricesOlderThan(ctx context.Context, cutoff string) ([]store.PriceKey, error)
	CommitBatch(ctx context.Context, batch *store.Batch) error
}

// ReconcileStats summarizes one reconciliation pass.
type ReconcileStats struct {
	Upserted int
	Removed  int
	Failed   int
}

// Reconciler aligns the stored event set with the latest fetched set.
type Reconciler struct {
	store Store
}

func NewReconciler(st Store) *Reconciler {
	return &Reconciler{store: st}
}

// Reconcile deletes stored events absent from the fetched set, then upserts
// every fetched event together with today's price observation. Deletes are
// computed from a single stored-id snapshot taken before any write. A failed
// upsert is retried, then logged and skipped; it never aborts the run.
func (r *Reconciler) Reconcile(ctx context.Context, events []NormalizedEvent, today string) (ReconcileStats, error) {
	var stats ReconcileStats

	storedIDs, err := r.store.ListEventIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list stored event ids: %w", err)
	}

	fetchedIDs := make(map[string]struct{}, len(events))
	for _, e := range events {
		fetchedIDs[e.Event.EventID] = struct{}{}
	}

	batch := store.NewBatch()
	pending := 0
	for id := range storedIDs {
		if _, ok := fetchedIDs[id]; ok {
			continue
		}
		batch.DeleteEvent(id)
		pending++

		if batch.Len() >= store.MaxBatchOps {
			if commitBatch(ctx, r.store, batch, "Reconciler") == nil {
				stats.Removed += pending
			}
			batch = store.NewBatch()
			pending = 0
		}
	}
	if commitBatch(ctx, r.store, batch, "Reconciler") == nil {
		stats.Removed += pending
	}

	for i := range events {
		item := events[i]
		err := utils.Retry(ctx, maxWriteAttempts, writeRetryInitial, writeRetryMax, func() error {
			if err := r.store.UpsertEvent(ctx, &item.Event); err != nil {
				return err
			}
			point := &models.PricePoint{
				EventID:      item.Event.EventID,
				Date:         today,
				LowestPrice:  item.LowestPrice,
				HighestPrice: item.HighestPrice,
			}
			return r.store.UpsertPricePoint(ctx, point)
		})
		if err != nil {
			log.Printf("[Reconciler] Giving up on event %s after %d attempts: %v",
				item.Event.EventID, maxWriteAttempts, err)
			stats.Failed++
			continue
		}
		stats.Upserted++
	}

	log.Printf("[Reconciler] Reconciled %d events (%d removed, %d failed)",
		stats.Upserted, stats.Removed, stats.Failed)
	return stats, nil
}

// commitBatch commits a delete batch with bounded retry; exhaustion is
// logged and the pipeline moves on. The error is returned so callers only
// count removals that actually landed.
func commitBatch(ctx context.Context, st Store, batch *store.Batch, component string) error {
	if batch.Len() == 0 {
		return nil
	}
	err := utils.Retry(ctx, maxWriteAttempts, writeRetryInitial, writeRetryMax, func() error {
		return st.CommitBatch(ctx, batch)
	})
	if err != nil {
		log.Printf("[%s] Batch of %d delete ops failed after %d attempts: %v",
			component, batch.Len(), maxWriteAttempts, err)
	}
	return err
}
