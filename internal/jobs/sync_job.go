package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"concert-tracker/internal/config"
	"concert-tracker/internal/models"
	"concert-tracker/internal/services"
	"concert-tracker/internal/ticketmaster"

	"github.com/google/uuid"
)

// EventSource fetches raw event records from the upstream listing API.
type EventSource interface {
	FetchEvents(ctx context.Context, targetCount, pageSizeCap int) ([]ticketmaster.RawEvent, error)
}

// Store adds run bookkeeping on top of the pipeline store.
type Store interface {
	services.Store
	RecordSyncRun(ctx context.Context, run *models.SyncRun) error
}

// Result is the terminal outcome of one sync invocation.
type Result struct {
	RunID      uuid.UUID
	Outcome    string // models.RunOutcomeSuccess or models.RunOutcomeFailure
	Message    string
	Fetched    int
	Normalized int
	Upserted   int
	Removed    int
	Swept      int
}

// SyncJob sequences one fetch → normalize → reconcile → sweep cycle.
type SyncJob struct {
	source     EventSource
	store      Store
	reconciler *services.Reconciler
	sweeper    *services.Sweeper
	cfg        config.SyncConfig
}

func NewSyncJob(source EventSource, st Store, cfg config.SyncConfig) *SyncJob {
	return &SyncJob{
		source:     source,
		store:      st,
		reconciler: services.NewReconciler(st),
		sweeper:    services.NewSweeper(st, cfg.RetentionDays),
		cfg:        cfg,
	}
}

// Run executes one synchronization cycle and always returns a Result with
// exactly one of the two terminal outcomes. Unexpected errors are recovered
// here, logged, and reported as a failure; nothing below swallows them.
func (j *SyncJob) Run(ctx context.Context) (result Result) {
	started := time.Now()
	result = Result{
		RunID:   uuid.New(),
		Outcome: models.RunOutcomeFailure,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = models.RunOutcomeFailure
			result.Message = fmt.Sprintf("unexpected error: %v", r)
			log.Printf("[Sync] Run %s recovered from panic: %v", result.RunID, r)
		}
		j.record(result, started)
	}()

	log.Printf("[Sync] Run %s starting (target %d, page size %d)",
		result.RunID, j.cfg.TargetCount, j.cfg.PageSize)

	rawEvents, err := j.source.FetchEvents(ctx, j.cfg.TargetCount, j.cfg.PageSize)
	if err != nil {
		var fetchErr *ticketmaster.FetchError
		if errors.As(err, &fetchErr) {
			result.Message = fmt.Sprintf("event fetch failed: %v", fetchErr)
		} else {
			result.Message = fmt.Sprintf("event source error: %v", err)
		}
		log.Printf("[Sync] Run %s failed: %s", result.RunID, result.Message)
		return result
	}
	result.Fetched = len(rawEvents)

	normalized := services.Normalize(rawEvents, started)
	result.Normalized = len(normalized)

	// An empty fetch must never be interpreted as "delete everything".
	if len(normalized) == 0 {
		result.Outcome = models.RunOutcomeSuccess
		result.Message = "no trackable events fetched, nothing to reconcile"
		log.Printf("[Sync] Run %s: %s", result.RunID, result.Message)
		return result
	}

	today := started.Format(models.DateLayout)
	reconcileStats, err := j.reconciler.Reconcile(ctx, normalized, today)
	if err != nil {
		result.Message = fmt.Sprintf("reconciliation failed: %v", err)
		log.Printf("[Sync] Run %s failed: %s", result.RunID, result.Message)
		return result
	}
	result.Upserted = reconcileStats.Upserted
	result.Removed = reconcileStats.Removed

	sweepStats, err := j.sweeper.Sweep(ctx, started)
	if err != nil {
		result.Message = fmt.Sprintf("retention sweep failed: %v", err)
		log.Printf("[Sync] Run %s failed: %s", result.RunID, result.Message)
		return result
	}
	result.Swept = sweepStats.EventsRemoved + sweepStats.PricesRemoved

	result.Outcome = models.RunOutcomeSuccess
	result.Message = fmt.Sprintf("synced %d events (%d removed, %d swept)",
		result.Upserted, result.Removed, result.Swept)
	log.Printf("[Sync] Run %s completed: %s", result.RunID, result.Message)
	return result
}

// record persists the run outcome. Best effort: a failure here is logged and
// does not change the result. A fresh context is used so the row still lands
// when the run's context was cancelled.
func (j *SyncJob) record(result Result, started time.Time) {
	run := &models.SyncRun{
		ID:         result.RunID,
		Outcome:    result.Outcome,
		Message:    result.Message,
		Fetched:    result.Fetched,
		Normalized: result.Normalized,
		Upserted:   result.Upserted,
		Removed:    result.Removed,
		Swept:      result.Swept,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := j.store.RecordSyncRun(context.Background(), run); err != nil {
		log.Printf("[Sync] Failed to record run %s: %v", result.RunID, err)
	}
}
