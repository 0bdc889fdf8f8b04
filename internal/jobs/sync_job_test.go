package jobs

import (
	"context"
	"testing"
	"time"

	"concert-tracker/internal/config"
	"concert-tracker/internal/models"
	"concert-tracker/internal/store"
	"concert-tracker/internal/ticketmaster"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSource struct {
	events []ticketmaster.RawEvent
	err    error
	calls  int
}

func (f *fakeSource) FetchEvents(ctx context.Context, targetCount, pageSizeCap int) ([]ticketmaster.RawEvent, error) {
	f.calls++
	return f.events, f.err
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}, &models.PricePoint{}, &models.SyncRun{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{TargetCount: 100, PageSize: 100, RetentionDays: 14}
}

func rawConcert(id, localDate string) ticketmaster.RawEvent {
	var raw ticketmaster.RawEvent
	raw.ID = id
	raw.Name = "Concert " + id
	raw.Dates.Start.LocalDate = localDate
	return raw
}

func TestRunEmptyFetchSkipsReconcileAndSweep(t *testing.T) {
	db := setupTestDB(t)
	st := store.New(db)

	// Pre-existing state that an empty fetch must never wipe, including an
	// event old enough that a sweep would remove it.
	staleDate := time.Now().AddDate(0, 0, -30).Format(models.DateLayout)
	if err := st.UpsertEvent(context.Background(), &models.Event{EventID: "keep", EventDate: staleDate}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	job := NewSyncJob(&fakeSource{}, st, testSyncConfig())
	result := job.Run(context.Background())

	if result.Outcome != models.RunOutcomeSuccess {
		t.Errorf("expected success outcome for empty fetch, got %q (%s)", result.Outcome, result.Message)
	}

	var count int64
	db.Model(&models.Event{}).Count(&count)
	if count != 1 {
		t.Errorf("empty fetch must not touch the store, %d events remain", count)
	}
}

func TestRunReportsFetchFailure(t *testing.T) {
	db := setupTestDB(t)
	st := store.New(db)

	source := &fakeSource{err: &ticketmaster.FetchError{Attempts: 3}}
	result := NewSyncJob(source, st, testSyncConfig()).Run(context.Background())

	if result.Outcome != models.RunOutcomeFailure {
		t.Errorf("expected failure outcome, got %q", result.Outcome)
	}
	if result.Message == "" {
		t.Error("expected a human-readable failure message")
	}

	var run models.SyncRun
	if err := db.Where("id = ?", result.RunID).First(&run).Error; err != nil {
		t.Fatalf("expected the run to be recorded: %v", err)
	}
	if run.Outcome != models.RunOutcomeFailure {
		t.Errorf("expected recorded outcome failure, got %q", run.Outcome)
	}
}

func TestRunFullCycle(t *testing.T) {
	db := setupTestDB(t)
	st := store.New(db)
	ctx := context.Background()

	// A previously stored event that no longer appears upstream.
	if err := st.UpsertEvent(ctx, &models.Event{EventID: "vanished", EventDate: "2026-12-01"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	// An event whose date has aged past the retention window.
	expired := time.Now().AddDate(0, 0, -20).Format(models.DateLayout)
	if err := st.UpsertEvent(ctx, &models.Event{EventID: "expired", EventDate: expired}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	upcoming := time.Now().AddDate(0, 0, 60).Format(models.DateLayout)
	source := &fakeSource{events: []ticketmaster.RawEvent{
		rawConcert("fresh1", upcoming),
		rawConcert("fresh2", upcoming),
	}}

	result := NewSyncJob(source, st, testSyncConfig()).Run(ctx)
	if result.Outcome != models.RunOutcomeSuccess {
		t.Fatalf("expected success, got %q (%s)", result.Outcome, result.Message)
	}
	if result.Fetched != 2 || result.Upserted != 2 {
		t.Errorf("expected 2 fetched and upserted, got %+v", result)
	}

	ids, err := st.ListEventIDs(ctx)
	if err != nil {
		t.Fatalf("failed to list ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected exactly the fresh events to remain, got %v", ids)
	}
	for _, id := range []string{"fresh1", "fresh2"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("expected %s in store", id)
		}
	}

	today := time.Now().Format(models.DateLayout)
	var prices int64
	db.Model(&models.PricePoint{}).Where("date = ?", today).Count(&prices)
	if prices != 2 {
		t.Errorf("expected 2 price observations for today, got %d", prices)
	}

	var run models.SyncRun
	if err := db.Where("id = ?", result.RunID).First(&run).Error; err != nil {
		t.Fatalf("expected the run to be recorded: %v", err)
	}
	if run.Outcome != models.RunOutcomeSuccess || run.Upserted != 2 {
		t.Errorf("recorded run does not match result: %+v", run)
	}
}
