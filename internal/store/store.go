package store

import (
	"context"

	"concert-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceKey identifies one price observation row.
type PriceKey struct {
	EventID string `json:"event_id"`
	Date    string `json:"date"`
}

// Store is the gorm-backed durable store for events and price history.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListEventIDs returns the identifiers of every stored event in one pass.
func (s *Store) ListEventIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// UpsertEvent inserts the event or, when the event_id already exists,
// overwrites every descriptive field in place.
func (s *Store) UpsertEvent(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "venue_name", "city_name", "state_name", "country_name",
				"artist_name", "genre", "url", "event_date", "updated_at",
			}),
		}).
		Create(event).Error
}

// UpsertPricePoint inserts the observation or, when a row already exists for
// the same (event_id, date), updates only the prices.
func (s *Store) UpsertPricePoint(ctx context.Context, point *models.PricePoint) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"lowest_price", "highest_price", "updated_at",
			}),
		}).
		Create(point).Error
}

// EventsOlderThan returns ids of events dated strictly before cutoff.
func (s *Store) EventsOlderThan(ctx context.Context, cutoff string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("event_date < ?", cutoff).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PricesOlderThan returns keys of price rows observed strictly before cutoff.
func (s *Store) PricesOlderThan(ctx context.Context, cutoff string) ([]PriceKey, error) {
	var keys []PriceKey
	err := s.db.WithContext(ctx).
		Model(&models.PricePoint{}).
		Select("event_id", "date").
		Where("date < ?", cutoff).
		Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// CommitBatch applies every queued operation inside a single transaction.
func (s *Store) CommitBatch(ctx context.Context, batch *Batch) error {
	if batch == nil || len(batch.ops) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range batch.ops {
			switch op.kind {
			case opDeleteEvent:
				if err := tx.Where("event_id = ?", op.eventID).Delete(&models.PricePoint{}).Error; err != nil {
					return err
				}
				if err := tx.Where("event_id = ?", op.eventID).Delete(&models.Event{}).Error; err != nil {
					return err
				}
			case opDeletePricePoint:
				if err := tx.Where("event_id = ? AND date = ?", op.eventID, op.date).Delete(&models.PricePoint{}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// RecordSyncRun persists the outcome row for one invocation.
func (s *Store) RecordSyncRun(ctx context.Context, run *models.SyncRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}
