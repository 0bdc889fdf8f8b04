package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily observation of an event's ticket price range.
// At most one row exists per (event_id, date); a later observation on the
// same day overwrites the prices in place.
type PricePoint struct {
	EventID      string              `gorm:"size:64;primaryKey" json:"event_id"`
	Date         string              `gorm:"size:10;primaryKey" json:"date"` // YYYY-MM-DD observation day
	LowestPrice  decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"lowest_price"`
	HighestPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"highest_price"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TableName specifies the table name for PricePoint model
func (PricePoint) TableName() string {
	return "event_prices"
}
