package models

import (
	"time"
)

// SentinelNA is stored in place of any text field the upstream API omits.
const SentinelNA = "N/A"

// DateLayout is the calendar-date format used for event dates and price
// observation days. Lexicographic order equals chronological order, which
// keeps retention comparisons portable across database drivers.
const DateLayout = "2006-01-02"

// Event is one trackable concert listing, keyed by its upstream identifier.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"size:64;uniqueIndex;not null" json:"event_id"`
	Name        string    `gorm:"size:500" json:"name"`
	VenueName   string    `gorm:"size:255" json:"venue_name"`
	CityName    string    `gorm:"size:255" json:"city_name"`
	StateName   string    `gorm:"size:255" json:"state_name"`
	CountryName string    `gorm:"size:255" json:"country_name"`
	ArtistName  string    `gorm:"size:255" json:"artist_name"`
	Genre       string    `gorm:"size:100" json:"genre"`
	URL         string    `gorm:"size:1000" json:"url"`
	EventDate   string    `gorm:"size:10;index" json:"event_date"` // YYYY-MM-DD, venue-local
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Event model
func (Event) TableName() string {
	return "events"
}
