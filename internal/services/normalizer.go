package services

import (
	"log"
	"time"

	"concert-tracker/internal/models"
	"concert-tracker/internal/ticketmaster"

	"github.com/shopspring/decimal"
)

// NormalizedEvent pairs a canonical event with the price range observed for
// it in the current fetch cycle.
type NormalizedEvent struct {
	Event        models.Event
	LowestPrice  decimal.NullDecimal
	HighestPrice decimal.NullDecimal
}

// Normalize maps raw Discovery API records into canonical events. Missing
// nested fields fall back to the "N/A" sentinel instead of failing, and
// events whose public sale has not started at now are dropped. Pure
// transformation; no I/O.
func Normalize(rawEvents []ticketmaster.RawEvent, now time.Time) []NormalizedEvent {
	normalized := make([]NormalizedEvent, 0, len(rawEvents))

	for _, raw := range rawEvents {
		if raw.ID == "" {
			log.Println("[Normalizer] Skipping record without an event id")
			continue
		}
		if onSaleInFuture(raw.Sales.Public.StartDateTime, now) {
			continue
		}

		event := models.Event{
			EventID:     raw.ID,
			Name:        orSentinel(raw.Name),
			VenueName:   models.SentinelNA,
			CityName:    models.SentinelNA,
			StateName:   models.SentinelNA,
			CountryName: models.SentinelNA,
			ArtistName:  models.SentinelNA,
			Genre:       models.SentinelNA,
			URL:         orSentinel(raw.URL),
			EventDate:   orSentinel(raw.Dates.Start.LocalDate),
		}

		if len(raw.Embedded.Venues) > 0 {
			venue := raw.Embedded.Venues[0]
			event.VenueName = orSentinel(venue.Name)
			event.CityName = orSentinel(venue.City.Name)
			event.StateName = orSentinel(venue.State.Name)
			event.CountryName = orSentinel(venue.Country.Name)
		}
		if len(raw.Embedded.Attractions) > 0 {
			event.ArtistName = orSentinel(raw.Embedded.Attractions[0].Name)
		}
		if len(raw.Classifications) > 0 {
			event.Genre = orSentinel(raw.Classifications[0].Genre.Name)
		}

		item := NormalizedEvent{Event: event}
		if len(raw.PriceRanges) > 0 {
			tier := raw.PriceRanges[0]
			if tier.Min != nil {
				item.LowestPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*tier.Min))
			}
			if tier.Max != nil {
				item.HighestPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*tier.Max))
			}
		}

		normalized = append(normalized, item)
	}

	return normalized
}

// onSaleInFuture reports whether the public on-sale timestamp is after now.
// Records without the field, or with one that does not parse, are trackable.
func onSaleInFuture(startDateTime string, now time.Time) bool {
	if startDateTime == "" {
		return false
	}
	start, err := time.Parse(time.RFC3339, startDateTime)
	if err != nil {
		return false
	}
	return start.After(now)
}

func orSentinel(value string) string {
	if value == "" {
		return models.SentinelNA
	}
	return value
}
