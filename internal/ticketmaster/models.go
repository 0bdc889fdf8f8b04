package ticketmaster

// Wire types for the Discovery API event listing. Only the fields the
// pipeline reads are mapped; everything else in the payload is ignored.

type RawEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Sales struct {
		Public struct {
			StartDateTime string `json:"startDateTime"`
		} `json:"public"`
	} `json:"sales"`
	PriceRanges     []PriceRange     `json:"priceRanges"`
	Classifications []Classification `json:"classifications"`
	Embedded struct {
		Venues      []Venue      `json:"venues"`
		Attractions []Attraction `json:"attractions"`
	} `json:"_embedded"`
}

type PriceRange struct {
	Type     string   `json:"type"`
	Currency string   `json:"currency"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}

type Venue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		Name string `json:"name"`
	} `json:"state"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
}

type Attraction struct {
	Name string `json:"name"`
}

type Classification struct {
	Genre struct {
		Name string `json:"name"`
	} `json:"genre"`
}

type eventsResponse struct {
	Embedded struct {
		Events []RawEvent `json:"events"`
	} `json:"_embedded"`
	Page struct {
		Size       int `json:"size"`
		TotalPages int `json:"totalPages"`
		Number     int `json:"number"`
	} `json:"page"`
}
