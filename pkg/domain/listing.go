package domain

import "encoding/json"

// ListingKind selects one of the two IPO name boards on the company page.
type ListingKind int

const (
	ListingUpcoming ListingKind = iota
	ListingToday
)

func (k ListingKind) String() string {
	if k == ListingToday {
		return "today"
	}
	return "upcoming"
}

// ListingEntry is a batch of company names posted together. The backend
// keeps upcoming names under "upcomingIpos" and today's listings under
// "ipoListingsToday"; both decode into Names.
type ListingEntry struct {
	ID    string
	Names []string
}

func (e *ListingEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string   `json:"_id"`
		Upcoming []string `json:"upcomingIpos"`
		Today    []string `json:"ipoListingsToday"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Names = append(raw.Upcoming, raw.Today...)
	return nil
}

// YearlyRow is one line of the yearly complaints table.
type YearlyRow struct {
	ID             string `json:"_id,omitempty"`
	Year           string `json:"Year" validate:"required"`
	CarriedForward int    `json:"carriedForward" validate:"gte=0"`
	Received       int    `json:"received" validate:"gte=0"`
	Resolved       int    `json:"resolved" validate:"gte=0"`
	Pending        int    `json:"pending" validate:"gte=0"`
}
