// Package filter narrows the stock list by the dashboard's search box,
// sector select and market-cap select.
//
// Apply is a pure function of (records, state). It never reorders, never
// mutates its input and never fails: a sector or market-cap value that no
// record carries simply yields an empty view.
package filter

import (
	"net/url"
	"strings"

	"deltavalue/models"
)

// State is the user-controlled filter input. The zero value matches
// everything.
type State struct {
	Query     string `json:"query"`
	Sector    string `json:"sector"`
	MarketCap string `json:"market_cap"`
}

// DefaultState returns the state a fresh dashboard starts with.
func DefaultState() State {
	return State{Sector: models.All, MarketCap: models.All}
}

// FromValues reads a State from URL query parameters q, sector and mcap.
// Missing parameters fall back to DefaultState.
func FromValues(v url.Values) State {
	s := DefaultState()
	s.Query = v.Get("q")
	if sector := v.Get("sector"); sector != "" {
		s.Sector = sector
	}
	if mcap := v.Get("mcap"); mcap != "" {
		s.MarketCap = mcap
	}
	return s
}

// Values is the inverse of FromValues; inactive predicates are omitted.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.sectorActive() {
		v.Set("sector", s.Sector)
	}
	if s.marketCapActive() {
		v.Set("mcap", s.MarketCap)
	}
	return v
}

// IsIdentity reports whether no predicate is active.
func (s State) IsIdentity() bool {
	return s.Query == "" && !s.sectorActive() && !s.marketCapActive()
}

func (s State) sectorActive() bool {
	return s.Sector != "" && s.Sector != models.All
}

func (s State) marketCapActive() bool {
	return s.MarketCap != "" && s.MarketCap != models.All
}

// Matches reports whether a single record satisfies every active predicate.
func (s State) Matches(stock models.Stock) bool {
	if s.Query != "" && !containsFold(stock, strings.ToLower(s.Query)) {
		return false
	}
	if s.sectorActive() && stock.Sector != s.Sector {
		return false
	}
	if s.marketCapActive() && stock.MarketCapClass != s.MarketCap {
		return false
	}
	return true
}

func containsFold(stock models.Stock, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(stock.Symbol), lowerQuery) ||
		strings.Contains(strings.ToLower(stock.Name), lowerQuery)
}

// Apply returns the records matching state, in input order. The result is
// a new slice; records is left untouched. An empty match is a non-nil,
// zero-length slice.
func Apply(records []models.Stock, state State) []models.Stock {
	out := make([]models.Stock, 0, len(records))
	for _, stock := range records {
		if state.Matches(stock) {
			out = append(out, stock)
		}
	}
	return out
}
