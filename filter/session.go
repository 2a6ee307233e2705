package filter

import "deltavalue/models"

// Session pairs a fixed record list with a mutable State. Every setter
// returns the view recomputed from scratch; nothing is cached between calls.
// A Session is not safe for concurrent use.
type Session struct {
	records []models.Stock
	state   State
}

// NewSession copies records so later changes by the caller cannot leak in.
func NewSession(records []models.Stock) *Session {
	owned := make([]models.Stock, len(records))
	copy(owned, records)
	return &Session{records: owned, state: DefaultState()}
}

func (s *Session) State() State {
	return s.state
}

// View evaluates the current state against the records.
func (s *Session) View() []models.Stock {
	return Apply(s.records, s.state)
}

func (s *Session) SetQuery(q string) []models.Stock {
	s.state.Query = q
	return s.View()
}

func (s *Session) SetSector(sector string) []models.Stock {
	s.state.Sector = sector
	return s.View()
}

func (s *Session) SetMarketCap(mcap string) []models.Stock {
	s.state.MarketCap = mcap
	return s.View()
}

// Reset restores DefaultState, the equivalent of reloading the page.
func (s *Session) Reset() []models.Stock {
	s.state = DefaultState()
	return s.View()
}
