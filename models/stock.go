package models

import "github.com/shopspring/decimal"

// Sectors offered by the dashboard sector filter.
const (
	SectorIT      = "IT"
	SectorBanking = "Banking"
	SectorEnergy  = "Energy"
	SectorFMCG    = "FMCG"
)

// Market-cap classes offered by the dashboard market-cap filter.
const (
	LargeCap = "Large Cap"
	MidCap   = "Mid Cap"
	SmallCap = "Small Cap"
)

// All is the filter value that disables a sector or market-cap predicate.
const All = "all"

// Sectors returns the selectable sectors in display order.
func Sectors() []string {
	return []string{SectorIT, SectorBanking, SectorEnergy, SectorFMCG}
}

// MarketCaps returns the selectable market-cap classes in display order.
func MarketCaps() []string {
	return []string{LargeCap, MidCap, SmallCap}
}

type Stock struct {
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ChangePercent  float64         `json:"change_percent"`
	AIScore        float64         `json:"ai_score"` // 0.0 to 10.0, static catalog value
	Sector         string          `json:"sector"`
	MarketCapClass string          `json:"market_cap_class"`
}

// IsGaining reports whether the day's change is non-negative.
func (s Stock) IsGaining() bool {
	return s.ChangePercent >= 0
}

type ETF struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent float64         `json:"change_percent"`
	AIScore       float64         `json:"ai_score"`
	AUM           string          `json:"aum"` // preformatted, e.g. "₹8,942 Cr"
}

func (e ETF) IsGaining() bool {
	return e.ChangePercent >= 0
}
