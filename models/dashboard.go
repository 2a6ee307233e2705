package models

import "github.com/shopspring/decimal"

// MarketMetric is a headline index shown above the stock list (Nifty 50, Sensex, ...).
type MarketMetric struct {
	Label         string  `json:"label"`
	Value         string  `json:"value"`
	ChangePercent float64 `json:"change_percent"`
	Trend         string  `json:"trend"` // "up" or "down"
}

func (m MarketMetric) IsUp() bool {
	return m.Trend == "up"
}

// Insight is an AI insight category with its stock count and average score.
type Insight struct {
	Title       string  `json:"title"`
	Stocks      int     `json:"stocks"`
	AvgScore    float64 `json:"avg_score"`
	Description string  `json:"description"`
}

// IndicatorCategory groups the indicators that feed one score component.
type IndicatorCategory struct {
	Category   string   `json:"category"`
	Indicators []string `json:"indicators"`
}

type NewsItem struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Time      string `json:"time"`
	Sentiment string `json:"sentiment"` // positive, neutral, negative
}

type TradeSignal struct {
	Date   string          `json:"date"`
	Action string          `json:"action"` // BUY, SELL, HOLD
	Price  decimal.Decimal `json:"price"`
	Result string          `json:"result"` // WIN, LOSS
	Return string          `json:"return"`
}

// ScoreBreakdown holds the component scores behind an AI score.
type ScoreBreakdown struct {
	Fundamental float64 `json:"fundamental"`
	Technical   float64 `json:"technical"`
	Sentiment   float64 `json:"sentiment"`
	Risk        float64 `json:"risk"`
}

// StockDetail extends a Stock with the fields shown on its detail page.
type StockDetail struct {
	Stock
	ChangeAmount decimal.Decimal `json:"change_amount"`
	MarketCap    string          `json:"market_cap"`
	PE           float64         `json:"pe"`
	PB           float64         `json:"pb"`
	ROE          float64         `json:"roe"`
	Scores       ScoreBreakdown  `json:"scores"`
	Volume       string          `json:"volume"`
	AvgVolume    string          `json:"avg_volume"`
	High52W      decimal.Decimal `json:"high_52w"`
	Low52W       decimal.Decimal `json:"low_52w"`
	Description  string          `json:"description"`
}

// Score bands used when presenting an AI score.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// BandFor maps an AI score to its presentation band.
func BandFor(score float64) string {
	switch {
	case score >= 8:
		return BandHigh
	case score >= 6:
		return BandMedium
	default:
		return BandLow
	}
}
