package api

import (
	"fmt"
	"math"
	"strings"
	"time"

	"deltavalue/models"
)

type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// History is a mock price series for one stock over one period.
type History struct {
	Symbol        string       `json:"symbol"`
	Period        string       `json:"period"`
	CurrentPrice  float64      `json:"current_price"`
	PreviousClose float64      `json:"previous_close"`
	Points        []PricePoint `json:"history"`
}

// Periods lists the accepted chart periods.
var Periods = []string{"1D", "1W", "1M", "6M", "1Y", "YTD", "5Y"}

func validPeriod(p string) bool {
	for _, v := range Periods {
		if v == p {
			return true
		}
	}
	return false
}

// buildHistory generates a deterministic series ending at the stock's
// catalog price. The series trends in the direction of the day's change
// with a small sawtooth on top. Intraday periods use RFC3339 timestamps,
// longer ones plain dates.
func buildHistory(stock models.Stock, period string, now time.Time) (*History, error) {
	period = strings.ToUpper(period)
	if !validPeriod(period) {
		return nil, fmt.Errorf("unknown period %q", period)
	}

	current := stock.Price.InexactFloat64()
	trend := 1.0
	if stock.ChangePercent < 0 {
		trend = -1.0
	}
	step := current * 0.0005

	type span struct {
		count    int
		interval time.Duration
		daily    bool
	}
	var sp span
	switch period {
	case "1D":
		// 5-minute intervals over a 6.5 hour session
		sp = span{count: 78, interval: 5 * time.Minute}
	case "1W":
		sp = span{count: 168, interval: time.Hour}
	case "1M":
		sp = span{count: 720, interval: time.Hour}
	case "6M":
		sp = span{count: 180, daily: true}
	case "1Y":
		sp = span{count: 365, daily: true}
	case "YTD":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		sp = span{count: int(now.Sub(start).Hours() / 24), daily: true}
	case "5Y":
		sp = span{count: 1825, daily: true}
	}

	points := make([]PricePoint, 0, sp.count+1)
	for i := sp.count; i >= 0; i-- {
		fluctuation := float64(i%5) * step
		if i%2 == 0 {
			fluctuation = -fluctuation
		}
		price := round2(current - trend*float64(i)*step + fluctuation)

		var date string
		if sp.daily {
			date = now.AddDate(0, 0, -i).Format("2006-01-02")
		} else {
			date = now.Add(-time.Duration(i) * sp.interval).Format(time.RFC3339)
		}
		points = append(points, PricePoint{Date: date, Price: price})
	}

	// A change of -100% or below leaves no previous close to derive; report 0.
	var previous float64
	if base := 1 + stock.ChangePercent/100; base > 0 {
		previous = round2(current / base)
	}

	return &History{
		Symbol:        stock.Symbol,
		Period:        period,
		CurrentPrice:  current,
		PreviousClose: previous,
		Points:        points,
	}, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
