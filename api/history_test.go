package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deltavalue/models"
)

func historyStock(change float64) models.Stock {
	return models.Stock{
		Symbol:        "RELIANCE",
		Name:          "Reliance Industries",
		Price:         decimal.RequireFromString("2456.75"),
		ChangePercent: change,
		AIScore:       8.9,
	}
}

func TestBuildHistoryPointCounts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   int
	}{
		{"1D", 79},
		{"1W", 169},
		{"1M", 721},
		{"6M", 181},
		{"1Y", 366},
		{"YTD", 60},
		{"5Y", 1826},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			h, err := buildHistory(historyStock(2.3), tt.period, now)
			require.NoError(t, err)
			assert.Len(t, h.Points, tt.want)
			assert.Equal(t, tt.period, h.Period)
		})
	}
}

func TestBuildHistoryEndsAtCurrentPrice(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	h, err := buildHistory(historyStock(2.3), "1M", now)
	require.NoError(t, err)

	last := h.Points[len(h.Points)-1]
	assert.Equal(t, 2456.75, last.Price)
	assert.Equal(t, 2456.75, h.CurrentPrice)
	assert.InDelta(t, 2401.52, h.PreviousClose, 0.001)
	assert.Equal(t, now.Format(time.RFC3339), last.Date)
}

func TestBuildHistoryFollowsTrend(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	up, err := buildHistory(historyStock(2.3), "1W", now)
	require.NoError(t, err)
	assert.Less(t, up.Points[0].Price, up.CurrentPrice)

	down, err := buildHistory(historyStock(-1.1), "1W", now)
	require.NoError(t, err)
	assert.Greater(t, down.Points[0].Price, down.CurrentPrice)
}

func TestBuildHistoryIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a, err := buildHistory(historyStock(0.8), "6m", now)
	require.NoError(t, err)
	b, err := buildHistory(historyStock(0.8), "6M", now)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "2025-09-02", a.Points[0].Date)
}

func TestBuildHistoryUnknownPeriod(t *testing.T) {
	_, err := buildHistory(historyStock(1), "10Y", time.Now())
	assert.Error(t, err)
}

func TestBuildHistoryTotalLoss(t *testing.T) {
	h, err := buildHistory(historyStock(-100), "1D", time.Now())
	require.NoError(t, err)
	assert.Zero(t, h.PreviousClose)

	_, err = json.Marshal(h)
	assert.NoError(t, err)
}
