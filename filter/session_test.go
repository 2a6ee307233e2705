package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deltavalue/models"
)

func TestSessionRecomputesOnEveryChange(t *testing.T) {
	s := NewSession(sampleStocks())

	assert.Len(t, s.View(), 8)

	assert.Equal(t, []string{"TCS", "INFY"}, symbols(s.SetSector("IT")))
	assert.Equal(t, []string{"INFY"}, symbols(s.SetQuery("inf")))
	assert.Empty(t, s.SetMarketCap("Small Cap"))
	assert.Equal(t, []string{"INFY"}, symbols(s.SetMarketCap(models.All)))

	assert.Equal(t, State{Query: "inf", Sector: "IT", MarketCap: models.All}, s.State())
}

func TestSessionReset(t *testing.T) {
	s := NewSession(sampleStocks())
	s.SetQuery("zzz")
	assert.Empty(t, s.View())

	got := s.Reset()

	assert.Len(t, got, 8)
	assert.Equal(t, DefaultState(), s.State())
}

func TestSessionOwnsItsRecords(t *testing.T) {
	records := sampleStocks()
	s := NewSession(records)

	records[0].Symbol = "MUTATED"

	assert.Equal(t, "RELIANCE", s.View()[0].Symbol)
}
