package search

import (
	"fmt"
	"strings"

	"deltavalue/config"
	"deltavalue/filter"
	"deltavalue/models"
)

type SearchEngine interface {
	Search(query string) []models.Stock
	Close() error
}

// NewEngine builds the engine selected by cfg.Engine.
func NewEngine(cfg config.SearchConfig, stocks []models.Stock) (SearchEngine, error) {
	switch cfg.Engine {
	case config.EngineSubstring:
		return NewInMemoryEngine(stocks), nil
	case config.EngineBleve, "":
		e, err := NewBleveEngine(cfg.IndexPath, stocks, cfg.MaxResults)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown search engine %q", cfg.Engine)
	}
}

// InMemoryEngine answers searches with the dashboard filter: a
// case-insensitive substring match on symbol or name, in catalog order.
type InMemoryEngine struct {
	stocks []models.Stock
}

func NewInMemoryEngine(stocks []models.Stock) *InMemoryEngine {
	return &InMemoryEngine{stocks: stocks}
}

func (e *InMemoryEngine) Search(query string) []models.Stock {
	if strings.TrimSpace(query) == "" {
		return []models.Stock{}
	}
	state := filter.DefaultState()
	state.Query = strings.TrimSpace(query)
	return filter.Apply(e.stocks, state)
}

func (e *InMemoryEngine) Close() error {
	return nil
}
