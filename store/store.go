// Package store holds the dashboard catalog in memory.
//
// A Store is built once at startup and never changes afterwards, so it is
// safe for concurrent readers. Accessors hand out copies.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"deltavalue/loader"
	"deltavalue/models"
)

var (
	ErrStockNotFound   = errors.New("stock not found")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrInvalidScore    = errors.New("ai score out of range")
	ErrInvalidChange   = errors.New("change percent not finite")
	ErrEmptySymbol     = errors.New("empty symbol")
)

type Store struct {
	stocks     []models.Stock
	etfs       []models.ETF
	metrics    []models.MarketMetric
	insights   []models.Insight
	indicators []models.IndicatorCategory
	news       []models.NewsItem
	signals    []models.TradeSignal

	bySymbol map[string]int
	details  map[string]models.StockDetail
}

// Open loads the catalog from fsys and builds a Store from it.
func Open(ctx context.Context, fsys fs.FS) (*Store, error) {
	c, err := loader.LoadCatalog(ctx, fsys)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(c)
}

// New validates c and builds a Store. Symbols must be unique across stocks
// and ETFs, every AI score must lie in [0, 10] and every change percent
// must be finite.
func New(c *loader.Catalog) (*Store, error) {
	s := &Store{
		stocks:     append([]models.Stock(nil), c.Stocks...),
		etfs:       append([]models.ETF(nil), c.ETFs...),
		metrics:    append([]models.MarketMetric(nil), c.Dashboard.Metrics...),
		insights:   append([]models.Insight(nil), c.Dashboard.Insights...),
		indicators: cloneIndicators(c.Dashboard.Indicators),
		news:       append([]models.NewsItem(nil), c.Details.News...),
		signals:    append([]models.TradeSignal(nil), c.Details.Signals...),
		bySymbol:   make(map[string]int, len(c.Stocks)),
		details:    make(map[string]models.StockDetail, len(c.Details.Details)),
	}

	seen := make(map[string]bool, len(c.Stocks)+len(c.ETFs))
	check := func(symbol string, score, change float64) error {
		if symbol == "" {
			return ErrEmptySymbol
		}
		if seen[symbol] {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, symbol)
		}
		// NaN fails every comparison, so test it explicitly
		if math.IsNaN(score) || score < 0 || score > 10 {
			return fmt.Errorf("%w: %s has %v", ErrInvalidScore, symbol, score)
		}
		if math.IsNaN(change) || math.IsInf(change, 0) {
			return fmt.Errorf("%w: %s has %v", ErrInvalidChange, symbol, change)
		}
		seen[symbol] = true
		return nil
	}

	for i, stock := range s.stocks {
		if err := check(stock.Symbol, stock.AIScore, stock.ChangePercent); err != nil {
			return nil, err
		}
		s.bySymbol[stock.Symbol] = i
	}
	for _, etf := range s.etfs {
		if err := check(etf.Symbol, etf.AIScore, etf.ChangePercent); err != nil {
			return nil, err
		}
	}
	for _, d := range c.Details.Details {
		s.details[strings.ToUpper(d.Symbol)] = d
	}

	return s, nil
}

func cloneIndicators(in []models.IndicatorCategory) []models.IndicatorCategory {
	out := make([]models.IndicatorCategory, len(in))
	for i, c := range in {
		out[i] = models.IndicatorCategory{
			Category:   c.Category,
			Indicators: append([]string(nil), c.Indicators...),
		}
	}
	return out
}

// Stocks returns the stock list in catalog order.
func (s *Store) Stocks() []models.Stock {
	return append([]models.Stock(nil), s.stocks...)
}

func (s *Store) ETFs() []models.ETF {
	return append([]models.ETF(nil), s.etfs...)
}

func (s *Store) Metrics() []models.MarketMetric {
	return append([]models.MarketMetric(nil), s.metrics...)
}

func (s *Store) Insights() []models.Insight {
	return append([]models.Insight(nil), s.insights...)
}

func (s *Store) Indicators() []models.IndicatorCategory {
	return cloneIndicators(s.indicators)
}

func (s *Store) News() []models.NewsItem {
	return append([]models.NewsItem(nil), s.news...)
}

func (s *Store) Signals() []models.TradeSignal {
	return append([]models.TradeSignal(nil), s.signals...)
}

// Stock looks a stock up by symbol, ignoring case.
func (s *Store) Stock(symbol string) (models.Stock, error) {
	i, ok := s.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return models.Stock{}, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}
	return s.stocks[i], nil
}

// Detail returns the detail page data for symbol. Stocks without a rich
// detail entry get one built from their list record. The list record wins
// for shared fields, except Name: the detail carries the full legal name.
func (s *Store) Detail(symbol string) (models.StockDetail, error) {
	stock, err := s.Stock(symbol)
	if err != nil {
		return models.StockDetail{}, err
	}

	d, ok := s.details[stock.Symbol]
	if !ok {
		return models.StockDetail{Stock: stock}, nil
	}
	name := d.Name
	d.Stock = stock
	if name != "" {
		d.Name = name
	}
	return d, nil
}

// Len returns the number of stocks.
func (s *Store) Len() int {
	return len(s.stocks)
}
