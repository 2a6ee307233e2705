package loader

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"deltavalue/models"
)

// Catalog file names, relative to the root of the catalog filesystem.
const (
	StocksFile    = "stocks.csv"
	ETFsFile      = "etfs.csv"
	DashboardFile = "dashboard.json"
	DetailsFile   = "details.json"
)

// ErrMalformedRow is returned when a CSV row has a value that cannot be parsed.
var ErrMalformedRow = errors.New("malformed row")

// Dashboard is the content of dashboard.json.
type Dashboard struct {
	Metrics    []models.MarketMetric      `json:"metrics"`
	Insights   []models.Insight           `json:"insights"`
	Indicators []models.IndicatorCategory `json:"indicators"`
}

// Details is the content of details.json.
type Details struct {
	Details []models.StockDetail `json:"details"`
	News    []models.NewsItem    `json:"news"`
	Signals []models.TradeSignal `json:"signals"`
}

// Catalog is everything the dashboard renders, as read from disk.
type Catalog struct {
	Stocks    []models.Stock
	ETFs      []models.ETF
	Dashboard Dashboard
	Details   Details
}

// LoadCatalog reads all catalog files from fsys concurrently.
func LoadCatalog(ctx context.Context, fsys fs.FS) (*Catalog, error) {
	var c Catalog
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stocks, err := LoadStocks(ctx, fsys, StocksFile)
		c.Stocks = stocks
		return err
	})
	g.Go(func() error {
		etfs, err := LoadETFs(ctx, fsys, ETFsFile)
		c.ETFs = etfs
		return err
	})
	g.Go(func() error {
		return loadJSON(ctx, fsys, DashboardFile, &c.Dashboard)
	})
	g.Go(func() error {
		return loadJSON(ctx, fsys, DetailsFile, &c.Details)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"stocks":   len(c.Stocks),
		"etfs":     len(c.ETFs),
		"metrics":  len(c.Dashboard.Metrics),
		"insights": len(c.Dashboard.Insights),
		"details":  len(c.Details.Details),
	}).Info("Catalog loaded")

	return &c, nil
}

func LoadStocks(ctx context.Context, fsys fs.FS, name string) ([]models.Stock, error) {
	records, err := readCSV(ctx, fsys, name)
	if err != nil {
		return nil, err
	}

	var stocks []models.Stock
	for i, record := range records {
		// Symbol,Name,Price,ChangePercent,AIScore,Sector,MarketCap
		if len(record) < 7 {
			logrus.Warnf("%s: skipping row %d with %d columns", name, i+1, len(record))
			continue
		}
		price, change, score, err := parseQuote(record[2], record[3], record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+1, err)
		}
		stocks = append(stocks, models.Stock{
			Symbol:         normalizeSymbol(record[0]),
			Name:           strings.TrimSpace(record[1]),
			Price:          price,
			ChangePercent:  change,
			AIScore:        score,
			Sector:         strings.TrimSpace(record[5]),
			MarketCapClass: strings.TrimSpace(record[6]),
		})
	}

	return stocks, nil
}

func LoadETFs(ctx context.Context, fsys fs.FS, name string) ([]models.ETF, error) {
	records, err := readCSV(ctx, fsys, name)
	if err != nil {
		return nil, err
	}

	var etfs []models.ETF
	for i, record := range records {
		// Symbol,Name,Price,ChangePercent,AIScore,AUM
		if len(record) < 6 {
			logrus.Warnf("%s: skipping row %d with %d columns", name, i+1, len(record))
			continue
		}
		price, change, score, err := parseQuote(record[2], record[3], record[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+1, err)
		}
		etfs = append(etfs, models.ETF{
			Symbol:        normalizeSymbol(record[0]),
			Name:          strings.TrimSpace(record[1]),
			Price:         price,
			ChangePercent: change,
			AIScore:       score,
			AUM:           strings.TrimSpace(record[5]),
		})
	}

	return etfs, nil
}

// readCSV returns the data rows of a CSV file, without its header row.
func readCSV(ctx context.Context, fsys fs.FS, name string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	// A first cell of "Symbol" marks a header row. Spreadsheet exports may
	// prefix it with a UTF-8 byte order mark.
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
		if strings.EqualFold(records[0][0], "Symbol") {
			records = records[1:]
		}
	}
	return records, nil
}

func parseQuote(priceStr, changeStr, scoreStr string) (decimal.Decimal, float64, float64, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(priceStr))
	if err != nil {
		return decimal.Zero, 0, 0, fmt.Errorf("%w: price %q", ErrMalformedRow, priceStr)
	}
	change, err := strconv.ParseFloat(strings.TrimSpace(changeStr), 64)
	if err != nil || !finite(change) {
		return decimal.Zero, 0, 0, fmt.Errorf("%w: change %q", ErrMalformedRow, changeStr)
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
	if err != nil || !finite(score) {
		return decimal.Zero, 0, 0, fmt.Errorf("%w: ai score %q", ErrMalformedRow, scoreStr)
	}
	return price, change, score, nil
}

// finite rejects the NaN and Inf spellings ParseFloat accepts.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func loadJSON(ctx context.Context, fsys fs.FS, name string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
