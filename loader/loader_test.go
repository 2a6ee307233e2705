package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"deltavalue/data"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadStocks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stocks.csv", `Symbol,Name,Price,ChangePercent,AIScore,Sector,MarketCap
reliance ,Reliance Industries,2456.75,2.3,8.9,Energy,Large Cap
TCS,Tata Consultancy Services,3678.90,-1.8,8.7,IT,Large Cap`)

	stocks, err := LoadStocks(context.Background(), os.DirFS(dir), "stocks.csv")
	if err != nil {
		t.Fatalf("LoadStocks failed: %v", err)
	}

	if len(stocks) != 2 {
		t.Fatalf("Expected 2 stocks, got %d", len(stocks))
	}
	if stocks[0].Symbol != "RELIANCE" {
		t.Errorf("Expected symbol RELIANCE, got %s", stocks[0].Symbol)
	}
	if stocks[0].Price.String() != "2456.75" {
		t.Errorf("Expected price 2456.75, got %s", stocks[0].Price)
	}
	if stocks[1].ChangePercent != -1.8 {
		t.Errorf("Expected change -1.8, got %v", stocks[1].ChangePercent)
	}
	if stocks[1].MarketCapClass != "Large Cap" {
		t.Errorf("Expected Large Cap, got %q", stocks[1].MarketCapClass)
	}
}

func TestLoadStocksWithoutHeader(t *testing.T) {
	fsys := fstest.MapFS{
		"s.csv": {Data: []byte("ITC,ITC Limited,456.80,0.3,7.7,FMCG,Large Cap\n")},
	}

	stocks, err := LoadStocks(context.Background(), fsys, "s.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "ITC" {
		t.Errorf("Expected single ITC row, got %+v", stocks)
	}
}

func TestLoadStocksSkipsShortRows(t *testing.T) {
	fsys := fstest.MapFS{
		"s.csv": {Data: []byte("Symbol,Name\nITC,ITC Limited\nINFY,Infosys,1523.30,1.2,8.3,IT,Large Cap\n")},
	}

	stocks, err := LoadStocks(context.Background(), fsys, "s.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "INFY" {
		t.Errorf("Expected only INFY, got %+v", stocks)
	}
}

func TestLoadStocksMalformedPrice(t *testing.T) {
	fsys := fstest.MapFS{
		"s.csv": {Data: []byte("ITC,ITC Limited,abc,0.3,7.7,FMCG,Large Cap\n")},
	}

	_, err := LoadStocks(context.Background(), fsys, "s.csv")
	if !errors.Is(err, ErrMalformedRow) {
		t.Errorf("Expected ErrMalformedRow, got %v", err)
	}
}

func TestLoadStocksRejectsNonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"NaN change", "BAD,Bad Co,10,NaN,5,IT,Large Cap"},
		{"NaN score", "BAD,Bad Co,10,1.0,NaN,IT,Large Cap"},
		{"infinite change", "BAD,Bad Co,10,-Inf,5,IT,Large Cap"},
		{"infinite score", "BAD,Bad Co,10,1.0,+Inf,IT,Large Cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"s.csv": {Data: []byte(tt.row + "\n")}}
			_, err := LoadStocks(context.Background(), fsys, "s.csv")
			if !errors.Is(err, ErrMalformedRow) {
				t.Errorf("Expected ErrMalformedRow, got %v", err)
			}
		})
	}
}

func TestLoadStocksHeaderWithByteOrderMark(t *testing.T) {
	fsys := fstest.MapFS{
		"s.csv": {Data: []byte("\ufeffSymbol,Name,Price,ChangePercent,AIScore,Sector,MarketCap\nITC,ITC Limited,456.80,0.3,7.7,FMCG,Large Cap\n")},
	}

	stocks, err := LoadStocks(context.Background(), fsys, "s.csv")
	if err != nil {
		t.Fatalf("LoadStocks failed: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "ITC" {
		t.Errorf("Expected single ITC row, got %+v", stocks)
	}
}

func TestLoadETFs(t *testing.T) {
	fsys := fstest.MapFS{
		"e.csv": {Data: []byte("Symbol,Name,Price,ChangePercent,AIScore,AUM\nNIFTYBEES,Nippon India ETF Nifty BeES,256.30,1.4,8.2,\"₹8,942 Cr\"\n")},
	}

	etfs, err := LoadETFs(context.Background(), fsys, "e.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(etfs) != 1 {
		t.Fatalf("Expected 1 ETF, got %d", len(etfs))
	}
	if etfs[0].AUM != "₹8,942 Cr" {
		t.Errorf("Expected AUM ₹8,942 Cr, got %q", etfs[0].AUM)
	}
}

func TestLoadCatalogEmbedded(t *testing.T) {
	c, err := LoadCatalog(context.Background(), data.FS())
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	if len(c.Stocks) != 8 {
		t.Errorf("Expected 8 stocks, got %d", len(c.Stocks))
	}
	if len(c.ETFs) != 4 {
		t.Errorf("Expected 4 ETFs, got %d", len(c.ETFs))
	}
	if len(c.Dashboard.Metrics) != 4 || len(c.Dashboard.Insights) != 4 || len(c.Dashboard.Indicators) != 4 {
		t.Errorf("Unexpected dashboard sizes: %+v", c.Dashboard)
	}
	if len(c.Details.Details) != 1 || c.Details.Details[0].Symbol != "RELIANCE" {
		t.Fatalf("Expected RELIANCE detail, got %+v", c.Details.Details)
	}
	if got := c.Details.Details[0].High52W.String(); got != "2856.3" {
		t.Errorf("Expected 52w high 2856.3, got %s", got)
	}
	if len(c.Details.Signals) != 4 || c.Details.Signals[0].Action != "BUY" {
		t.Errorf("Unexpected signals: %+v", c.Details.Signals)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		StocksFile: {Data: []byte("")},
	}

	if _, err := LoadCatalog(context.Background(), fsys); err == nil {
		t.Error("Expected error for missing catalog files")
	}
}

func TestLoadCatalogCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := LoadCatalog(ctx, data.FS()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
