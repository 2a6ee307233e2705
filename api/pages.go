package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"deltavalue/filter"
	"deltavalue/format"
	"deltavalue/models"
	"deltavalue/store"
)

//go:embed templates/*.html static/*
var assets embed.FS

type pages struct {
	indexTmpl *template.Template
	stockTmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"inr":       format.INR,
	"number":    format.Number,
	"pct":       format.Percent,
	"signedPct": format.SignedPercent,
	"score":     format.Score,
	"band":      models.BandFor,
}

func newPages() (*pages, error) {
	parse := func(name string) (*template.Template, error) {
		return template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/layout.html", "templates/"+name)
	}
	index, err := parse("index.html")
	if err != nil {
		return nil, err
	}
	stock, err := parse("stock.html")
	if err != nil {
		return nil, err
	}
	return &pages{indexTmpl: index, stockTmpl: stock}, nil
}

type indexPage struct {
	Metrics    []models.MarketMetric
	Insights   []models.Insight
	Sectors    []string
	MarketCaps []string
	All        string
	Query      string // active filter as "?q=...", empty when inactive
	List       StockList
	ETFs       []models.ETF
}

type stockPage struct {
	BackURL    string
	Detail     models.StockDetail
	Indicators []models.IndicatorCategory
	News       []models.NewsItem
	Signals    []models.TradeSignal
	Periods    []string
}

// index renders the dashboard. The filter form submits q, sector and mcap
// back to this page, so the view always reflects the URL.
func (p *pages) index(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := filter.FromValues(r.URL.Query())
		data := indexPage{
			Metrics:    h.Catalog.Metrics(),
			Insights:   h.Catalog.Insights(),
			Sectors:    models.Sectors(),
			MarketCaps: models.MarketCaps(),
			All:        models.All,
			Query:      encodeFilter(state),
			List:       h.listStocks(state),
			ETFs:       h.Catalog.ETFs(),
		}
		render(w, r, p.indexTmpl, data)
	}
}

func (p *pages) stock(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := h.Catalog.Detail(chi.URLParam(r, "symbol"))
		if err != nil {
			if errors.Is(err, store.ErrStockNotFound) {
				http.NotFound(w, r)
				return
			}
			logrus.WithError(err).Error("Catalog lookup failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		render(w, r, p.stockTmpl, stockPage{
			BackURL:    "/" + encodeFilter(filter.FromValues(r.URL.Query())),
			Detail:     detail,
			Indicators: h.Catalog.Indicators(),
			News:       h.Catalog.News(),
			Signals:    h.Catalog.Signals(),
			Periods:    Periods,
		})
	}
}

// encodeFilter carries the dashboard filter across page links, so returning
// from a detail page restores the list the user was looking at.
func encodeFilter(state filter.State) string {
	if state.IsIdentity() {
		return ""
	}
	return "?" + state.Values().Encode()
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind a 200.
func render(w http.ResponseWriter, r *http.Request, t *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logrus.WithError(err).WithField("request_id", GetRequestID(r.Context())).Error("Template render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
