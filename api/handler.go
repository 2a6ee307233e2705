package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"deltavalue/filter"
	"deltavalue/models"
	"deltavalue/search"
	"deltavalue/store"
)

// Catalog is the read side of the record store the handlers need.
type Catalog interface {
	Stocks() []models.Stock
	ETFs() []models.ETF
	Metrics() []models.MarketMetric
	Insights() []models.Insight
	Indicators() []models.IndicatorCategory
	News() []models.NewsItem
	Signals() []models.TradeSignal
	Stock(symbol string) (models.Stock, error)
	Detail(symbol string) (models.StockDetail, error)
}

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Handler struct {
	Catalog Catalog
	Engine  search.SearchEngine
	now     func() time.Time
}

func NewHandler(catalog Catalog, engine search.SearchEngine) *Handler {
	return &Handler{Catalog: catalog, Engine: engine, now: time.Now}
}

// StockView is a stock as listed on the dashboard.
type StockView struct {
	models.Stock
	ScoreBand string `json:"score_band"`
}

type ETFView struct {
	models.ETF
	ScoreBand string `json:"score_band"`
}

// StockList is the filtered stock view and the state that produced it.
type StockList struct {
	Filter filter.State `json:"filter"`
	Count  int          `json:"count"`
	Stocks []StockView  `json:"stocks"`
}

type DashboardData struct {
	Metrics    []models.MarketMetric `json:"metrics"`
	Insights   []models.Insight      `json:"insights"`
	Sectors    []string              `json:"sectors"`
	MarketCaps []string              `json:"market_caps"`
	Filter     filter.State          `json:"filter"`
}

type StockDetailData struct {
	Stock      models.StockDetail         `json:"stock"`
	ScoreBand  string                     `json:"score_band"`
	Indicators []models.IndicatorCategory `json:"indicators"`
	News       []models.NewsItem          `json:"news"`
	Signals    []models.TradeSignal       `json:"signals"`
}

func stockViews(stocks []models.Stock) []StockView {
	views := make([]StockView, len(stocks))
	for i, s := range stocks {
		views[i] = StockView{Stock: s, ScoreBand: models.BandFor(s.AIScore)}
	}
	return views
}

func etfViews(etfs []models.ETF) []ETFView {
	views := make([]ETFView, len(etfs))
	for i, e := range etfs {
		views[i] = ETFView{ETF: e, ScoreBand: models.BandFor(e.AIScore)}
	}
	return views
}

// listStocks evaluates the filter for one request. Every request gets its
// own state, so there is nothing to share or lock.
func (h *Handler) listStocks(state filter.State) StockList {
	view := h.Catalog.Stocks()
	if !state.IsIdentity() {
		view = filter.Apply(view, state)
	}
	return StockList{Filter: state, Count: len(view), Stocks: stockViews(view)}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "ok",
			"stocks":    len(h.Catalog.Stocks()),
			"timestamp": h.now().Unix(),
		},
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: DashboardData{
			Metrics:    h.Catalog.Metrics(),
			Insights:   h.Catalog.Insights(),
			Sectors:    models.Sectors(),
			MarketCaps: models.MarketCaps(),
			Filter:     filter.DefaultState(),
		},
	})
}

// Stocks serves the filtered view for ?q=&sector=&mcap=. No match is an
// empty list, not an error.
func (h *Handler) Stocks(w http.ResponseWriter, r *http.Request) {
	state := filter.FromValues(r.URL.Query())
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: h.listStocks(state)})
}

func (h *Handler) ETFs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: etfViews(h.Catalog.ETFs())})
}

func (h *Handler) StockDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Catalog.Detail(chi.URLParam(r, "symbol"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: StockDetailData{
			Stock:      detail,
			ScoreBand:  models.BandFor(detail.AIScore),
			Indicators: h.Catalog.Indicators(),
			News:       h.Catalog.News(),
			Signals:    h.Catalog.Signals(),
		},
	})
}

// History serves a mock price series. The period defaults to 1D.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	stock, err := h.Catalog.Stock(chi.URLParam(r, "symbol"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1D"
	}

	history, err := buildHistory(stock, period, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: history})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter 'q'")
		return
	}

	results := h.Engine.Search(query)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: stockViews(results)})
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrStockNotFound) {
		writeError(w, http.StatusNotFound, "stock not found")
		return
	}
	logrus.WithError(err).WithField("request_id", GetRequestID(r.Context())).Error("Catalog lookup failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// writeJSON encodes v before sending any header, so an encoding failure
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logrus.WithError(err).Error("Failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
