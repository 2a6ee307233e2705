package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/sirupsen/logrus"

	"deltavalue/models"
)

// DefaultMaxResults caps the number of ranked hits returned by Search.
const DefaultMaxResults = 50

// BleveEngine ranks stocks by text relevance blended with their AI score.
type BleveEngine struct {
	index      bleve.Index
	bySymbol   map[string]models.Stock
	maxResults int
}

// stockDoc is the indexed projection of a Stock.
type stockDoc struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	MarketCap string  `json:"market_cap"`
	AIScore   float64 `json:"ai_score"`
}

// NewBleveEngine indexes stocks. An empty indexPath keeps the index in
// memory; otherwise an existing index at indexPath is reopened and the
// stocks are re-indexed into it.
func NewBleveEngine(indexPath string, stocks []models.Stock, maxResults int) (*BleveEngine, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	index, err := openIndex(indexPath)
	if err != nil {
		return nil, err
	}

	logrus.WithField("stocks", len(stocks)).Debug("Indexing stocks")
	batch := index.NewBatch()
	bySymbol := make(map[string]models.Stock, len(stocks))
	for _, stock := range stocks {
		doc := stockDoc{
			Symbol:    stock.Symbol,
			Name:      stock.Name,
			Sector:    stock.Sector,
			MarketCap: stock.MarketCapClass,
			AIScore:   stock.AIScore,
		}
		if err := batch.Index(stock.Symbol, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add to batch: %w", err)
		}
		bySymbol[stock.Symbol] = stock
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	return &BleveEngine{
		index:      index,
		bySymbol:   bySymbol,
		maxResults: maxResults,
	}, nil
}

func openIndex(indexPath string) (bleve.Index, error) {
	if indexPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
		return index, nil
	}

	index, err := bleve.Open(indexPath)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
		logrus.WithField("path", indexPath).Info("Created search index")
		return index, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	logrus.WithField("path", indexPath).Info("Opened existing search index")
	return index, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	stockMapping := bleve.NewDocumentMapping()

	scoreFieldMapping := bleve.NewNumericFieldMapping()
	scoreFieldMapping.Store = true
	scoreFieldMapping.Index = true
	stockMapping.AddFieldMappingsAt("ai_score", scoreFieldMapping)

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true
	textFieldMapping.Index = true
	stockMapping.AddFieldMappingsAt("symbol", textFieldMapping)
	stockMapping.AddFieldMappingsAt("name", textFieldMapping)
	stockMapping.AddFieldMappingsAt("sector", textFieldMapping)
	stockMapping.AddFieldMappingsAt("market_cap", textFieldMapping)

	indexMapping.DefaultMapping = stockMapping
	return indexMapping
}

// Search blends match-type boosts with the stock's AI score:
// final = text*0.7 + (aiScore/10)*0.3.
func (e *BleveEngine) Search(query string) []models.Stock {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Stock{}
	}

	exactQuery := bleve.NewTermQuery(q)
	exactQuery.SetField("symbol")
	exactQuery.SetBoost(10.0)

	prefixQuery := bleve.NewPrefixQuery(q)
	prefixQuery.SetField("symbol")
	prefixQuery.SetBoost(5.0)

	nameMatchQuery := bleve.NewMatchQuery(query)
	nameMatchQuery.SetField("name")
	nameMatchQuery.SetBoost(3.0)

	wildcardSymbol := bleve.NewWildcardQuery("*" + q + "*")
	wildcardSymbol.SetField("symbol")
	wildcardSymbol.SetBoost(2.0)

	wildcardName := bleve.NewWildcardQuery("*" + q + "*")
	wildcardName.SetField("name")
	wildcardName.SetBoost(1.5)

	sectorQuery := bleve.NewMatchQuery(query)
	sectorQuery.SetField("sector")
	sectorQuery.SetBoost(1.0)

	searchQuery := bleve.NewDisjunctionQuery(
		exactQuery,
		prefixQuery,
		nameMatchQuery,
		wildcardSymbol,
		wildcardName,
		sectorQuery,
	)

	searchRequest := bleve.NewSearchRequest(searchQuery)
	searchRequest.Size = e.maxResults

	searchResults, err := e.index.Search(searchRequest)
	if err != nil {
		logrus.WithError(err).WithField("query", query).Error("Search failed")
		return []models.Stock{}
	}

	type scoredStock struct {
		stock models.Stock
		score float64
	}

	scored := make([]scoredStock, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		stock, ok := e.bySymbol[hit.ID]
		if !ok {
			// left over in an on-disk index from an older catalog
			continue
		}
		scored = append(scored, scoredStock{
			stock: stock,
			score: hit.Score*0.7 + (stock.AIScore/10)*0.3,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	results := make([]models.Stock, len(scored))
	for i, s := range scored {
		results[i] = s.stock
	}
	return results
}

func (e *BleveEngine) Close() error {
	return e.index.Close()
}
