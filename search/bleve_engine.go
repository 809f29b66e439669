package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/rs/zerolog/log"

	"stock-positions/models"
)

const keywordAnalyzer = "lowercase_keyword"

var stockFields = []string{"symbol", "name", "exchange", "type", "brand", "sector", "industry", "tags", "popularity_score"}

type BleveEngine struct {
	index bleve.Index
}

// NewBleveEngine indexes stocks into the index at indexPath, creating it when
// missing. An empty indexPath keeps the index in memory. Documents are keyed
// by symbol and exchange, so re-indexing an existing index updates it.
func NewBleveEngine(indexPath string, stocks []models.Stock) (*BleveEngine, error) {
	var (
		index bleve.Index
		err   error
	)
	switch {
	case indexPath == "":
		index, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	default:
		index, err = bleve.Open(indexPath)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			index, err = bleve.New(indexPath, buildIndexMapping())
			if err != nil {
				return nil, fmt.Errorf("failed to create index: %w", err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to open index: %w", err)
		} else {
			log.Debug().Str("path", indexPath).Msg("opened existing index")
		}
	}

	batch := index.NewBatch()
	for _, stock := range stocks {
		// The same symbol can be listed on NSE and BSE.
		id := fmt.Sprintf("%s-%s", stock.Symbol, stock.Exchange)
		if err := batch.Index(id, stock); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add to batch: %w", err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}
	log.Info().Int("stocks", len(stocks)).Str("path", indexPath).Msg("indexed catalog")

	return &BleveEngine{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Symbols and exchanges are matched whole: "BAJAJ-AUTO" is one term.
	if err := indexMapping.AddCustomAnalyzer(keywordAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		panic(err)
	}

	stockMapping := bleve.NewDocumentMapping()

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keywordAnalyzer
	keywordFieldMapping.Store = true
	stockMapping.AddFieldMappingsAt("symbol", keywordFieldMapping)
	stockMapping.AddFieldMappingsAt("exchange", keywordFieldMapping)

	popularityFieldMapping := bleve.NewNumericFieldMapping()
	popularityFieldMapping.Store = true
	popularityFieldMapping.Index = true
	stockMapping.AddFieldMappingsAt("popularity_score", popularityFieldMapping)

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true
	textFieldMapping.Index = true
	for _, field := range []string{"name", "type", "brand", "sector", "industry", "tags"} {
		stockMapping.AddFieldMappingsAt(field, textFieldMapping)
	}

	indexMapping.AddDocumentMapping("_default", stockMapping)
	return indexMapping
}

// Search ranks exact symbol matches first, then symbol prefixes, name matches
// and substring matches on symbol, name and brand, blended with popularity.
func (e *BleveEngine) Search(query string) []models.Stock {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	lower := strings.ToLower(query)

	exactQuery := bleve.NewTermQuery(lower)
	exactQuery.SetField("symbol")
	exactQuery.SetBoost(10.0)

	prefixQuery := bleve.NewPrefixQuery(lower)
	prefixQuery.SetField("symbol")
	prefixQuery.SetBoost(5.0)

	nameMatchQuery := bleve.NewMatchQuery(query)
	nameMatchQuery.SetField("name")
	nameMatchQuery.SetBoost(3.0)

	wildcardSymbol := bleve.NewWildcardQuery("*" + lower + "*")
	wildcardSymbol.SetField("symbol")
	wildcardSymbol.SetBoost(2.0)

	wildcardName := bleve.NewWildcardQuery("*" + lower + "*")
	wildcardName.SetField("name")
	wildcardName.SetBoost(1.5)

	wildcardBrand := bleve.NewWildcardQuery("*" + lower + "*")
	wildcardBrand.SetField("brand")
	wildcardBrand.SetBoost(1.0)

	searchQuery := bleve.NewDisjunctionQuery(
		exactQuery,
		prefixQuery,
		nameMatchQuery,
		wildcardSymbol,
		wildcardName,
		wildcardBrand,
	)

	searchRequest := bleve.NewSearchRequest(searchQuery)
	searchRequest.Fields = stockFields
	searchRequest.Size = 100

	searchResults, err := e.index.Search(searchRequest)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("search failed")
		return nil
	}

	type scoredStock struct {
		stock models.Stock
		score float64
	}
	scored := make([]scoredStock, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		stock := stockFromFields(hit.Fields)
		// Relevance is primary, popularity breaks near-ties.
		scored = append(scored, scoredStock{
			stock: stock,
			score: hit.Score*0.7 + stock.PopularityScore*0.3,
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

func (e *BleveEngine) GetBySymbol(symbol string) *models.Stock {
	termQuery := bleve.NewTermQuery(strings.ToLower(symbol))
	termQuery.SetField("symbol")
	return e.first(termQuery)
}

func (e *BleveEngine) GetStock(symbol, exchange string) *models.Stock {
	if exchange != "" {
		symbolQuery := bleve.NewTermQuery(strings.ToLower(symbol))
		symbolQuery.SetField("symbol")

		exchangeQuery := bleve.NewTermQuery(strings.ToLower(exchange))
		exchangeQuery.SetField("exchange")

		if stock := e.first(bleve.NewConjunctionQuery(symbolQuery, exchangeQuery)); stock != nil {
			return stock
		}
	}
	// Fallback to GetBySymbol if exchange is empty or not found
	return e.GetBySymbol(symbol)
}

func (e *BleveEngine) first(q blevequery.Query) *models.Stock {
	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Fields = stockFields
	searchRequest.Size = 1

	searchResults, err := e.index.Search(searchRequest)
	if err != nil || len(searchResults.Hits) == 0 {
		return nil
	}
	stock := stockFromFields(searchResults.Hits[0].Fields)
	return &stock
}

func (e *BleveEngine) Close() error {
	return e.index.Close()
}

func stockFromFields(fields map[string]interface{}) models.Stock {
	getString := func(key string) string {
		if val, ok := fields[key].(string); ok {
			return val
		}
		return ""
	}
	getFloat := func(key string) float64 {
		if val, ok := fields[key].(float64); ok {
			return val
		}
		return 0.0
	}
	return models.Stock{
		Symbol:          getString("symbol"),
		Name:            getString("name"),
		Exchange:        getString("exchange"),
		Type:            getString("type"),
		Brand:           getString("brand"),
		Sector:          getString("sector"),
		Industry:        getString("industry"),
		Tags:            getString("tags"),
		PopularityScore: getFloat("popularity_score"),
	}
}
