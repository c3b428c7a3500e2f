// Package search runs product search, suggestions and branch listings over the
// live catalog.
package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/catalog"
	"github.com/hyperjump/studentgear/internal/config"
	"github.com/hyperjump/studentgear/internal/metrics"
	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/internal/ranking"
)

// SnapshotSource provides the current catalog view.
type SnapshotSource interface {
	Snapshot() *catalog.Snapshot
}

// Engine answers search requests against whatever snapshot is current when the
// request starts.
type Engine struct {
	source  SnapshotSource
	ranker  *ranking.Ranker
	config  *config.SearchConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewEngine creates a search engine over source.
func NewEngine(source SnapshotSource, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	rankingCfg := cfg.Ranking
	return &Engine{
		source: source,
		ranker: ranking.NewRanker(&rankingCfg),
		config: cfg,
		logger: logger,
	}
}

// WithMetrics records search counters and latencies on m.
func (e *Engine) WithMetrics(m *metrics.Metrics) *Engine {
	e.metrics = m
	return e
}

// WithClock sets the time source for the recency boost.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.ranker.WithClock(now)
	return e
}

// Search ranks the catalog for query. A query that equals a branch code lists
// that branch instead. An empty query returns no products.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	query.Normalize(e.config.DefaultLimit, e.config.MaxLimit)
	snap := e.source.Snapshot()

	response := &models.SearchResponse{Query: query.Query}
	kind := "search"

	var matches []*models.Product
	if b, ok := snap.Branch(query.Query); ok {
		kind = "branch"
		response.Branch = b.Code
		matches = snap.BranchProducts(b.Code)
	} else {
		matches = e.ranker.Search(query.Query, snap.Products())
	}

	response.Total = len(matches)
	response.Products = page(matches, query.Offset, query.Limit)
	response.QueryTime = time.Since(startTime).Milliseconds()

	e.metrics.ObserveSearch(kind, response.Total, time.Since(startTime).Seconds())
	e.logger.Debug("search",
		zap.String("query", query.Query),
		zap.String("kind", kind),
		zap.Int("total", response.Total),
	)
	return response, nil
}

// Suggest returns a short preview of the best matches. Queries shorter than the
// configured minimum return nothing.
func (e *Engine) Suggest(ctx context.Context, query string) ([]*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < e.config.SuggestMinChars {
		return []*models.Product{}, nil
	}
	results := e.ranker.Rank(q, e.source.Snapshot().Products())
	products := ranking.Products(ranking.TopN(results, e.config.SuggestLimit))
	e.metrics.ObserveSearch("suggest", len(products), time.Since(startTime).Seconds())
	return products, nil
}

// Explain returns a page of ranked results with their score breakdowns, for
// debugging the ranking table. A non-positive limit returns every result from
// offset on.
func (e *Engine) Explain(ctx context.Context, query string, offset, limit int) ([]*ranking.RankedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := e.ranker.Rank(query, e.source.Snapshot().Products())
	if page := ranking.Paginate(results, offset, limit); page != nil {
		return page, nil
	}
	return []*ranking.RankedResult{}, nil
}

// page copies products[offset:offset+limit], clamped to the slice. Large offsets
// and limits are safe; the end is never computed as offset+limit directly.
func page(products []*models.Product, offset, limit int) []*models.Product {
	n := len(products)
	start := offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if limit >= 0 && limit < n-start {
		end = start + limit
	}
	out := make([]*models.Product, end-start)
	copy(out, products[start:end])
	return out
}

// pageOffset returns the index of the first product on page pageNum (1-based),
// or n when the page starts past the end.
func pageOffset(pageNum, pageSize, n int) int {
	if pageNum-1 > n/pageSize {
		return n
	}
	return (pageNum - 1) * pageSize
}

// pageCount returns how many pages of pageSize hold n products.
func pageCount(n, pageSize int) int {
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}
