package ranking

import (
	"sort"
	"time"

	"github.com/hyperjump/studentgear/internal/models"
)

// Ranker combines the term scorer and multipliers to rank products.
type Ranker struct {
	config      *RankingConfig
	analyzer    *QueryAnalyzer
	termScorer  *TermScorer
	multipliers []Multiplier
	now         func() time.Time
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:      config,
		analyzer:    NewQueryAnalyzer(SpecialKeywords(config.PriceThresholds)),
		termScorer:  NewTermScorer(config),
		multipliers: DefaultMultipliers(config),
		now:         time.Now,
	}
}

// WithClock sets the time source used for the recency boost.
func (r *Ranker) WithClock(now func() time.Time) *Ranker {
	r.now = now
	return r
}

// WithMultipliers sets custom multipliers.
func (r *Ranker) WithMultipliers(multipliers []Multiplier) *Ranker {
	r.multipliers = multipliers
	return r
}

// AnalyzeQuery parses and analyzes a query string.
func (r *Ranker) AnalyzeQuery(query string) *AnalyzedQuery {
	return r.analyzer.Analyze(query)
}

// Score computes the breakdown and final score for a single product.
func (r *Ranker) Score(query *AnalyzedQuery, p *models.Product) *ScoreBreakdown {
	return r.score(query, p, r.now())
}

func (r *Ranker) score(query *AnalyzedQuery, p *models.Product, now time.Time) *ScoreBreakdown {
	breakdown := NewScoreBreakdown()
	if query.IsEmpty() || p == nil {
		return breakdown
	}

	text := newProductText(p)
	for i := range query.Terms {
		breakdown.add(r.termScorer.Score(&query.Terms[i], p, text))
	}

	// A price qualifier only refines products that matched on something else.
	if breakdown.MatchScore() <= 0 {
		breakdown.PriceQualifier = 0
	}

	base := breakdown.BaseScore()
	ctx := &ScoringContext{Product: p, Now: now}
	score := base
	for _, m := range r.multipliers {
		prev := score
		score = m.Multiply(ctx, score)
		if prev != 0 {
			breakdown.Multipliers[m.Name()] = score / prev
		} else {
			breakdown.Multipliers[m.Name()] = 1.0
		}
	}
	breakdown.FinalScore = score
	return breakdown
}

// Rank scores products against query and returns those with a positive score,
// best first. Products reachable more than once in the input are scored once, and
// equal scores keep input order.
func (r *Ranker) Rank(query string, products []*models.Product) []*RankedResult {
	return r.RankWithQuery(r.AnalyzeQuery(query), products)
}

// RankWithQuery ranks products using a pre-analyzed query.
func (r *Ranker) RankWithQuery(query *AnalyzedQuery, products []*models.Product) []*RankedResult {
	if query.IsEmpty() {
		return []*RankedResult{}
	}

	now := r.now()
	priceCap, capped := query.PriceCap()
	seen := make(map[*models.Product]struct{}, len(products))
	results := make([]*RankedResult, 0, len(products))

	for _, p := range products {
		if p == nil {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		if capped && p.Price > priceCap {
			continue
		}
		breakdown := r.score(query, p, now)
		if breakdown.FinalScore <= 0 {
			continue
		}
		results = append(results, &RankedResult{
			Product:   p,
			Score:     breakdown.FinalScore,
			Position:  len(seen) - 1,
			Breakdown: breakdown,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Search returns the ranked products only.
func (r *Ranker) Search(query string, products []*models.Product) []*models.Product {
	return Products(r.Rank(query, products))
}

// Products strips scores from ranked results.
func Products(results []*RankedResult) []*models.Product {
	out := make([]*models.Product, len(results))
	for i, res := range results {
		out[i] = res.Product
	}
	return out
}

// TopN returns the top N results.
func TopN(results []*RankedResult, n int) []*RankedResult {
	if n >= len(results) {
		return results
	}
	if n < 0 {
		n = 0
	}
	return results[:n]
}

// Paginate returns up to limit results starting at offset. A non-positive limit
// returns everything from offset on.
func Paginate(results []*RankedResult, offset, limit int) []*RankedResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return nil
	}
	end := len(results)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return results[offset:end]
}
