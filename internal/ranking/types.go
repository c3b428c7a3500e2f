// Package ranking scores catalog products against free-text queries.
//
// Each query term is checked against the product independently and every rule it
// triggers adds points (exact name or alias, category or badge, whole-word and
// substring hits, price qualifiers, special price keywords, fuzzy name match).
// Boosts for affiliate links, recency and popularity multiply the summed score.
package ranking

import (
	"time"

	"github.com/hyperjump/studentgear/internal/keyword"
	"github.com/hyperjump/studentgear/internal/models"
)

// Term is one analyzed query token.
type Term struct {
	// Text is the lowercased token.
	Text string
	// PriceLimit is the ceiling carried by an "under"/"below" qualifier.
	PriceLimit float64
	// HasPriceLimit is true when Text is a price qualifier with a number.
	HasPriceLimit bool
	// CapsPrice is true when the qualifier limits the whole query to PriceLimit.
	CapsPrice bool
	// Special is set when Text is one of the special price keywords.
	Special *SpecialKeyword

	word *keyword.WordMatcher
}

// AnalyzedQuery holds the parsed form of a search query.
type AnalyzedQuery struct {
	// Original is the query as received.
	Original string
	// Terms are the tokens in query order.
	Terms []Term
}

// IsEmpty reports whether the query produced no terms.
func (q *AnalyzedQuery) IsEmpty() bool {
	return q == nil || len(q.Terms) == 0
}

// PriceCap returns the lowest price ceiling named by a qualifier in the query, if
// any. Products priced above it are left out of the results.
func (q *AnalyzedQuery) PriceCap() (float64, bool) {
	if q == nil {
		return 0, false
	}
	capValue, found := 0.0, false
	for _, t := range q.Terms {
		if !t.HasPriceLimit || !t.CapsPrice {
			continue
		}
		if !found || t.PriceLimit < capValue {
			capValue = t.PriceLimit
			found = true
		}
	}
	return capValue, found
}

// ScoringContext carries what multipliers need to boost a product's score.
type ScoringContext struct {
	Product *models.Product
	Now     time.Time
}

// Multiplier is the interface for score boosts applied after the term loop.
type Multiplier interface {
	// Multiply applies the boost to score.
	Multiply(ctx *ScoringContext, score float64) float64
	// Name returns the multiplier name for breakdowns and logging.
	Name() string
}

// ScoreBreakdown itemizes how a product's final score was reached.
type ScoreBreakdown struct {
	ExactName            float64 `json:"exact_name"`
	ExactCategory        float64 `json:"exact_category"`
	NameWord             float64 `json:"name_word"`
	DescriptionWord      float64 `json:"description_word"`
	NameSubstring        float64 `json:"name_substring"`
	CategorySubstring    float64 `json:"category_substring"`
	DescriptionSubstring float64 `json:"description_substring"`
	PriceQualifier       float64 `json:"price_qualifier"`
	SpecialKeyword       float64 `json:"special_keyword"`
	Fuzzy                float64 `json:"fuzzy"`

	// Multipliers holds the boost factors that were applied, by name.
	Multipliers map[string]float64 `json:"multipliers,omitempty"`
	// FinalScore is the score after all boosts.
	FinalScore float64 `json:"final_score"`
}

// NewScoreBreakdown creates an empty breakdown.
func NewScoreBreakdown() *ScoreBreakdown {
	return &ScoreBreakdown{Multipliers: make(map[string]float64)}
}

// MatchScore sums every additive contribution except the price qualifier.
func (b *ScoreBreakdown) MatchScore() float64 {
	return b.ExactName + b.ExactCategory + b.NameWord + b.DescriptionWord +
		b.NameSubstring + b.CategorySubstring + b.DescriptionSubstring +
		b.SpecialKeyword + b.Fuzzy
}

// BaseScore is the additive score before multipliers.
func (b *ScoreBreakdown) BaseScore() float64 {
	return b.MatchScore() + b.PriceQualifier
}

func (b *ScoreBreakdown) add(o *ScoreBreakdown) {
	b.ExactName += o.ExactName
	b.ExactCategory += o.ExactCategory
	b.NameWord += o.NameWord
	b.DescriptionWord += o.DescriptionWord
	b.NameSubstring += o.NameSubstring
	b.CategorySubstring += o.CategorySubstring
	b.DescriptionSubstring += o.DescriptionSubstring
	b.PriceQualifier += o.PriceQualifier
	b.SpecialKeyword += o.SpecialKeyword
	b.Fuzzy += o.Fuzzy
}

// RankedResult pairs a product with its computed score. Position is the product's
// index in the ranked input and breaks score ties.
type RankedResult struct {
	Product   *models.Product `json:"product"`
	Score     float64         `json:"score"`
	Position  int             `json:"position"`
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}
