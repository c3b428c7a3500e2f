package ranking

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/studentgear/internal/keyword"
	"github.com/hyperjump/studentgear/internal/models"
)

// productText is the case-folded view of a product used for matching.
type productText struct {
	name        string
	nameLen     int
	description string
	category    string
	badge       string
	aliases     []string
}

func newProductText(p *models.Product) *productText {
	aliases := make([]string, 0, len(p.Aliases))
	for _, a := range p.Aliases {
		aliases = append(aliases, strings.ToLower(a))
	}
	name := strings.ToLower(p.Name)
	return &productText{
		name:        name,
		nameLen:     utf8.RuneCountInString(name),
		description: strings.ToLower(p.Description),
		category:    strings.ToLower(p.Category),
		badge:       strings.ToLower(p.Badge),
		aliases:     aliases,
	}
}

func (t *productText) hasAlias(term string) bool {
	for _, a := range t.aliases {
		if a == term {
			return true
		}
	}
	return false
}

// TermScorer applies the per-term rule table to a product.
type TermScorer struct {
	config *RankingConfig
}

// NewTermScorer creates a TermScorer.
func NewTermScorer(config *RankingConfig) *TermScorer {
	return &TermScorer{config: config}
}

// Score returns the contributions a single term earns against p. Rules are
// independent; a term can trigger several of them at once.
func (s *TermScorer) Score(term *Term, p *models.Product, text *productText) *ScoreBreakdown {
	b := &ScoreBreakdown{}
	t := term.Text
	if t == "" {
		return b
	}
	cfg := s.config

	if text.name == t || text.hasAlias(t) {
		b.ExactName = cfg.ExactNameScore
	}
	if text.category == t || text.badge == t {
		b.ExactCategory = cfg.ExactCategoryScore
	}

	if term.word == nil {
		term.word = keyword.NewWordMatcher(t)
	}
	if term.word.Match(text.name) {
		b.NameWord = cfg.NameWordScore
	}
	if term.word.Match(text.description) {
		b.DescriptionWord = cfg.DescriptionWordScore
	}

	if strings.Contains(text.name, t) {
		b.NameSubstring = cfg.NameSubstringScore
	}
	if strings.Contains(text.category, t) || strings.Contains(text.badge, t) {
		b.CategorySubstring = cfg.CategorySubstringScore
	}
	if strings.Contains(text.description, t) {
		b.DescriptionSubstring = cfg.DescriptionSubstringScore
	}

	if term.HasPriceLimit && p.Price <= term.PriceLimit {
		b.PriceQualifier = cfg.PriceQualifierScore
	}
	if term.Special != nil && term.Special.Matches(p.Price) {
		b.SpecialKeyword = cfg.SpecialKeywordScore
	}

	b.Fuzzy = s.fuzzyScore(t, text)
	return b
}

// fuzzyScore compares the term against the full product name only.
func (s *TermScorer) fuzzyScore(term string, text *productText) float64 {
	if text.name == "" {
		return 0
	}
	dist := keyword.LevenshteinDistance(term, text.name)
	limit := int(math.Floor(float64(text.nameLen) * s.config.FuzzyLengthRatio))
	if limit < s.config.FuzzyMinDistance {
		limit = s.config.FuzzyMinDistance
	}
	if dist > limit {
		return 0
	}
	return math.Max(0, s.config.FuzzyMaxScore-float64(dist)*s.config.FuzzyStepPenalty)
}
