package ranking

import "time"

// AffiliateMultiplier boosts products that carry marketplace links.
type AffiliateMultiplier struct {
	config *RankingConfig
}

// NewAffiliateMultiplier creates a new AffiliateMultiplier.
func NewAffiliateMultiplier(config *RankingConfig) *AffiliateMultiplier {
	return &AffiliateMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *AffiliateMultiplier) Name() string {
	return "affiliate"
}

// Multiply applies the affiliate boost.
func (m *AffiliateMultiplier) Multiply(ctx *ScoringContext, score float64) float64 {
	if ctx.Product == nil || !ctx.Product.Affiliates.Any() {
		return score
	}
	return score * m.config.AffiliateMultiplier
}

// RecencyMultiplier boosts products added within the recency window.
type RecencyMultiplier struct {
	config *RankingConfig
}

// NewRecencyMultiplier creates a new RecencyMultiplier.
func NewRecencyMultiplier(config *RankingConfig) *RecencyMultiplier {
	return &RecencyMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *RecencyMultiplier) Name() string {
	return "recency"
}

// Multiply applies the recency boost. Products without a date get none.
func (m *RecencyMultiplier) Multiply(ctx *ScoringContext, score float64) float64 {
	if ctx.Product == nil || ctx.Product.DateAdded == nil {
		return score
	}
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	window := time.Duration(m.config.RecencyWindowDays) * 24 * time.Hour
	if now.Sub(*ctx.Product.DateAdded) < window {
		return score * m.config.RecencyMultiplier
	}
	return score
}

// PopularityMultiplier boosts products whose popularity exceeds the threshold.
type PopularityMultiplier struct {
	config *RankingConfig
}

// NewPopularityMultiplier creates a new PopularityMultiplier.
func NewPopularityMultiplier(config *RankingConfig) *PopularityMultiplier {
	return &PopularityMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *PopularityMultiplier) Name() string {
	return "popularity"
}

// Multiply applies the popularity boost.
func (m *PopularityMultiplier) Multiply(ctx *ScoringContext, score float64) float64 {
	if ctx.Product == nil || ctx.Product.Popularity <= m.config.PopularityThreshold {
		return score
	}
	return score * m.config.PopularityMultiplier
}

// DefaultMultipliers returns the affiliate, recency and popularity boosts.
func DefaultMultipliers(config *RankingConfig) []Multiplier {
	return []Multiplier{
		NewAffiliateMultiplier(config),
		NewRecencyMultiplier(config),
		NewPopularityMultiplier(config),
	}
}
