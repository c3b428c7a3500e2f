package ranking

// RankingConfig holds the point table and boosts used to rank products.
// Zero values are replaced by defaults in ApplyDefaults.
type RankingConfig struct {
	// Per-term additive contributions
	ExactNameScore            float64 `yaml:"exact_name_score"`            // default: 100
	ExactCategoryScore        float64 `yaml:"exact_category_score"`        // default: 80
	NameWordScore             float64 `yaml:"name_word_score"`             // default: 70
	DescriptionWordScore      float64 `yaml:"description_word_score"`      // default: 40
	NameSubstringScore        float64 `yaml:"name_substring_score"`        // default: 60
	CategorySubstringScore    float64 `yaml:"category_substring_score"`    // default: 50
	DescriptionSubstringScore float64 `yaml:"description_substring_score"` // default: 30
	PriceQualifierScore       float64 `yaml:"price_qualifier_score"`       // default: 45
	SpecialKeywordScore       float64 `yaml:"special_keyword_score"`       // default: 40

	// Fuzzy name matching
	FuzzyMaxScore    float64 `yaml:"fuzzy_max_score"`    // default: 40
	FuzzyStepPenalty float64 `yaml:"fuzzy_step_penalty"` // default: 10
	FuzzyMinDistance int     `yaml:"fuzzy_min_distance"` // default: 2
	FuzzyLengthRatio float64 `yaml:"fuzzy_length_ratio"` // default: 0.2

	// Multiplicative boosts
	AffiliateMultiplier  float64 `yaml:"affiliate_multiplier"`  // default: 1.1
	RecencyWindowDays    int     `yaml:"recency_window_days"`   // default: 30
	RecencyMultiplier    float64 `yaml:"recency_multiplier"`    // default: 1.05
	PopularityThreshold  float64 `yaml:"popularity_threshold"`  // default: 500
	PopularityMultiplier float64 `yaml:"popularity_multiplier"` // default: 1.05

	// Price predicates behind the special keywords (cheap, expensive, ...)
	PriceThresholds PriceThresholds `yaml:"price_thresholds"`
}

// PriceThresholds are the price limits for the special keywords, in catalog currency.
type PriceThresholds struct {
	Cheap      float64 `yaml:"cheap"`      // price < 5000
	Expensive  float64 `yaml:"expensive"`  // price > 50000
	Affordable float64 `yaml:"affordable"` // price < 15000
	Premium    float64 `yaml:"premium"`    // price > 30000
	Budget     float64 `yaml:"budget"`     // price < 10000
}

// DefaultPriceThresholds returns the thresholds for the rupee-priced demo catalog.
func DefaultPriceThresholds() PriceThresholds {
	return PriceThresholds{
		Cheap:      5000,
		Expensive:  50000,
		Affordable: 15000,
		Premium:    30000,
		Budget:     10000,
	}
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		ExactNameScore:            100,
		ExactCategoryScore:        80,
		NameWordScore:             70,
		DescriptionWordScore:      40,
		NameSubstringScore:        60,
		CategorySubstringScore:    50,
		DescriptionSubstringScore: 30,
		PriceQualifierScore:       45,
		SpecialKeywordScore:       40,

		FuzzyMaxScore:    40,
		FuzzyStepPenalty: 10,
		FuzzyMinDistance: 2,
		FuzzyLengthRatio: 0.2,

		AffiliateMultiplier:  1.1,
		RecencyWindowDays:    30,
		RecencyMultiplier:    1.05,
		PopularityThreshold:  500,
		PopularityMultiplier: 1.05,

		PriceThresholds: DefaultPriceThresholds(),
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()

	setFloat := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}

	setFloat(&c.ExactNameScore, defaults.ExactNameScore)
	setFloat(&c.ExactCategoryScore, defaults.ExactCategoryScore)
	setFloat(&c.NameWordScore, defaults.NameWordScore)
	setFloat(&c.DescriptionWordScore, defaults.DescriptionWordScore)
	setFloat(&c.NameSubstringScore, defaults.NameSubstringScore)
	setFloat(&c.CategorySubstringScore, defaults.CategorySubstringScore)
	setFloat(&c.DescriptionSubstringScore, defaults.DescriptionSubstringScore)
	setFloat(&c.PriceQualifierScore, defaults.PriceQualifierScore)
	setFloat(&c.SpecialKeywordScore, defaults.SpecialKeywordScore)

	setFloat(&c.FuzzyMaxScore, defaults.FuzzyMaxScore)
	setFloat(&c.FuzzyStepPenalty, defaults.FuzzyStepPenalty)
	if c.FuzzyMinDistance == 0 {
		c.FuzzyMinDistance = defaults.FuzzyMinDistance
	}
	setFloat(&c.FuzzyLengthRatio, defaults.FuzzyLengthRatio)

	setFloat(&c.AffiliateMultiplier, defaults.AffiliateMultiplier)
	if c.RecencyWindowDays == 0 {
		c.RecencyWindowDays = defaults.RecencyWindowDays
	}
	setFloat(&c.RecencyMultiplier, defaults.RecencyMultiplier)
	setFloat(&c.PopularityThreshold, defaults.PopularityThreshold)
	setFloat(&c.PopularityMultiplier, defaults.PopularityMultiplier)

	setFloat(&c.PriceThresholds.Cheap, defaults.PriceThresholds.Cheap)
	setFloat(&c.PriceThresholds.Expensive, defaults.PriceThresholds.Expensive)
	setFloat(&c.PriceThresholds.Affordable, defaults.PriceThresholds.Affordable)
	setFloat(&c.PriceThresholds.Premium, defaults.PriceThresholds.Premium)
	setFloat(&c.PriceThresholds.Budget, defaults.PriceThresholds.Budget)
}
