package ranking

import (
	"testing"

	"github.com/hyperjump/studentgear/internal/models"
)

func TestTermScorer_Score(t *testing.T) {
	config := DefaultRankingConfig()
	scorer := NewTermScorer(config)
	analyzer := NewQueryAnalyzer(SpecialKeywords(config.PriceThresholds))

	tests := []struct {
		name    string
		term    string
		product *models.Product
		check   func(b *ScoreBreakdown) bool
		want    float64
	}{
		{
			name:    "alias exact stacks with name word and substring",
			term:    "keyboard",
			product: &models.Product{Name: "Mechanical Keyboard", Aliases: []string{"Keyboard"}},
			want:    100 + 70 + 60,
		},
		{
			name:    "badge exact and substring",
			term:    "kit",
			product: &models.Product{Name: "Breadboard Set", Badge: "Kit"},
			want:    80 + 50,
		},
		{
			name:    "category substring only",
			term:    "laptop",
			product: &models.Product{Name: "Acer Aspire 5", Category: "Laptops"},
			want:    50,
		},
		{
			name:    "description word and substring",
			term:    "datasets",
			product: &models.Product{Name: "Portable SSD 1TB", Description: "Fast NVMe portable SSD for datasets."},
			want:    40 + 30,
		},
		{
			name:    "description substring without word boundary",
			term:    "data",
			product: &models.Product{Name: "Portable SSD 1TB", Description: "Fast NVMe portable SSD for datasets."},
			want:    30,
		},
		{
			name:    "name substring without word boundary",
			term:    "board",
			product: &models.Product{Name: "Breadboard Kit"},
			want:    60,
		},
		{
			name:    "fuzzy one edit on short name",
			term:    "hubb",
			product: &models.Product{Name: "Hub"},
			want:    30,
		},
		{
			name:    "fuzzy exact short name",
			term:    "g15",
			product: &models.Product{Name: "G15"},
			want:    100 + 70 + 60 + 40,
		},
		{
			name:    "special keyword predicate holds",
			term:    "budget",
			product: &models.Product{Name: "Multimeter Pro", Price: 1999},
			want:    40,
		},
		{
			name:    "special keyword predicate fails",
			term:    "budget",
			product: &models.Product{Name: "Multimeter Pro", Price: 19999},
			want:    0,
		},
		{
			name:    "no match",
			term:    "oscilloscope",
			product: &models.Product{Name: "Webcam 1080p", Description: "HD webcam for online classes."},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := analyzer.Analyze(tt.term)
			b := scorer.Score(&q.Terms[0], tt.product, newProductText(tt.product))
			if got := b.BaseScore(); got != tt.want {
				t.Errorf("score = %v, want %v (%+v)", got, tt.want, b)
			}
		})
	}
}

func TestTermScorer_FuzzyThreshold(t *testing.T) {
	scorer := NewTermScorer(DefaultRankingConfig())

	tests := []struct {
		name string
		term string
		prod string
		want float64
	}{
		// len 17 -> limit max(2, 3) = 3
		{"three edits on long name", "soldering stat", "soldering station", 10},
		{"five edits on long name", "soldering st", "soldering station", 0},
		// len 3 -> limit 2
		{"two edits on short name", "hbx", "hub", 20},
		{"three edits on short name", "xyz", "hub", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := newProductText(&models.Product{Name: tt.prod})
			if got := scorer.fuzzyScore(tt.term, text); got != tt.want {
				t.Errorf("fuzzyScore(%q, %q) = %v, want %v", tt.term, tt.prod, got, tt.want)
			}
		})
	}
}
