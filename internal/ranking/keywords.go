package ranking

// PriceComparison is the direction of a special keyword's price test.
type PriceComparison int

const (
	// PriceBelow matches products priced strictly below the threshold.
	PriceBelow PriceComparison = iota
	// PriceAbove matches products priced strictly above the threshold.
	PriceAbove
)

// SpecialKeyword maps a query word such as "cheap" to a price predicate.
type SpecialKeyword struct {
	Keyword    string
	Comparison PriceComparison
	Threshold  float64
}

// Matches reports whether price satisfies the keyword's predicate.
func (k SpecialKeyword) Matches(price float64) bool {
	switch k.Comparison {
	case PriceBelow:
		return price < k.Threshold
	case PriceAbove:
		return price > k.Threshold
	default:
		return false
	}
}

// SpecialKeywords returns the fixed, ordered keyword table for the given thresholds.
func SpecialKeywords(t PriceThresholds) []SpecialKeyword {
	return []SpecialKeyword{
		{Keyword: "cheap", Comparison: PriceBelow, Threshold: t.Cheap},
		{Keyword: "expensive", Comparison: PriceAbove, Threshold: t.Expensive},
		{Keyword: "affordable", Comparison: PriceBelow, Threshold: t.Affordable},
		{Keyword: "premium", Comparison: PriceAbove, Threshold: t.Premium},
		{Keyword: "budget", Comparison: PriceBelow, Threshold: t.Budget},
	}
}

// lookupKeyword returns the table entry whose keyword equals term exactly.
func lookupKeyword(table []SpecialKeyword, term string) (SpecialKeyword, bool) {
	for _, k := range table {
		if k.Keyword == term {
			return k, true
		}
	}
	return SpecialKeyword{}, false
}
