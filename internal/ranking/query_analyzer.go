package ranking

import (
	"strings"

	"github.com/hyperjump/studentgear/internal/keyword"
)

var priceQualifiers = []string{"under", "below"}

// QueryAnalyzer turns raw query strings into analyzed terms.
type QueryAnalyzer struct {
	keywords []SpecialKeyword
}

// NewQueryAnalyzer creates an analyzer that recognizes the given special keywords.
func NewQueryAnalyzer(keywords []SpecialKeyword) *QueryAnalyzer {
	return &QueryAnalyzer{keywords: keywords}
}

// Analyze lowercases and splits query on whitespace.
//
// A term containing "under" or "below" together with a number earns the price
// qualifier points for products at or below that number. Only a qualifier proper
// limits the whole query to that price: the bare word followed by a number
// ("under 5000") or the word joined to one ("under5000"). Words that merely
// contain a qualifier, such as "thunderbolt", never cap prices.
func (a *QueryAnalyzer) Analyze(query string) *AnalyzedQuery {
	tokens := keyword.Tokenize(query)
	q := &AnalyzedQuery{
		Original: query,
		Terms:    make([]Term, 0, len(tokens)),
	}

	for i, tok := range tokens {
		term := Term{
			Text: tok,
			word: keyword.NewWordMatcher(tok),
		}
		if containsQualifier(tok) {
			if n, ok := keyword.ExtractNumber(tok); ok {
				term.PriceLimit, term.HasPriceLimit = n, true
				term.CapsPrice = isJoinedQualifier(tok)
			} else if isQualifier(tok) && i+1 < len(tokens) && keyword.IsNumber(tokens[i+1]) {
				n, _ := keyword.ExtractNumber(tokens[i+1])
				term.PriceLimit, term.HasPriceLimit = n, true
				term.CapsPrice = true
			}
		}
		if k, ok := lookupKeyword(a.keywords, tok); ok {
			term.Special = &k
		}
		q.Terms = append(q.Terms, term)
	}

	return q
}

func containsQualifier(term string) bool {
	for _, q := range priceQualifiers {
		if strings.Contains(term, q) {
			return true
		}
	}
	return false
}

func isQualifier(term string) bool {
	for _, q := range priceQualifiers {
		if term == q {
			return true
		}
	}
	return false
}

// isJoinedQualifier matches "under40000" and "below999.5".
func isJoinedQualifier(term string) bool {
	for _, q := range priceQualifiers {
		if strings.HasPrefix(term, q) && keyword.IsNumber(term[len(q):]) {
			return true
		}
	}
	return false
}
