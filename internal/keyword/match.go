package keyword

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Tokenize trims and lowercases query and splits it on whitespace. The returned
// terms are non-empty and keep their query order.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// WordMatcher reports whole-word occurrences of a single term. The term is quoted,
// so punctuation in queries ("usb-c", "24\"") is matched literally.
type WordMatcher struct {
	re *regexp.Regexp
}

// NewWordMatcher compiles a matcher for term delimited by non-word characters or
// string edges.
func NewWordMatcher(term string) *WordMatcher {
	return &WordMatcher{re: regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)}
}

// Match reports whether the term occurs in text as a whole word.
func (m *WordMatcher) Match(text string) bool {
	if m == nil || text == "" {
		return false
	}
	return m.re.MatchString(text)
}

// ExtractNumber returns the first decimal number found in s.
func ExtractNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsNumber reports whether s is a plain decimal number such as "40000" or "999.5".
func IsNumber(s string) bool {
	return s != "" && numberPattern.FindString(s) == s
}
