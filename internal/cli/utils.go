// Package cli provides output helpers for the studentgear command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/studentgear/internal/marketplace"
	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/internal/ranking"
	"github.com/hyperjump/studentgear/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q (use text or json)", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	if response.Branch != "" {
		fmt.Fprintf(w, "\nBranch %s: %d products\n\n", response.Branch, response.Total)
	} else {
		fmt.Fprintf(w, "\nFound %d products in %dms\n\n", response.Total, response.QueryTime)
	}
	for i, p := range response.Products {
		writeProduct(w, i+1, p)
	}
	return nil
}

// WriteProducts writes a plain product list, e.g. suggestions.
func WriteProducts(w io.Writer, products []*models.Product, format OutputFormat) error {
	if format == OutputJSON {
		if products == nil {
			products = []*models.Product{}
		}
		return writeJSON(w, products)
	}
	if len(products) == 0 {
		fmt.Fprintln(w, "No suggestions")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(w, "%s  ₹%s\n", p.Name, utils.FormatINR(p.Price))
	}
	return nil
}

// WriteExplain writes ranked results with their score breakdowns.
func WriteExplain(w io.Writer, results []*ranking.RankedResult, format OutputFormat) error {
	if format == OutputJSON {
		if results == nil {
			results = []*ranking.RankedResult{}
		}
		return writeJSON(w, results)
	}
	for i, r := range results {
		writeProduct(w, i+1, r.Product)
		fmt.Fprintf(w, "Score: %.2f\n", r.Score)
		if b := r.Breakdown; b != nil {
			for _, part := range []struct {
				name  string
				value float64
			}{
				{"exact name/alias", b.ExactName},
				{"exact category/badge", b.ExactCategory},
				{"name word", b.NameWord},
				{"description word", b.DescriptionWord},
				{"name substring", b.NameSubstring},
				{"category/badge substring", b.CategorySubstring},
				{"description substring", b.DescriptionSubstring},
				{"price qualifier", b.PriceQualifier},
				{"special keyword", b.SpecialKeyword},
				{"fuzzy", b.Fuzzy},
			} {
				if part.value != 0 {
					fmt.Fprintf(w, "  %-26s %+.1f\n", part.name, part.value)
				}
			}
			for name, factor := range b.Multipliers {
				fmt.Fprintf(w, "  %-26s x%.2f\n", name, factor)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteChatReply writes the assistant's reply and, for buy intents, the
// marketplace links.
func WriteChatReply(w io.Writer, reply *models.ChatReply, buy *marketplace.BuyOptions, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, struct {
			*models.ChatReply
			Buy *marketplace.BuyOptions `json:"buy,omitempty"`
		}{reply, buy})
	}
	fmt.Fprintln(w, reply.Text)
	if buy != nil {
		fmt.Fprintf(w, "  Amazon:   %s\n", buy.Amazon.URL)
		fmt.Fprintf(w, "  Flipkart: %s\n", buy.Flipkart.URL)
	}
	return nil
}

func writeProduct(w io.Writer, rank int, p *models.Product) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%d. %s | ₹%s", rank, p.Name, utils.FormatINR(p.Price))
	if p.Branch != "" {
		fmt.Fprintf(w, " | %s", p.Branch)
	}
	if p.Badge != "" {
		fmt.Fprintf(w, " | %s", p.Badge)
	}
	fmt.Fprintln(w)
	if p.Description != "" {
		fmt.Fprintf(w, "%s\n", utils.Truncate(p.Description, 200))
	}
}
