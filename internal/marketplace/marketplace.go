// Package marketplace resolves where a product can be bought.
package marketplace

import (
	"net/url"
	"strings"
	"sync"

	"github.com/hyperjump/studentgear/internal/models"
)

const (
	amazonSearchURL   = "https://www.amazon.in/s?k="
	flipkartSearchURL = "https://www.flipkart.com/search?q="
)

// Source tells where a link came from.
type Source string

const (
	SourceProduct  Source = "product"
	SourceOverride Source = "override"
	SourceSearch   Source = "search"
)

// Link is a single marketplace URL.
type Link struct {
	URL    string `json:"url"`
	Source Source `json:"source"`
}

// BuyOptions lists the marketplace links for a product.
type BuyOptions struct {
	Product  string  `json:"product"`
	Price    float64 `json:"price"`
	Amazon   Link    `json:"amazon"`
	Flipkart Link    `json:"flipkart"`
}

// Resolver picks marketplace links for products. Each marketplace is resolved
// independently: the product's own link, then a registered override, then a
// marketplace search for the product name.
type Resolver struct {
	mu        sync.RWMutex
	overrides map[string]models.AffiliateLinks
}

// NewResolver creates a resolver with the given overrides, keyed by product name.
func NewResolver(overrides map[string]models.AffiliateLinks) *Resolver {
	r := &Resolver{overrides: make(map[string]models.AffiliateLinks, len(overrides))}
	for name, links := range overrides {
		r.Register(name, links)
	}
	return r
}

// Register sets the override links for a product name, case-insensitively.
func (r *Resolver) Register(name string, links models.AffiliateLinks) {
	r.mu.Lock()
	r.overrides[strings.ToLower(strings.TrimSpace(name))] = links
	r.mu.Unlock()
}

// Override returns the links registered for name.
func (r *Resolver) Override(name string) (models.AffiliateLinks, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.overrides[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// Resolve returns the buy options for p.
func (r *Resolver) Resolve(p *models.Product) BuyOptions {
	override, _ := r.Override(p.Name)
	return BuyOptions{
		Product:  p.Name,
		Price:    p.Price,
		Amazon:   pick(p.Affiliates.Amazon, override.Amazon, amazonSearchURL+encodeComponent(p.Name)),
		Flipkart: pick(p.Affiliates.Flipkart, override.Flipkart, flipkartSearchURL+encodeComponent(p.Name)),
	}
}

func pick(product, override, search string) Link {
	switch {
	case product != "":
		return Link{URL: product, Source: SourceProduct}
	case override != "":
		return Link{URL: override, Source: SourceOverride}
	default:
		return Link{URL: search, Source: SourceSearch}
	}
}

// encodeComponent escapes s for use inside a query value, encoding spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
