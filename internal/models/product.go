// Package models defines core data structures for products, queries, carts, and chat replies.
package models

import (
	"fmt"
	"strings"
	"time"
)

// AffiliateLinks holds marketplace links registered for a product.
type AffiliateLinks struct {
	Amazon   string `json:"amazon,omitempty" yaml:"amazon,omitempty"`
	Flipkart string `json:"flipkart,omitempty" yaml:"flipkart,omitempty"`
}

// Any reports whether at least one marketplace link is set.
func (l AffiliateLinks) Any() bool {
	return l.Amazon != "" || l.Flipkart != ""
}

// Product is a catalog entry. Products inside a catalog snapshot are never mutated;
// updates go through the catalog's Insert.
type Product struct {
	ID          string         `json:"id" yaml:"id,omitempty"`
	Name        string         `json:"name" yaml:"name"`
	Aliases     []string       `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Badge       string         `json:"badge,omitempty" yaml:"badge,omitempty"`
	Branch      string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	Price       float64        `json:"price" yaml:"price"`
	Image       string         `json:"image,omitempty" yaml:"image,omitempty"`
	ImageURL    string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Rating      float64        `json:"rating,omitempty" yaml:"rating,omitempty"`
	Popularity  float64        `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	DateAdded   *time.Time     `json:"date_added,omitempty" yaml:"date_added,omitempty"`
	Affiliates  AffiliateLinks `json:"affiliates,omitempty" yaml:"affiliates,omitempty"`
}

// Validate checks the fields every catalog entry must carry.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative (got %v)", ErrInvalidProduct, p.Price)
	}
	if p.Popularity < 0 {
		return fmt.Errorf("%w: popularity must be non-negative (got %v)", ErrInvalidProduct, p.Popularity)
	}
	return nil
}

// Clone returns a deep copy so callers can hand the result to a catalog without
// sharing slices or pointers with the original.
func (p *Product) Clone() *Product {
	c := *p
	if p.Aliases != nil {
		c.Aliases = append([]string(nil), p.Aliases...)
	}
	if p.DateAdded != nil {
		t := *p.DateAdded
		c.DateAdded = &t
	}
	return &c
}

// Key returns the lowercased name used as the product's primary lookup key.
func (p *Product) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}
