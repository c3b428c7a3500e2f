package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/studentgear/internal/models"
)

// Sort modes for branch listings.
const (
	SortNewest     = "newest"
	SortRating     = "rating"
	SortPopularity = "popularity"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortName       = "name"
)

// SortModes lists the supported sort modes.
var SortModes = []string{SortNewest, SortRating, SortPopularity, SortPriceAsc, SortPriceDesc, SortName}

// Browse lists a branch (or the whole catalog when no branch is given) in the
// requested order, one page at a time. Pages start at 1.
func (e *Engine) Browse(ctx context.Context, query *models.BrowseQuery) (*models.BrowseResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	snap := e.source.Snapshot()

	mode := strings.ToLower(strings.TrimSpace(query.Sort))
	if mode == "" {
		mode = SortNewest
	}
	less, ok := sorters[mode]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort %q (supported: %s)", models.ErrInvalidQuery, query.Sort, strings.Join(SortModes, ", "))
	}

	var products []*models.Product
	branch := ""
	if strings.TrimSpace(query.Branch) != "" {
		b, ok := snap.Branch(query.Branch)
		if !ok {
			return nil, fmt.Errorf("%w: branch %q", models.ErrNotFound, query.Branch)
		}
		branch = b.Code
		products = snap.BranchProducts(b.Code)
	} else {
		products = append([]*models.Product(nil), snap.Products()...)
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = e.config.PageSize
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	pageNum := query.Page
	if pageNum < 1 {
		pageNum = 1
	}

	resp := &models.BrowseResponse{
		Branch:     branch,
		Sort:       mode,
		Page:       pageNum,
		Total:      len(products),
		TotalPages: pageCount(len(products), pageSize),
		Products:   page(products, pageOffset(pageNum, pageSize, len(products)), pageSize),
	}
	e.metrics.ObserveSearch("browse", resp.Total, time.Since(startTime).Seconds())
	return resp, nil
}

var sorters = map[string]func(a, b *models.Product) bool{
	SortNewest: func(a, b *models.Product) bool {
		return dateOf(a).After(dateOf(b))
	},
	SortRating: func(a, b *models.Product) bool {
		return a.Rating > b.Rating
	},
	SortPopularity: func(a, b *models.Product) bool {
		return a.Popularity > b.Popularity
	},
	SortPriceAsc: func(a, b *models.Product) bool {
		return a.Price < b.Price
	},
	SortPriceDesc: func(a, b *models.Product) bool {
		return a.Price > b.Price
	},
	SortName: func(a, b *models.Product) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	},
}

// dateOf treats undated products as older than any dated one.
func dateOf(p *models.Product) time.Time {
	if p.DateAdded == nil {
		return time.Time{}
	}
	return *p.DateAdded
}
