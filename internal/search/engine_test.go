package search

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/catalog"
	"github.com/hyperjump/studentgear/internal/config"
	"github.com/hyperjump/studentgear/internal/metrics"
	"github.com/hyperjump/studentgear/internal/models"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func newTestEngine(t *testing.T) (*Engine, *catalog.Catalog) {
	t.Helper()
	snap, err := catalog.Build(catalog.DefaultBranches, []*models.Product{
		{Name: "Mechanical Keyboard", Price: 3799, Branch: "CSE", Badge: "Accessory",
			Description: "Tactile mechanical keyboard for fast typing.", Aliases: []string{"keyboard"},
			Rating: 4.6, Popularity: 900, DateAdded: daysAgo(40)},
		{Name: "Keyboard Stand", Price: 999, Branch: "CSE", Badge: "Accessory",
			Description: "Angled stand.", Rating: 4.1, Popularity: 120, DateAdded: daysAgo(5)},
		{Name: "Acer Aspire 5", Price: 34999, Branch: "CSE", Badge: "Laptop", Category: "Laptops",
			Description: "Affordable Aspire for students.", Rating: 4.3, Popularity: 300},
		{Name: "Lenovo IdeaPad 3", Price: 32999, Branch: "CSE", Badge: "Laptop", Category: "Laptops",
			Description: "IdeaPad for budget-conscious students.", Rating: 4.0, Popularity: 640, DateAdded: daysAgo(90)},
		{Name: "Dell XPS 13", Price: 129999, Branch: "CSE", Badge: "Laptop", Category: "Laptops",
			Description: "XPS, compact premium ultrabook.", Rating: 4.8, Popularity: 450},
		{Name: "Oscilloscope Mini", Price: 8999, Branch: "ECE", Badge: "Instrument",
			Description: "Digital oscilloscope for labs.", Aliases: []string{"scope"}},
		{Name: "Multimeter Pro", Price: 1999, Branch: "ECE", Badge: "Tool",
			Description: "Digital multimeter for measurement.", Aliases: []string{"multimeter"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := catalog.New(snap)
	cfg := config.Default().Search
	return NewEngine(c, &cfg, zap.NewNop()).WithClock(func() time.Time { return testNow }), c
}

func productNames(products []*models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEngine_Search(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		query      models.SearchQuery
		wantFirst  string
		wantTotal  int
		wantBranch string
	}{
		{name: "keyboard", query: models.SearchQuery{Query: "keyboard"}, wantFirst: "Mechanical Keyboard", wantTotal: 2},
		{name: "laptop under price", query: models.SearchQuery{Query: "laptop under 34000"}, wantFirst: "Lenovo IdeaPad 3", wantTotal: 1},
		{name: "branch code", query: models.SearchQuery{Query: "ece"}, wantFirst: "Oscilloscope Mini", wantTotal: 2, wantBranch: "ECE"},
		{name: "empty", query: models.SearchQuery{Query: "   "}, wantTotal: 0},
		{name: "no match", query: models.SearchQuery{Query: "zzzz"}, wantTotal: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			resp, err := engine.Search(ctx, &q)
			if err != nil {
				t.Fatal(err)
			}
			if resp.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d (%v)", resp.Total, tt.wantTotal, productNames(resp.Products))
			}
			if resp.Branch != tt.wantBranch {
				t.Errorf("Branch = %q, want %q", resp.Branch, tt.wantBranch)
			}
			if tt.wantFirst != "" && (len(resp.Products) == 0 || resp.Products[0].Name != tt.wantFirst) {
				t.Errorf("first = %v, want %q", productNames(resp.Products), tt.wantFirst)
			}
			if resp.Products == nil {
				t.Error("Products should be non-nil")
			}
		})
	}
}

func TestEngine_SearchPagination(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	all, err := engine.Search(ctx, &models.SearchQuery{Query: "laptop"})
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 3 {
		t.Fatalf("Total = %d, want 3", all.Total)
	}

	paged, err := engine.Search(ctx, &models.SearchQuery{Query: "laptop", Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if paged.Total != 3 || len(paged.Products) != 1 || paged.Products[0] != all.Products[1] {
		t.Errorf("paged = %v of %d", productNames(paged.Products), paged.Total)
	}

	beyond, _ := engine.Search(ctx, &models.SearchQuery{Query: "laptop", Offset: 10})
	if len(beyond.Products) != 0 {
		t.Errorf("offset past end returned %v", productNames(beyond.Products))
	}
}

func TestEngine_SearchCanceledContext(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Search(ctx, &models.SearchQuery{Query: "keyboard"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEngine_SearchSeesInsertedProducts(t *testing.T) {
	engine, c := newTestEngine(t)
	ctx := context.Background()

	if _, err := c.Insert(&models.Product{Name: "Soldering Station", Price: 3999, Branch: "ECE"}); err != nil {
		t.Fatal(err)
	}
	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "soldering"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Products[0].Name != "Soldering Station" {
		t.Errorf("got %v", productNames(resp.Products))
	}
}

func TestEngine_Suggest(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"k", 0},
		{"  l  ", 0},
		{"laptop", 3},
		{"a", 0},
		{"digital", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := engine.Suggest(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("Suggest(%q) = %v, want %d products", tt.query, productNames(got), tt.want)
			}
		})
	}

	got, _ := engine.Suggest(ctx, "s")
	if got == nil {
		t.Error("short query should return an empty, non-nil slice")
	}
}

func TestEngine_SuggestCapsAtLimit(t *testing.T) {
	engine, _ := newTestEngine(t)
	got, err := engine.Suggest(context.Background(), "students accessory digital")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("Suggest returned %d products, want 3", len(got))
	}
}

func TestEngine_Explain(t *testing.T) {
	engine, _ := newTestEngine(t)
	results, err := engine.Explain(context.Background(), "keyboard", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Product.Name != "Mechanical Keyboard" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Breakdown == nil || results[0].Score <= 0 {
		t.Errorf("missing breakdown or score: %+v", results[0])
	}
}

func TestEngine_ExplainPages(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	all, err := engine.Explain(ctx, "keyboard", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 2 {
		t.Fatalf("want at least 2 keyboard results, got %d", len(all))
	}
	second, err := engine.Explain(ctx, "keyboard", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 || second[0].Product != all[1].Product {
		t.Errorf("offset 1 = %+v, want %s", second, all[1].Product.Name)
	}
	past, err := engine.Explain(ctx, "keyboard", math.MaxInt, 1)
	if err != nil {
		t.Fatal(err)
	}
	if past == nil || len(past) != 0 {
		t.Errorf("past the end = %v, want empty", past)
	}
}

func TestEngine_HugeOffsetsAndLimits(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	searches := []models.SearchQuery{
		{Query: "keyboard", Offset: math.MaxInt},
		{Query: "keyboard", Offset: math.MaxInt - 1, Limit: math.MaxInt},
		{Query: "cse", Offset: math.MaxInt},
	}
	for _, q := range searches {
		resp, err := engine.Search(ctx, &q)
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Products) != 0 || resp.Total == 0 {
			t.Errorf("Search(%+v) = %d products of %d", q, len(resp.Products), resp.Total)
		}
	}

	browses := []struct {
		query     models.BrowseQuery
		wantCount int
		wantPages int
	}{
		{models.BrowseQuery{Branch: "cse", Page: 2, PageSize: math.MaxInt}, 0, 1},
		{models.BrowseQuery{Branch: "cse", Page: 1, PageSize: math.MaxInt}, 5, 1},
		{models.BrowseQuery{Branch: "cse", Page: math.MaxInt, PageSize: 2}, 0, 3},
		{models.BrowseQuery{Branch: "cse", Page: math.MaxInt, PageSize: math.MaxInt}, 0, 1},
	}
	for _, tt := range browses {
		resp, err := engine.Browse(ctx, &tt.query)
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Products) != tt.wantCount || resp.TotalPages != tt.wantPages {
			t.Errorf("Browse(%+v) = %d products, %d pages; want %d, %d",
				tt.query, len(resp.Products), resp.TotalPages, tt.wantCount, tt.wantPages)
		}
	}
}

func TestPage(t *testing.T) {
	products := make([]*models.Product, 5)
	for i := range products {
		products[i] = &models.Product{Name: string(rune('a' + i))}
	}
	tests := []struct {
		name          string
		offset, limit int
		want          int
	}{
		{"first page", 0, 2, 2},
		{"tail", 4, 10, 1},
		{"zero limit", 0, 0, 0},
		{"offset past end", 9, 2, 0},
		{"max offset", math.MaxInt, 1, 0},
		{"max limit", 1, math.MaxInt, 4},
		{"both max", math.MaxInt, math.MaxInt, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := page(products, tt.offset, tt.limit); len(got) != tt.want {
				t.Errorf("page(%d, %d) len = %d, want %d", tt.offset, tt.limit, len(got), tt.want)
			}
		})
	}
}

func TestEngine_Metrics(t *testing.T) {
	engine, _ := newTestEngine(t)
	m := metrics.New()
	engine.WithMetrics(m)
	ctx := context.Background()

	_, _ = engine.Search(ctx, &models.SearchQuery{Query: "keyboard"})
	_, _ = engine.Search(ctx, &models.SearchQuery{Query: "zzzz"})
	_, _ = engine.Search(ctx, &models.SearchQuery{Query: "cse"})

	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("search", "hit")); got != 1 {
		t.Errorf("search hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("search", "zero_result")); got != 1 {
		t.Errorf("search zero results = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("branch", "hit")); got != 1 {
		t.Errorf("branch hits = %v, want 1", got)
	}
}
