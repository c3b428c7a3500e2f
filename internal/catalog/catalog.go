// Package catalog holds the product catalog: a case-insensitive mapping from
// product names and aliases to products, partitioned by engineering branch.
//
// Readers work on immutable snapshots. Writers serialize on a mutex, build a new
// snapshot and publish it atomically, so a reader sees a product with all of its
// keys or not at all.
package catalog

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/studentgear/internal/models"
)

// productNamespace seeds the name-based product IDs.
var productNamespace = uuid.MustParse("6f1c9a52-3d0e-4b7a-9a0c-5e2b8f7d1c44")

// Branch is an engineering branch that groups products.
type Branch struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// DefaultBranches lists the branches known out of the box, in display order.
var DefaultBranches = []Branch{
	{Code: "CSE", Name: "Computer Science"},
	{Code: "ECE", Name: "Electronics & Communication"},
	{Code: "MECH", Name: "Mechanical"},
	{Code: "CIVIL", Name: "Civil"},
	{Code: "EEE", Name: "Electrical & Electronics"},
	{Code: "AI", Name: "Artificial Intelligence"},
	{Code: "BIO", Name: "Biotechnology"},
	{Code: "CHEM", Name: "Chemical"},
	{Code: "IS", Name: "Information Science"},
	{Code: "AUTO", Name: "Automobile"},
}

// Snapshot is an immutable view of the catalog. Products must not be modified.
type Snapshot struct {
	products []*models.Product
	index    map[string]*models.Product
	keys     []string
	branches []Branch
	// inserted are the products added through Catalog.Insert, kept so a reload
	// of the catalog source can re-apply them.
	inserted []*models.Product
}

func newSnapshot(branches []Branch) *Snapshot {
	s := &Snapshot{index: make(map[string]*models.Product)}
	for _, b := range branches {
		s.addBranch(b)
	}
	return s
}

// Products returns the distinct products in insertion order.
func (s *Snapshot) Products() []*models.Product {
	return s.products[:len(s.products):len(s.products)]
}

// Len returns the number of distinct products.
func (s *Snapshot) Len() int {
	return len(s.products)
}

// Lookup resolves a name or alias, case-insensitively.
func (s *Snapshot) Lookup(key string) (*models.Product, bool) {
	p, ok := s.index[normalizeKey(key)]
	return p, ok
}

// Keys returns every lookup key in the order it was registered.
func (s *Snapshot) Keys() []string {
	return s.keys[:len(s.keys):len(s.keys)]
}

// Branches returns the known branches in display order.
func (s *Snapshot) Branches() []Branch {
	return s.branches[:len(s.branches):len(s.branches)]
}

// Branch returns the branch with the given code, case-insensitively.
func (s *Snapshot) Branch(code string) (Branch, bool) {
	for _, b := range s.branches {
		if strings.EqualFold(b.Code, strings.TrimSpace(code)) {
			return b, true
		}
	}
	return Branch{}, false
}

// BranchProducts returns the products listed under code, in insertion order.
func (s *Snapshot) BranchProducts(code string) []*models.Product {
	code = strings.TrimSpace(code)
	var out []*models.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Branch, code) {
			out = append(out, p)
		}
	}
	return out
}

// clone copies the snapshot so the copy can be extended without affecting readers
// of the original.
func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		products: s.products[:len(s.products):len(s.products)],
		index:    make(map[string]*models.Product, len(s.index)+4),
		keys:     s.keys[:len(s.keys):len(s.keys)],
		branches: s.branches[:len(s.branches):len(s.branches)],
		inserted: s.inserted[:len(s.inserted):len(s.inserted)],
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

func (s *Snapshot) addBranch(b Branch) {
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
	if b.Code == "" {
		return
	}
	if _, ok := s.Branch(b.Code); ok {
		return
	}
	if b.Name == "" {
		b.Name = b.Code
	}
	s.branches = append(s.branches, b)
}

// add registers p under its name and aliases. p must already be a private copy.
// A name takes a key over from another product's alias; a name equal to another
// product's name is rejected. Aliases already taken are skipped.
func (s *Snapshot) add(p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	key := p.Key()
	if existing, ok := s.index[key]; ok {
		if existing.Key() == key {
			return fmt.Errorf("%w: %q", models.ErrDuplicateProduct, p.Name)
		}
	} else {
		s.keys = append(s.keys, key)
	}
	s.index[key] = p

	for _, alias := range p.Aliases {
		a := normalizeKey(alias)
		if a == "" {
			continue
		}
		if _, taken := s.index[a]; taken {
			continue
		}
		s.index[a] = p
		s.keys = append(s.keys, a)
	}

	if p.ID == "" {
		p.ID = uuid.NewSHA1(productNamespace, []byte(key)).String()
	}
	if p.Branch != "" {
		p.Branch = strings.ToUpper(strings.TrimSpace(p.Branch))
		s.addBranch(Branch{Code: p.Branch})
	}
	s.products = append(s.products, p)
	return nil
}

// Build creates a snapshot from branches and products. Products are copied; the
// caller keeps ownership of its values.
func Build(branches []Branch, products []*models.Product) (*Snapshot, error) {
	s := newSnapshot(branches)
	for _, p := range products {
		if p == nil {
			continue
		}
		if err := s.add(p.Clone()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Catalog is the live, concurrently readable catalog.
type Catalog struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
	now  func() time.Time
}

// New creates a catalog serving the given snapshot. A nil snapshot yields an empty
// catalog with the default branches.
func New(snap *Snapshot) *Catalog {
	if snap == nil {
		snap = newSnapshot(DefaultBranches)
	}
	c := &Catalog{now: time.Now}
	c.snap.Store(snap)
	return c
}

// Snapshot returns the current immutable view.
func (c *Catalog) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Insert adds a product at runtime and returns the stored copy. DateAdded defaults
// to the current time.
func (c *Catalog) Insert(p *models.Product) (*models.Product, error) {
	return c.InsertAndCommit(p, nil)
}

// InsertAndCommit adds p like Insert but publishes it only once commit accepts
// the stored copy, typically by persisting it. A commit error leaves the catalog
// unchanged and is returned as is. A nil commit always accepts.
func (c *Catalog) InsertAndCommit(p *models.Product, commit func(stored *models.Product) error) (*models.Product, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil product", models.ErrInvalidProduct)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snap.Load().clone()
	stored := c.prepare(p)
	if err := next.add(stored); err != nil {
		return nil, err
	}
	if commit != nil {
		if err := commit(stored.Clone()); err != nil {
			return nil, err
		}
	}
	next.inserted = append(next.inserted, stored)
	c.snap.Store(next)
	return stored, nil
}

// InsertAll adds products in order. Either all are inserted or none are.
func (c *Catalog) InsertAll(products []*models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snap.Load().clone()
	for _, p := range products {
		if p == nil {
			continue
		}
		stored := c.prepare(p)
		if err := next.add(stored); err != nil {
			return err
		}
		next.inserted = append(next.inserted, stored)
	}
	c.snap.Store(next)
	return nil
}

// Reload swaps in base, typically freshly loaded from the catalog file, and
// re-applies every product inserted at runtime. Inserted products that now clash
// with base are dropped; their errors are returned.
func (c *Catalog) Reload(base *Snapshot) []error {
	if base == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := base.clone()
	next.inserted = nil
	var dropped []error
	for _, p := range c.snap.Load().inserted {
		stored := p.Clone()
		if err := next.add(stored); err != nil {
			dropped = append(dropped, err)
			continue
		}
		next.inserted = append(next.inserted, stored)
	}
	c.snap.Store(next)
	return dropped
}

func (c *Catalog) prepare(p *models.Product) *models.Product {
	stored := p.Clone()
	if stored.DateAdded == nil {
		t := c.now()
		stored.DateAdded = &t
	}
	return stored
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
