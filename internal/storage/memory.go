package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperjump/studentgear/internal/models"
)

// MemoryStorage implements Storage in process memory.
type MemoryStorage struct {
	mu       sync.RWMutex
	carts    map[string][]models.CartItem
	products []*models.Product
	names    map[string]struct{}
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		carts: make(map[string][]models.CartItem),
		names: make(map[string]struct{}),
	}
}

// CreateCart ensures an empty cart exists for token.
func (m *MemoryStorage) CreateCart(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[token]; !ok {
		m.carts[token] = []models.CartItem{}
	}
	return nil
}

// GetCart returns a copy of the cart for token.
func (m *MemoryStorage) GetCart(_ context.Context, token string) ([]models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyItems(m.carts[token]), nil
}

// AddCartItem adds item or increases the quantity of the item with the same name.
func (m *MemoryStorage) AddCartItem(_ context.Context, token string, item models.CartItem) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := m.carts[token]
	for i := range cart {
		if cart[i].Name == item.Name {
			cart[i].Quantity += addQuantity(item.Quantity)
			return copyItems(cart), nil
		}
	}
	item.Quantity = addQuantity(item.Quantity)
	cart = append(cart, item)
	m.carts[token] = cart
	return copyItems(cart), nil
}

// UpdateCartItem sets the quantity of an item. A quantity of zero or less removes it.
func (m *MemoryStorage) UpdateCartItem(_ context.Context, token, name string, quantity int) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := m.carts[token]
	for i := range cart {
		if cart[i].Name != name {
			continue
		}
		if quantity <= 0 {
			cart = append(cart[:i:i], cart[i+1:]...)
		} else {
			cart[i].Quantity = quantity
		}
		m.carts[token] = cart
		return copyItems(cart), nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrItemNotInCart, name)
}

// RemoveCartItem removes the named item. Removing a missing item is not an error.
func (m *MemoryStorage) RemoveCartItem(_ context.Context, token, name string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := m.carts[token]
	kept := make([]models.CartItem, 0, len(cart))
	for _, it := range cart {
		if it.Name != name {
			kept = append(kept, it)
		}
	}
	m.carts[token] = kept
	return copyItems(kept), nil
}

// SaveProduct records a runtime-added product.
func (m *MemoryStorage) SaveProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.Key()
	if _, ok := m.names[key]; ok {
		return fmt.Errorf("%w: %q", models.ErrDuplicateProduct, p.Name)
	}
	m.names[key] = struct{}{}
	m.products = append(m.products, p.Clone())
	return nil
}

// ListProducts returns saved products in the order they were saved.
func (m *MemoryStorage) ListProducts(_ context.Context) ([]*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Product, len(m.products))
	for i, p := range m.products {
		out[i] = p.Clone()
	}
	return out, nil
}

// CountCarts returns the number of known carts.
func (m *MemoryStorage) CountCarts(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.carts)), nil
}

// CountProducts returns the number of saved products.
func (m *MemoryStorage) CountProducts(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.products)), nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error {
	return nil
}

func copyItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
