// Package storage persists shopping carts and products added at runtime.
package storage

import (
	"context"

	"github.com/hyperjump/studentgear/internal/models"
)

// Storage defines cart and runtime product persistence operations.
// Cart items are keyed by exact name within a cart and returned in the order
// they were first added. An unknown token has an empty cart.
type Storage interface {
	// Cart operations
	CreateCart(ctx context.Context, token string) error
	GetCart(ctx context.Context, token string) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, token string, item models.CartItem) ([]models.CartItem, error)
	UpdateCartItem(ctx context.Context, token, name string, quantity int) ([]models.CartItem, error)
	RemoveCartItem(ctx context.Context, token, name string) ([]models.CartItem, error)

	// Product operations
	SaveProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context) ([]*models.Product, error)

	// Stats
	CountCarts(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)

	Close() error
}

// addQuantity is the quantity an added item contributes. Missing or
// non-positive quantities count as one.
func addQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
