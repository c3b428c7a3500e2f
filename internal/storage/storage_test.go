package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/studentgear/internal/models"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	sqlite, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func names(items []models.CartItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestStorage_Cart(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			cart, err := store.GetCart(ctx, "nobody")
			if err != nil {
				t.Fatal(err)
			}
			if cart == nil || len(cart) != 0 {
				t.Errorf("unknown cart = %#v, want empty non-nil", cart)
			}

			if err := store.CreateCart(ctx, "tok"); err != nil {
				t.Fatal(err)
			}
			if err := store.CreateCart(ctx, "tok"); err != nil {
				t.Fatalf("CreateCart twice: %v", err)
			}

			if _, err := store.AddCartItem(ctx, "tok", models.CartItem{Name: "USB-C Hub", Price: 1299}); err != nil {
				t.Fatal(err)
			}
			if _, err := store.AddCartItem(ctx, "tok", models.CartItem{Name: "Webcam 1080p", Price: 2499, Quantity: 2}); err != nil {
				t.Fatal(err)
			}
			cart, err = store.AddCartItem(ctx, "tok", models.CartItem{Name: "USB-C Hub", Quantity: 3})
			if err != nil {
				t.Fatal(err)
			}
			if got := names(cart); len(got) != 2 || got[0] != "USB-C Hub" || got[1] != "Webcam 1080p" {
				t.Fatalf("cart = %v", got)
			}
			if cart[0].Quantity != 4 {
				t.Errorf("merged quantity = %d, want 4", cart[0].Quantity)
			}
			if cart[0].Price != 1299 {
				t.Errorf("price = %v, want 1299", cart[0].Price)
			}

			cart, err = store.UpdateCartItem(ctx, "tok", "Webcam 1080p", 5)
			if err != nil {
				t.Fatal(err)
			}
			if cart[1].Quantity != 5 {
				t.Errorf("updated quantity = %d, want 5", cart[1].Quantity)
			}

			cart, err = store.UpdateCartItem(ctx, "tok", "USB-C Hub", 0)
			if err != nil {
				t.Fatal(err)
			}
			if got := names(cart); len(got) != 1 || got[0] != "Webcam 1080p" {
				t.Errorf("after zero quantity cart = %v", got)
			}

			if _, err := store.UpdateCartItem(ctx, "tok", "usb-c hub", 1); !errors.Is(err, models.ErrItemNotInCart) {
				t.Errorf("err = %v, want ErrItemNotInCart", err)
			}

			cart, err = store.RemoveCartItem(ctx, "tok", "missing")
			if err != nil || len(cart) != 1 {
				t.Errorf("remove missing: cart = %v, err = %v", cart, err)
			}
			cart, err = store.RemoveCartItem(ctx, "tok", "Webcam 1080p")
			if err != nil || len(cart) != 0 {
				t.Errorf("remove: cart = %v, err = %v", cart, err)
			}

			other, _ := store.GetCart(ctx, "other")
			if len(other) != 0 {
				t.Errorf("carts leak between tokens: %v", other)
			}

			n, err := store.CountCarts(ctx)
			if err != nil || n != 1 {
				t.Errorf("CountCarts = %d, %v; want 1", n, err)
			}
		})
	}
}

func TestStorage_Products(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			added := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

			in := []*models.Product{
				{ID: "a", Name: "CNC Router", Price: 45999, Aliases: []string{"cnc"}, DateAdded: &added},
				{ID: "b", Name: "Caliper Digital", Price: 1999,
					Affiliates: models.AffiliateLinks{Flipkart: "https://www.flipkart.com/item/caliper"}},
			}
			for _, p := range in {
				if err := store.SaveProduct(ctx, p); err != nil {
					t.Fatal(err)
				}
			}
			err := store.SaveProduct(ctx, &models.Product{ID: "c", Name: "cnc router"})
			if !errors.Is(err, models.ErrDuplicateProduct) {
				t.Errorf("duplicate save err = %v, want ErrDuplicateProduct", err)
			}

			got, err := store.ListProducts(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 {
				t.Fatalf("ListProducts = %d, want 2", len(got))
			}
			if got[0].Name != "CNC Router" || got[1].Name != "Caliper Digital" {
				t.Errorf("order = %q, %q", got[0].Name, got[1].Name)
			}
			if got[0].DateAdded == nil || !got[0].DateAdded.Equal(added) {
				t.Errorf("DateAdded = %v", got[0].DateAdded)
			}
			if got[1].Affiliates.Flipkart == "" {
				t.Error("affiliate link lost")
			}

			n, err := store.CountProducts(ctx)
			if err != nil || n != 2 {
				t.Errorf("CountProducts = %d, %v; want 2", n, err)
			}
		})
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddCartItem(ctx, "tok", models.CartItem{Name: "Survey Tripod", Quantity: 2}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveProduct(ctx, &models.Product{ID: "x", Name: "Lab Coat"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	store, err = NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	cart, _ := store.GetCart(ctx, "tok")
	if len(cart) != 1 || cart[0].Quantity != 2 {
		t.Errorf("cart after reopen = %v", cart)
	}
	products, _ := store.ListProducts(ctx)
	if len(products) != 1 || products[0].Name != "Lab Coat" {
		t.Errorf("products after reopen = %v", products)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{"", false},
		{"memory", false},
		{"sqlite", false},
		{"postgres", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := New(tt.driver, filepath.Join(t.TempDir(), "db.sqlite"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) err = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}
