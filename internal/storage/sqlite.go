package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/studentgear/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS carts (
		token TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token TEXT NOT NULL,
		name TEXT NOT NULL,
		price REAL NOT NULL DEFAULT 0,
		image TEXT,
		quantity INTEGER NOT NULL,
		UNIQUE (token, name),
		FOREIGN KEY (token) REFERENCES carts(token) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_cart_items_token ON cart_items(token);

	CREATE TABLE IF NOT EXISTS products (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE,
		data TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateCart ensures an empty cart exists for token.
func (s *SQLiteStorage) CreateCart(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO carts (token, created_at) VALUES (?, ?)`, token, time.Now())
	return err
}

// GetCart returns the items in the cart for token.
func (s *SQLiteStorage) GetCart(ctx context.Context, token string) ([]models.CartItem, error) {
	return queryCart(ctx, s.db, token)
}

// AddCartItem adds item or increases the quantity of the item with the same name.
func (s *SQLiteStorage) AddCartItem(ctx context.Context, token string, item models.CartItem) ([]models.CartItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO carts (token, created_at) VALUES (?, ?)`, token, time.Now()); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cart_items (token, name, price, image, quantity) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (token, name) DO UPDATE SET quantity = quantity + excluded.quantity`,
		token, item.Name, item.Price, item.Image, addQuantity(item.Quantity),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	items, err := queryCart(ctx, tx, token)
	if err != nil {
		return nil, err
	}
	return items, tx.Commit()
}

// UpdateCartItem sets the quantity of an item. A quantity of zero or less removes it.
func (s *SQLiteStorage) UpdateCartItem(ctx context.Context, token, name string, quantity int) ([]models.CartItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var result sql.Result
	if quantity <= 0 {
		result, err = tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE token = ? AND name = ?`, token, name)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE cart_items SET quantity = ? WHERE token = ? AND name = ?`, quantity, token, name)
	}
	if err != nil {
		return nil, err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrItemNotInCart, name)
	}
	items, err := queryCart(ctx, tx, token)
	if err != nil {
		return nil, err
	}
	return items, tx.Commit()
}

// RemoveCartItem removes the named item. Removing a missing item is not an error.
func (s *SQLiteStorage) RemoveCartItem(ctx context.Context, token, name string) ([]models.CartItem, error) {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE token = ? AND name = ?`, token, name); err != nil {
		return nil, err
	}
	return queryCart(ctx, s.db, token)
}

// SaveProduct records a runtime-added product.
func (s *SQLiteStorage) SaveProduct(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (id, name_key, data, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Key(), string(data), time.Now(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %q", models.ErrDuplicateProduct, p.Name)
	}
	return err
}

// ListProducts returns saved products in the order they were saved.
func (s *SQLiteStorage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM products ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p models.Product
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// CountCarts returns the number of known carts.
func (s *SQLiteStorage) CountCarts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM carts`).Scan(&count)
	return count, err
}

// CountProducts returns the number of saved products.
func (s *SQLiteStorage) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryCart(ctx context.Context, q queryer, token string) ([]models.CartItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, price, COALESCE(image, ''), quantity FROM cart_items WHERE token = ? ORDER BY id`, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.Name, &it.Price, &it.Image, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
