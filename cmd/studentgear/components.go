package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/catalog"
	"github.com/hyperjump/studentgear/internal/config"
	"github.com/hyperjump/studentgear/internal/marketplace"
	"github.com/hyperjump/studentgear/internal/metrics"
	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/internal/search"
	"github.com/hyperjump/studentgear/internal/storage"
)

// Components holds the initialized services shared by the server and the
// in-process CLI commands.
type Components struct {
	Storage storage.Storage
	Catalog *catalog.Catalog
	Engine  *search.Engine
	Links   *marketplace.Resolver
	Metrics *metrics.Metrics
}

// Close releases the storage.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

// loadCatalog reads the catalog file at path, or the built-in catalog when path
// is empty.
func loadCatalog(path string) (*catalog.Snapshot, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.New(cfg.Storage.Driver, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	base, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	cat := catalog.New(base)

	saved, err := store.ListProducts(context.Background())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to list stored products: %w", err)
	}
	replayProducts(cat, saved, logger)

	m := metrics.New()
	m.SetCatalogSize(cat.Snapshot().Len())

	logger.Info("catalog loaded",
		zap.Int("products", cat.Snapshot().Len()),
		zap.Int("branches", len(cat.Snapshot().Branches())),
		zap.Int("stored_products", len(saved)),
	)

	return &Components{
		Storage: store,
		Catalog: cat,
		Engine:  search.NewEngine(cat, &cfg.Search, logger).WithMetrics(m),
		Links:   marketplace.NewResolver(cfg.Marketplace.Overrides),
		Metrics: m,
	}, nil
}

// replayProducts re-inserts products that were added at runtime in an earlier
// run. Products that now clash with the catalog file are skipped.
func replayProducts(cat *catalog.Catalog, saved []*models.Product, logger *zap.Logger) {
	if len(saved) == 0 {
		return
	}
	if err := cat.InsertAll(saved); err == nil {
		return
	}
	for _, p := range saved {
		if _, err := cat.Insert(p); err != nil {
			logger.Warn("skipping stored product", zap.String("name", p.Name), zap.Error(err))
		}
	}
}

// ReloadCatalog re-reads the catalog file and swaps it in, keeping products
// added at runtime. On error the current catalog stays in place.
func (c *Components) ReloadCatalog(path string, logger *zap.Logger) {
	snap, err := catalog.LoadFile(path)
	c.Metrics.ObserveReload(err)
	if err != nil {
		logger.Warn("catalog reload failed; keeping current catalog", zap.String("path", path), zap.Error(err))
		return
	}
	for _, dropErr := range c.Catalog.Reload(snap) {
		logger.Warn("runtime product dropped on reload", zap.Error(dropErr))
	}
	n := c.Catalog.Snapshot().Len()
	c.Metrics.SetCatalogSize(n)
	logger.Info("catalog reloaded", zap.String("path", path), zap.Int("products", n))
}
