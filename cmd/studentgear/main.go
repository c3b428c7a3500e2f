// Package main is the StudentGear CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/config"
	"github.com/hyperjump/studentgear/internal/server"
	"github.com/hyperjump/studentgear/internal/watcher"
	"github.com/hyperjump/studentgear/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = config.DefaultPath
	defaultServerURL  = "http://localhost:3000"
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory is preferred if it exists, so that running from the project
// directory picks up the project's config. When neither file exists the built-in
// defaults are used. Returns the config and the path that was actually loaded
// (empty for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "chat":
		runChat()
	case "status":
		runStatus()
	case "import":
		runImport()
	case "version", "--version", "-v":
		fmt.Printf("studentgear version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (requests, catalog reloads, etc.)")
	port := fs.Int("port", 0, "listen port (overrides config)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	debugMode := cfg.Debug || *debug
	cfg.Debug = debugMode
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("catalog_path", cfg.Catalog.Path),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		watchOpts := []watcher.WatcherOption{watcher.WithDebounce(cfg.Catalog.Debounce)}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			[]string{cfg.Catalog.Path},
			func(path string) { components.ReloadCatalog(path, logger) },
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start catalog watcher", zap.Error(err))
		}
		logger.Info("watching catalog", zap.Strings("files", watchSvc.Files()))
	}

	srv := server.NewServer(
		components.Catalog,
		components.Engine,
		components.Storage,
		components.Links,
		components.Metrics,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printUsage() {
	fmt.Println(`studentgear - Student marketplace backend and product search

Usage:
  studentgear server [flags]            Start the HTTP server
  studentgear search [flags] <query>    Search products
  studentgear suggest [flags] <query>   Show the top suggestions for a query
  studentgear chat [flags] <message>    Ask the shopping assistant
  studentgear status [flags]            Show catalog and storage status
  studentgear import [flags] [input]    Convert a catalog between YAML and XLSX
  studentgear version                   Show version
  studentgear help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/studentgear/config.yaml)
  --debug            Enable debug logging
  --port int         Listen port (overrides config)

Search / Suggest / Chat / Status Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:3000). Use empty (--server "") to run in-process.
  --output string    Output format: text or json (default: text)

Search Flags:
  --limit int        Number of results (default from config)
  --offset int       Results to skip
  --explain          Show the score breakdown of each result

Import Flags:
  --out string       Output file (.yaml, .yml or .xlsx), required
  Without an input file the built-in catalog is exported.

Examples:
  studentgear server
  studentgear search laptop under 40000
  studentgear search --output json cse
  studentgear search --explain --server "" keyboard
  studentgear suggest mult
  studentgear chat "I want to buy a mechanical keyboard"
  studentgear import --out catalog.xlsx
  studentgear import --out catalog.yaml catalog.xlsx`)
}
