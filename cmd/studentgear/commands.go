package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/catalog"
	"github.com/hyperjump/studentgear/internal/chat"
	"github.com/hyperjump/studentgear/internal/cli"
	"github.com/hyperjump/studentgear/internal/marketplace"
	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/internal/ranking"
	"github.com/hyperjump/studentgear/pkg/utils"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query to
// the front of the slice so that flag.Parse() sees them. Go's flag package stops
// at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// clientFlags are shared by the commands that talk to a running server or fall
// back to in-process components.
type clientFlags struct {
	configPath *string
	serverURL  *string
	output     *string
}

func addClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path (for in-process mode)"),
		serverURL:  fs.String("server", defaultServerURL, "server URL (empty = run in-process)"),
		output:     fs.String("output", "text", "output format: text or json"),
	}
}

func (f clientFlags) format() cli.OutputFormat {
	format, err := cli.ParseOutputFormat(*f.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

// localComponents initializes in-process components. Logging stays quiet
// unless the config enables debug.
func (f clientFlags) localComponents() (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(*f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := zap.NewNop()
	if cfg.Debug {
		if logger, err = utils.NewLogger(true); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, logger
}

func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
		os.Exit(1)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	flags := addClientFlags(fs)
	limit := fs.Int("limit", 0, "number of results (0 = config default)")
	offset := fs.Int("offset", 0, "results to skip")
	explain := fs.Bool("explain", false, "show the score breakdown of each result")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: studentgear search [flags] <query>")
		os.Exit(1)
	}
	format := flags.format()

	if *explain {
		var results []*ranking.RankedResult
		if *flags.serverURL != "" {
			var out struct {
				Results []*ranking.RankedResult `json:"results"`
			}
			err := postJSON(*flags.serverURL+"/api/v1/search/explain", map[string]interface{}{"query": queryStr, "limit": *limit, "offset": *offset}, &out)
			exitOnError("Explain", err)
			results = out.Results
		} else {
			components, _ := flags.localComponents()
			defer components.Close()
			var err error
			results, err = components.Engine.Explain(context.Background(), queryStr, *offset, *limit)
			exitOnError("Explain", err)
		}
		exitOnError("Output", cli.WriteExplain(os.Stdout, results, format))
		return
	}

	query := &models.SearchQuery{Query: queryStr, Limit: *limit, Offset: *offset}
	var response *models.SearchResponse
	if *flags.serverURL != "" {
		var err error
		response, err = searchViaHTTP(*flags.serverURL, query)
		exitOnError("Search", err)
	} else {
		components, _ := flags.localComponents()
		defer components.Close()
		var err error
		response, err = components.Engine.Search(context.Background(), query)
		exitOnError("Search", err)
	}
	exitOnError("Output", cli.WriteSearchResults(os.Stdout, response, format))
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	var response models.SearchResponse
	if err := postJSON(serverURL+"/api/v1/search", query, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	flags := addClientFlags(fs)
	_ = fs.Parse(argsReorder(os.Args[2:]))
	queryStr := buildSearchQuery(fs.Args())
	format := flags.format()

	var products []*models.Product
	if *flags.serverURL != "" {
		var out struct {
			Products []*models.Product `json:"products"`
		}
		exitOnError("Suggest", getJSON(*flags.serverURL+"/api/v1/suggest?q="+url.QueryEscape(queryStr), &out))
		products = out.Products
	} else {
		components, _ := flags.localComponents()
		defer components.Close()
		var err error
		products, err = components.Engine.Suggest(context.Background(), queryStr)
		exitOnError("Suggest", err)
	}
	exitOnError("Output", cli.WriteProducts(os.Stdout, products, format))
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	flags := addClientFlags(fs)
	_ = fs.Parse(argsReorder(os.Args[2:]))
	message := buildSearchQuery(fs.Args())
	format := flags.format()

	var reply models.ChatReply
	var buy *marketplace.BuyOptions
	if *flags.serverURL != "" {
		exitOnError("Chat", postJSON(*flags.serverURL+"/api/v1/chat", map[string]string{"message": message}, &reply))
		if reply.BuyIntent && reply.Product != nil {
			var opts marketplace.BuyOptions
			target := *flags.serverURL + "/api/v1/products/" + url.PathEscape(reply.Product.Name) + "/buy"
			exitOnError("Buy options", getJSON(target, &opts))
			buy = &opts
		}
	} else {
		components, logger := flags.localComponents()
		defer components.Close()
		reply = chat.NewResponder(components.Catalog, logger).Reply(message)
		if reply.BuyIntent && reply.Product != nil {
			opts := components.Links.Resolve(reply.Product)
			buy = &opts
		}
	}
	exitOnError("Output", cli.WriteChatReply(os.Stdout, &reply, buy, format))
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Products       int                    `json:"products"`
	Branches       int                    `json:"branches"`
	Carts          int64                  `json:"carts"`
	StoredProducts int64                  `json:"stored_products"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	flags := addClientFlags(fs)
	_ = fs.Parse(os.Args[2:])
	format := flags.format()

	var status statusResponse
	if *flags.serverURL != "" {
		exitOnError("Status", getJSON(*flags.serverURL+"/api/v1/status", &status))
	} else {
		components, _ := flags.localComponents()
		defer components.Close()
		ctx := context.Background()
		carts, err := components.Storage.CountCarts(ctx)
		exitOnError("Count carts", err)
		stored, err := components.Storage.CountProducts(ctx)
		exitOnError("Count products", err)
		snap := components.Catalog.Snapshot()
		status = statusResponse{
			Products:       snap.Len(),
			Branches:       len(snap.Branches()),
			Carts:          carts,
			StoredProducts: stored,
		}
	}

	if format == cli.OutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnError("Output", enc.Encode(status))
		return
	}
	fmt.Printf("products:         %d   # distinct products in the live catalog\n", status.Products)
	fmt.Printf("branches:         %d\n", status.Branches)
	fmt.Printf("carts:            %d\n", status.Carts)
	fmt.Printf("stored_products:  %d   # products added at runtime\n", status.StoredProducts)
	if status.DiskUsageBytes != nil {
		fmt.Printf("disk_usage_bytes: %d\n", *status.DiskUsageBytes)
	}
	for _, key := range []string{"storage_driver", "catalog_path", "database_path"} {
		if v, ok := status.Config[key]; ok && v != "" {
			fmt.Printf("%-17s %v\n", key+":", v)
		}
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	out := fs.String("out", "", "output file (.yaml, .yml or .xlsx)")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if *out == "" || fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: studentgear import --out <file.yaml|file.xlsx> [input.yaml|input.xlsx]")
		os.Exit(1)
	}
	n, err := convertCatalog(fs.Arg(0), *out)
	exitOnError("Import", err)
	fmt.Printf("Wrote %d products to %s\n", n, *out)
}

// convertCatalog reads the catalog at in (the built-in catalog when empty) and
// writes it to out in the format given by out's extension.
func convertCatalog(in, out string) (int, error) {
	snap, err := loadCatalog(in)
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".yaml", ".yml":
		err = catalog.SaveYAML(out, snap)
	case ".xlsx":
		err = catalog.WriteXLSX(out, snap)
	default:
		return 0, fmt.Errorf("unsupported output format %q (use .yaml, .yml or .xlsx)", filepath.Ext(out))
	}
	if err != nil {
		return 0, err
	}
	return snap.Len(), nil
}

func postJSON(target string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := httpClient.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func getJSON(target string, out interface{}) error {
	resp, err := httpClient.Get(target)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
