package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	apppkg "github.com/kk-code-lab/rpeek/internal/app"
	"github.com/kk-code-lab/rpeek/internal/config"
	"github.com/kk-code-lab/rpeek/internal/content"
	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/metrics"
	"github.com/kk-code-lab/rpeek/internal/preview"
	"github.com/kk-code-lab/rpeek/internal/store"
)

const userAgent = "rpeek/0.1"

func printHelp() {
	fmt.Printf(`rpeek - Terminal previewer for remote file storage

USAGE:
    rpeek [OPTIONS]

OPTIONS:
    -h, --help              Show this help message and exit
    -c, --config FILE       Read configuration from FILE
                            (default: %s/config.yaml)

Settings can also be given as RPEEK_* environment variables,
for example RPEEK_STORE_BASE_URL.
`, config.GetConfigDir())
}

func main() {
	// UTF-8 fallback keeps non-ASCII file names readable on odd locales.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	configPath := ""
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			printHelp()
			os.Exit(0)
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file argument\n", arg)
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown option %q (see rpeek --help)\n", arg)
			os.Exit(2)
		}
	}

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logging.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen); err != nil {
				logging.Error("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	client, err := store.New(store.Config{
		BaseURL:   cfg.Store.BaseURL,
		Timeout:   cfg.Store.Timeout,
		AuthToken: cfg.Store.Token,
		Limit:     cfg.Search.Limit,
	})
	if err != nil {
		return err
	}
	fetcher := content.NewHTTPFetcher(content.HTTPFetcherConfig{
		AuthToken: cfg.Store.Token,
		UserAgent: userAgent,
	})

	source := cfg.Store.BaseURL
	if u, err := url.Parse(cfg.Store.BaseURL); err == nil && u.Host != "" {
		source = u.Host
	}

	logging.Info("starting", zap.String("store", source))
	app, err := apppkg.NewApplication(apppkg.Options{
		Recent:        client,
		Searcher:      client,
		Loader:        preview.NewAsyncLoader(fetcher, cfg.Preview.FetchTimeout),
		QuietInterval: cfg.Search.QuietInterval,
		RecentLimit:   cfg.Search.RecentLimit,
		Source:        source,
	})
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return nil
}
