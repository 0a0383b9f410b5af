// Package main is the zeta CLI entry point.
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

	"github.com/zetasearch/zeta/internal/config"
	"github.com/zetasearch/zeta/internal/embedding"
	"github.com/zetasearch/zeta/internal/esclient"
	"github.com/zetasearch/zeta/internal/ingest"
	"github.com/zetasearch/zeta/internal/search"
	"github.com/zetasearch/zeta/internal/server"
	"github.com/zetasearch/zeta/internal/storage"
	"github.com/zetasearch/zeta/internal/watcher"
	"github.com/zetasearch/zeta/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/zeta/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence, so running from the project dir
// uses the project's config. Returns the config and the path actually loaded.
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
	case "ingest":
		runIngest()
	case "reembed":
		runReembed()
	case "health":
		runHealth()
	case "version", "--version", "-v":
		fmt.Printf("zeta version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func setup(configPath string, debugFlag bool) (*config.Config, string, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debugFlag)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolvedPath, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, logger := setup(*configPath, *debug)
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedPath))

	client, err := newClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to elasticsearch", zap.Error(err))
	}
	if err := client.EnsureIndex(context.Background(), cfg.Elastic.Index, esclient.ArticleMapping); err != nil {
		logger.Fatal("Failed to prepare article index", zap.Error(err))
	}

	engine := search.NewEngine(client, cfg.Elastic.Index, &cfg.Search, logger)
	suggester := search.NewSuggester(client, cfg.Elastic.Index, cfg.Search.MaxSuggestions, logger)
	srv := server.NewServer(engine, suggester, &cfg.Server, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var spool *watcher.SpoolWatcher
	if len(cfg.Ingest.SpoolDirectories) > 0 {
		ledger, err := storage.OpenLedger(cfg.Ingest.LedgerPath)
		if err != nil {
			logger.Fatal("Failed to open ingest ledger", zap.Error(err))
		}
		defer ledger.Close()

		pipeline, err := ingest.NewPipeline(client, ledger, cfg.Elastic.Index, &cfg.Ingest, logger)
		if err != nil {
			logger.Fatal("Failed to create ingest pipeline", zap.Error(err))
		}
		defer pipeline.Close()

		spool = watcher.NewSpoolWatcher(cfg.Ingest.SpoolDirectories, func(path string) {
			if _, err := pipeline.Run(context.Background(), path); err != nil {
				logger.Warn("spool ingest failed", zap.String("path", path), zap.Error(err))
			}
		}, logger)
		if err := spool.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start spool watcher", zap.Error(err))
		}
		if err := spool.SyncExisting(); err != nil {
			logger.Warn("spool sync failed", zap.Error(err))
		}
	}

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
	if spool != nil {
		spool.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: zeta ingest [flags] <dump.xml | dump.xml.bz2>")
		os.Exit(1)
	}
	dumpPath := fs.Arg(0)

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	client, err := newClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to elasticsearch", zap.Error(err))
	}
	if err := client.EnsureIndex(context.Background(), cfg.Elastic.Index, esclient.ArticleMapping); err != nil {
		logger.Fatal("Failed to prepare article index", zap.Error(err))
	}

	ledger, err := storage.OpenLedger(cfg.Ingest.LedgerPath)
	if err != nil {
		logger.Fatal("Failed to open ingest ledger", zap.Error(err))
	}
	defer ledger.Close()

	pipeline, err := ingest.NewPipeline(client, ledger, cfg.Elastic.Index, &cfg.Ingest, logger)
	if err != nil {
		logger.Fatal("Failed to create ingest pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	stats, err := pipeline.Run(context.Background(), dumpPath)
	if err != nil {
		logger.Fatal("Ingest failed", zap.Error(err))
	}
	fmt.Printf("Ingest finished: %d pages read, %d indexed, %d dropped, %d failed, %d skipped\n",
		stats.PagesRead, stats.Indexed, stats.Dropped, stats.Failed, stats.Skipped)
}

func runReembed() {
	fs := flag.NewFlagSet("reembed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	mock := fs.Bool("mock-embedder", false, "use the deterministic mock embedder instead of the ONNX model")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	client, err := newClient(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to elasticsearch", zap.Error(err))
	}

	var embedder embedding.Embedder
	if *mock {
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		minilm, err := embedding.NewMiniLM(&cfg.Embedding)
		if err != nil {
			logger.Warn("ONNX model unavailable, using mock embedder", zap.Error(err))
			embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
		} else {
			embedder = minilm
		}
	}
	defer embedder.Close()

	reembedder := ingest.NewReembedder(client, embedder, cfg.Elastic.Index, cfg.Elastic.SemanticIndex, &cfg.Ingest, logger)
	stats, err := reembedder.Run(context.Background())
	if err != nil {
		logger.Fatal("Reembed failed", zap.Error(err))
	}
	fmt.Printf("Reembed finished: %d scanned, %d skipped, %d embedded, %d failed\n",
		stats.Scanned, stats.Skipped, stats.Embedded, stats.Failed)
}

func runHealth() {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()

	client, err := newClient(cfg, logger)
	if err != nil {
		fmt.Printf("unhealthy: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		fmt.Println("unhealthy: elasticsearch unreachable")
		os.Exit(1)
	}
	fmt.Println("ok")
}

func newClient(cfg *config.Config, logger *zap.Logger) (esclient.Client, error) {
	return esclient.New(esclient.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
		APIKey:    cfg.Elastic.APIKey,
	}, logger)
}

func printUsage() {
	fmt.Println(`zeta - wiki article search service

Usage:
  zeta server [flags]                       Start the HTTP API
  zeta ingest [flags] <dump.xml[.bz2]>      Load a wiki dump into the index
  zeta reembed [flags]                      Migrate articles into the semantic index
  zeta health [flags]                       Check elasticsearch reachability
  zeta version                              Show version
  zeta help                                 Show this help

Flags:
  --config string    Config file path (default: /usr/local/etc/zeta/config.yaml)
  --debug            Enable debug logging

Reembed Flags:
  --mock-embedder    Use the deterministic mock embedder instead of the ONNX model

Examples:
  zeta server
  zeta ingest dumps/enwiki-latest-pages-articles.xml.bz2
  zeta reembed --mock-embedder
  zeta health`)
}
