package commands

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jmylchreest/prodcrawl/internal/config"
	"github.com/jmylchreest/prodcrawl/internal/engine"
	"github.com/jmylchreest/prodcrawl/internal/logger"
	"github.com/jmylchreest/prodcrawl/pkg/extractor"
	"github.com/jmylchreest/prodcrawl/pkg/fetcher"
	"github.com/jmylchreest/prodcrawl/pkg/fetcher/browser"
	"github.com/jmylchreest/prodcrawl/pkg/llm"
	"github.com/jmylchreest/prodcrawl/pkg/storage"
)

// durableCollection is the fixed Mongo collection name for the durable
// store, per spec.md §6: "collection crawler_urls."
const durableCollection = "crawler_urls"

// buildStorage constructs the Storage implementation a command runs
// against. kind "memory" is the zero-dependency default so `crawl` and
// `serve` work without a Redis/Mongo deployment on hand; "twotier"
// wires the real fast/durable pair from cfg, per spec.md §5.
func buildStorage(ctx context.Context, kind string, cfg *config.Config) (storage.Storage, error) {
	switch kind {
	case "", "memory":
		return storage.NewMemory(), nil
	case "twotier":
		fast := storage.NewRedisFast(cfg.FastStoreAddr, cfg.FastStorePassword, cfg.FastStoreDB)

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.DurableStoreURI))
		if err != nil {
			return nil, fmt.Errorf("commands: connect durable store: %w", err)
		}
		durable := storage.NewMongoDurable(client, cfg.DurableStoreDB, durableCollection)

		return storage.NewTwoTier(fast, durable), nil
	default:
		return nil, fmt.Errorf("commands: unknown storage kind %q (want memory or twotier)", kind)
	}
}

// buildExtractors assembles the extractor map an Engine dispatches
// across, keyed by extractor.Name, per spec.md §4.2. The AI extractor
// is only added when cfg.ModelProvider is set, matching
// engine.DefaultConfig's "PARSERS_TO_USE defaults to every extractor
// except AI" reasoning.
func buildExtractors(cfg *config.Config) map[extractor.Name]extractor.Extractor {
	extractors := map[extractor.Name]extractor.Extractor{
		extractor.Simple: extractor.NewPattern(nil),
		extractor.Config: extractor.NewDomainPattern(nil, nil),
	}

	if cfg.ModelProvider == "" {
		return extractors
	}

	providerCfg := llm.DefaultProviderConfig()
	providerCfg.APIKey = cfg.ModelAPIKey
	providerCfg.Model = cfg.ModelName
	if providerCfg.Model == "" {
		providerCfg.Model = llm.GetDefaultModel(cfg.ModelProvider)
	}

	provider, err := llm.NewProvider(cfg.ModelProvider, providerCfg)
	if err != nil {
		logger.Warn("commands: AI extractor disabled", "provider", cfg.ModelProvider, "error", err)
		return extractors
	}
	extractors[extractor.AI] = extractor.NewModel(provider)
	return extractors
}

// buildFetcher returns the static fetcher, wrapped with the chromedp
// browser fallback when useBrowser is set, per spec.md §4.1's optional
// fallback path. Fallback failures never propagate past the fetcher
// interface (see fallbackFetcher.Fetch).
func buildFetcher(cfg *config.Config, useBrowser bool) fetcher.Fetcher {
	opts := fetcher.Options{
		Timeout:    cfg.Timeout,
		Delay:      cfg.CrawlDelay,
		MaxRetries: cfg.MaxRetries,
	}
	static := fetcher.NewStatic(opts)
	if !useBrowser {
		return static
	}
	return &fallbackFetcher{primary: static, fallback: browser.New(opts)}
}

// fallbackFetcher tries the static fetcher first and renders with a
// headless browser only on failure, per spec.md §4.1: "an
// implementation may fall back to a full browser renderer."
type fallbackFetcher struct {
	primary  fetcher.Fetcher
	fallback fetcher.Fetcher
}

func (f *fallbackFetcher) Fetch(ctx context.Context, url string) (fetcher.Content, error) {
	content, err := f.primary.Fetch(ctx, url)
	if err == nil {
		return content, nil
	}
	return f.fallback.Fetch(ctx, url)
}

func (f *fallbackFetcher) Close() error {
	primaryErr := f.primary.Close()
	fallbackErr := f.fallback.Close()
	if primaryErr != nil {
		return primaryErr
	}
	return fallbackErr
}

func (f *fallbackFetcher) Type() string { return "static+browser" }

var _ fetcher.Fetcher = (*fallbackFetcher)(nil)

// buildEngine wires an Engine from cfg plus the command-local overrides
// every subcommand needs (storage backend, browser fallback, optional
// side-writer directory).
func buildEngine(ctx context.Context, cfg *config.Config, storageKind string, useBrowser bool, sideOutputDir string) (*engine.Engine, storage.Storage, error) {
	store, err := buildStorage(ctx, storageKind, cfg)
	if err != nil {
		return nil, nil, err
	}

	var sideWriter *storage.SideWriter
	if sideOutputDir != "" {
		sideWriter = storage.NewSideWriter(sideOutputDir, true, true)
	}

	engCfg := engine.Config{
		ParsersToUse: cfg.ParsersToUse,
		CrawlDelay:   cfg.CrawlDelay,
		MaxRetries:   cfg.MaxRetries,
		Timeout:      cfg.Timeout,
	}
	eng := engine.New(engCfg, buildFetcher(cfg, useBrowser), buildExtractors(cfg), store, sideWriter)
	return eng, store, nil
}
