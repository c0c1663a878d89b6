// Package config loads prodcrawl's environment-driven configuration,
// following the split the teacher uses between a library's functional
// options (pkg/refyne/options.go) and the CLI's viper-bound environment
// (cmd/refyne/commands/root.go): this package owns the typed, validated
// Config struct; cmd/prodcrawl/commands binds cobra flags onto the same
// viper instance on top of it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

// Config holds every environment-configurable tunable in spec.md §6.
type Config struct {
	// Fast store (Redis).
	FastStoreAddr     string
	FastStorePassword string
	FastStoreDB       int

	// Durable store (MongoDB).
	DurableStoreURI string
	DurableStoreDB  string

	// Model provider, for the AI extractor.
	ModelProvider string
	ModelAPIKey   string
	ModelName     string

	LogDir string

	CrawlDelay    time.Duration
	MaxRetries    int
	Timeout       time.Duration
	MaxCrawlDepth int
	ParsersToUse  []extractor.Name
}

// Defaults matching spec.md §6: "MAX_CRAWL_DEPTH (default 3)" is the
// only default the spec states explicitly; the rest follow
// engine.DefaultConfig()'s reasoning applied to the same tunables.
const (
	DefaultCrawlDelay    = 1 * time.Second
	DefaultMaxRetries    = 3
	DefaultTimeout       = 30 * time.Second
	DefaultMaxCrawlDepth = 3
)

// Load reads Config from the environment, following the teacher's
// viper.SetEnvPrefix/AutomaticEnv/BindEnv wiring in
// cmd/refyne/commands/root.go. Unlike the teacher (which binds a single
// "REFYNE" prefix), prodcrawl's env vars are unprefixed, unabbreviated
// names already fixed by spec.md §6 (CRAWL_DELAY, MAX_RETRIES, ...), so
// BindEnv is called once per key instead of relying on a prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	bind(v, "FAST_STORE_ADDR", "localhost:6379")
	bind(v, "FAST_STORE_PASSWORD", "")
	bind(v, "FAST_STORE_DB", "0")
	bind(v, "DURABLE_STORE_URI", "mongodb://localhost:27017")
	bind(v, "DURABLE_STORE_DB", "prodcrawl")
	bind(v, "MODEL_PROVIDER", "")
	bind(v, "MODEL_API_KEY", "")
	bind(v, "MODEL_NAME", "")
	bind(v, "LOG_DIR", "")
	bind(v, "CRAWL_DELAY", DefaultCrawlDelay.String())
	bind(v, "MAX_RETRIES", fmt.Sprintf("%d", DefaultMaxRetries))
	bind(v, "TIMEOUT", DefaultTimeout.String())
	bind(v, "MAX_CRAWL_DEPTH", fmt.Sprintf("%d", DefaultMaxCrawlDepth))
	bind(v, "PARSERS_TO_USE", "simple,config")

	crawlDelay, err := time.ParseDuration(v.GetString("CRAWL_DELAY"))
	if err != nil {
		return nil, fmt.Errorf("config: CRAWL_DELAY: %w", err)
	}
	timeout, err := time.ParseDuration(v.GetString("TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("config: TIMEOUT: %w", err)
	}

	cfg := &Config{
		FastStoreAddr:     v.GetString("FAST_STORE_ADDR"),
		FastStorePassword: v.GetString("FAST_STORE_PASSWORD"),
		FastStoreDB:       v.GetInt("FAST_STORE_DB"),
		DurableStoreURI:   v.GetString("DURABLE_STORE_URI"),
		DurableStoreDB:    v.GetString("DURABLE_STORE_DB"),
		ModelProvider:     v.GetString("MODEL_PROVIDER"),
		ModelAPIKey:       v.GetString("MODEL_API_KEY"),
		ModelName:         v.GetString("MODEL_NAME"),
		LogDir:            v.GetString("LOG_DIR"),
		CrawlDelay:        crawlDelay,
		MaxRetries:        v.GetInt("MAX_RETRIES"),
		Timeout:           timeout,
		MaxCrawlDepth:     v.GetInt("MAX_CRAWL_DEPTH"),
		ParsersToUse:      parseParsers(v.GetString("PARSERS_TO_USE")),
	}

	if cfg.MaxCrawlDepth < 1 {
		return nil, fmt.Errorf("config: MAX_CRAWL_DEPTH must be >= 1, got %d", cfg.MaxCrawlDepth)
	}
	return cfg, nil
}

// bind sets a default for key and binds its environment variable, in
// the teacher's root.go style (one BindEnv call per lookup), except
// unconditional rather than multi-source since spec.md §6 names exactly
// one env var per setting.
func bind(v *viper.Viper, key, def string) {
	v.SetDefault(key, def)
	_ = v.BindEnv(key)
}

// parseParsers turns a comma-separated PARSERS_TO_USE value into the
// ordered extractor.Name list the engine's Config.ParsersToUse expects.
func parseParsers(raw string) []extractor.Name {
	parts := strings.Split(raw, ",")
	names := make([]extractor.Name, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, extractor.Name(p))
		}
	}
	return names
}
