package config

import (
	"os"
	"testing"
	"time"

	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxCrawlDepth != DefaultMaxCrawlDepth {
		t.Errorf("MaxCrawlDepth = %d, want %d", cfg.MaxCrawlDepth, DefaultMaxCrawlDepth)
	}
	if cfg.CrawlDelay != DefaultCrawlDelay {
		t.Errorf("CrawlDelay = %v, want %v", cfg.CrawlDelay, DefaultCrawlDelay)
	}
	want := []extractor.Name{extractor.Simple, extractor.Config}
	if len(cfg.ParsersToUse) != len(want) {
		t.Fatalf("ParsersToUse = %v, want %v", cfg.ParsersToUse, want)
	}
	for i := range want {
		if cfg.ParsersToUse[i] != want[i] {
			t.Errorf("ParsersToUse[%d] = %q, want %q", i, cfg.ParsersToUse[i], want[i])
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("MAX_CRAWL_DEPTH", "5")
	os.Setenv("CRAWL_DELAY", "2s")
	os.Setenv("PARSERS_TO_USE", "simple,ai")
	defer os.Unsetenv("MAX_CRAWL_DEPTH")
	defer os.Unsetenv("CRAWL_DELAY")
	defer os.Unsetenv("PARSERS_TO_USE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxCrawlDepth != 5 {
		t.Errorf("MaxCrawlDepth = %d, want 5", cfg.MaxCrawlDepth)
	}
	if cfg.CrawlDelay != 2*time.Second {
		t.Errorf("CrawlDelay = %v, want 2s", cfg.CrawlDelay)
	}
	want := []extractor.Name{extractor.Simple, extractor.AI}
	if len(cfg.ParsersToUse) != len(want) || cfg.ParsersToUse[1] != extractor.AI {
		t.Errorf("ParsersToUse = %v, want %v", cfg.ParsersToUse, want)
	}
}

func TestLoad_RejectsNonPositiveMaxCrawlDepth(t *testing.T) {
	os.Setenv("MAX_CRAWL_DEPTH", "0")
	defer os.Unsetenv("MAX_CRAWL_DEPTH")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for MAX_CRAWL_DEPTH=0")
	}
}
