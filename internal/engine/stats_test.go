package engine

import (
	"testing"

	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

func TestAttribution_FirstWriteWins(t *testing.T) {
	a := NewAttribution()

	a.Record(extractor.Simple, "https://example.com/product/1", "example.com")
	a.Record(extractor.Config, "https://example.com/product/1", "example.com")

	parser, ok := a.FirstFinder("https://example.com/product/1")
	if !ok || parser != extractor.Simple {
		t.Errorf("FirstFinder() = (%v, %v), want (simple, true)", parser, ok)
	}

	snap := a.Snapshot()
	if snap[extractor.Simple].Unique != 1 {
		t.Errorf("simple.Unique = %d, want 1", snap[extractor.Simple].Unique)
	}
	if snap[extractor.Config].Unique != 0 {
		t.Errorf("config.Unique = %d, want 0 (simple should own first_finder)", snap[extractor.Config].Unique)
	}
	if snap[extractor.Config].Total != 1 {
		t.Errorf("config.Total = %d, want 1", snap[extractor.Config].Total)
	}
}

func TestAttribution_DiscoveredCountMatchesSumOfUnique(t *testing.T) {
	a := NewAttribution()
	a.Record(extractor.Simple, "https://example.com/product/1", "example.com")
	a.Record(extractor.Simple, "https://example.com/product/2", "example.com")
	a.Record(extractor.Config, "https://example.com/product/2", "example.com")
	a.Record(extractor.Config, "https://example.com/product/3", "example.com")

	snap := a.Snapshot()
	sum := 0
	for _, s := range snap {
		sum += s.Unique
	}
	if sum != a.DiscoveredCount() {
		t.Errorf("sum of Unique = %d, DiscoveredCount() = %d, want equal", sum, a.DiscoveredCount())
	}
	if a.DiscoveredCount() != 3 {
		t.Errorf("DiscoveredCount() = %d, want 3", a.DiscoveredCount())
	}
}

func TestAttribution_TracksDomains(t *testing.T) {
	a := NewAttribution()
	a.Record(extractor.Simple, "https://a.test/x", "a.test")
	a.Record(extractor.Simple, "https://b.test/y", "b.test")

	snap := a.Snapshot()
	if len(snap[extractor.Simple].Domains) != 2 {
		t.Errorf("simple.Domains = %v, want 2 entries", snap[extractor.Simple].Domains)
	}
}
