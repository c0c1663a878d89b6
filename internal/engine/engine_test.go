package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/jmylchreest/prodcrawl/pkg/storage"
)

func TestEngine_Run_RejectsEmptyDomains(t *testing.T) {
	e := New(testConfig(), &fakeFetcher{}, testExtractors(), storage.NewMemory(), nil)

	_, err := e.Run(context.Background(), CrawlTask{TaskID: "T1", Domains: nil, MaxDepth: 1}, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Run() error = %v, want ErrInvalidInput", err)
	}
}

func TestEngine_Run_RejectsNonPositiveMaxDepth(t *testing.T) {
	e := New(testConfig(), &fakeFetcher{}, testExtractors(), storage.NewMemory(), nil)

	_, err := e.Run(context.Background(), CrawlTask{TaskID: "T1", Domains: []string{"https://example.com/"}, MaxDepth: 0}, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Run() error = %v, want ErrInvalidInput", err)
	}
}

func TestEngine_Run_AggregatesAcrossDomains(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://a.test/": `<a href="/product/1">A</a>`,
		"https://b.test/": `<a href="/product/2">B</a>`,
	}}
	e := New(testConfig(), f, testExtractors(), storage.NewMemory(), nil)

	report, err := e.Run(context.Background(), CrawlTask{
		TaskID:   "T1",
		Domains:  []string{"https://a.test/", "https://b.test/"},
		MaxDepth: 1,
	}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.TotalURLs != 2 {
		t.Errorf("TotalURLs = %d, want 2", report.TotalURLs)
	}
	if len(report.Domains) != 2 {
		t.Errorf("Domains = %v, want 2 entries", report.Domains)
	}
}

func TestEngine_Run_OneBadSeedDoesNotFailOthers(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://a.test/": `<a href="/product/1">A</a>`,
	}}
	e := New(testConfig(), f, testExtractors(), storage.NewMemory(), nil)

	report, err := e.Run(context.Background(), CrawlTask{
		TaskID:   "T1",
		Domains:  []string{"https://a.test/", "not-a-url"},
		MaxDepth: 1,
	}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.URLsCount["a.test"] != 1 {
		t.Errorf("URLsCount[a.test] = %d, want 1", report.URLsCount["a.test"])
	}
}

func TestEngine_Run_ProgressCallbackInvoked(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://a.test/": `<a href="/product/1">A</a>`,
	}}
	e := New(testConfig(), f, testExtractors(), storage.NewMemory(), nil)

	var events []ProgressEvent
	_, err := e.Run(context.Background(), CrawlTask{
		TaskID:   "T1",
		Domains:  []string{"https://a.test/"},
		MaxDepth: 1,
	}, func(ev ProgressEvent) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(events) == 0 {
		t.Error("expected at least one progress event")
	}
}
