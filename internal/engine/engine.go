package engine

import (
	"context"
	"sync"
	"time"

	"github.com/jmylchreest/prodcrawl/internal/logger"
	"github.com/jmylchreest/prodcrawl/pkg/extractor"
	"github.com/jmylchreest/prodcrawl/pkg/fetcher"
	"github.com/jmylchreest/prodcrawl/pkg/storage"
)

// CrawlTask is a client's request to crawl a set of seed domains to a
// given depth, per spec.md §3.
type CrawlTask struct {
	TaskID   string
	Domains  []string
	MaxDepth int
}

// Engine orchestrates DomainPipelines across a CrawlTask's seed
// domains, fanning out with a bounded worker pool (SPEC_FULL.md §E.1)
// and aggregating their reports. It is the direct generalization of the
// teacher's Crawler (internal/crawler/crawler.go): the same
// semaphore-plus-WaitGroup concurrency shape, now bounding parallel
// DomainPipelines instead of parallel page fetches within one crawl.
type Engine struct {
	cfg        Config
	fetcher    fetcher.Fetcher
	extractors map[extractor.Name]extractor.Extractor
	store      storage.Storage
	sideWriter *storage.SideWriter
}

// New constructs an Engine. extractors need not cover every
// extractor.Name; cfg.ParsersToUse entries with no matching extractor
// are silently skipped per page (see DomainPipeline.runParsers).
func New(cfg Config, f fetcher.Fetcher, extractors map[extractor.Name]extractor.Extractor, store storage.Storage, sideWriter *storage.SideWriter) *Engine {
	return &Engine{
		cfg:        cfg.normalize(),
		fetcher:    f,
		extractors: extractors,
		store:      store,
		sideWriter: sideWriter,
	}
}

// Run validates task, then runs one DomainPipeline per seed domain,
// returning the aggregate CrawlReport. Per spec.md §7, only input
// validation is surfaced as an error; a per-domain PipelineFatal
// failure is captured in that domain's report and does not fail Run.
func (e *Engine) Run(ctx context.Context, task CrawlTask, progress ProgressFunc) (*CrawlReport, error) {
	if err := validate(task); err != nil {
		return nil, err
	}

	start := time.Now()
	reports := e.runDomains(ctx, task, progress)

	report := Aggregate(task.TaskID, start, reports)
	logger.Info("engine crawl complete",
		"task_id", task.TaskID,
		"domains", len(task.Domains),
		"total_urls", report.TotalURLs,
		"duration", report.Duration)
	return report, nil
}

func validate(task CrawlTask) error {
	if len(task.Domains) == 0 {
		return &InvalidInputError{Reason: "domains must be non-empty"}
	}
	if task.MaxDepth < 1 {
		return &InvalidInputError{Reason: "max_depth must be >= 1"}
	}
	return nil
}

// runDomains fans out across task.Domains with a worker pool bounded by
// cfg.WorkerCount, per spec.md §5's "deployment-level worker count."
func (e *Engine) runDomains(ctx context.Context, task CrawlTask, progress ProgressFunc) []*DomainReport {
	sem := make(chan struct{}, e.cfg.WorkerCount)
	var wg sync.WaitGroup
	var mu sync.Mutex
	reports := make([]*DomainReport, 0, len(task.Domains))

	for _, seed := range task.Domains {
		sem <- struct{}{}
		wg.Add(1)
		go func(seed string) {
			defer wg.Done()
			defer func() { <-sem }()

			report := e.runDomain(ctx, task.TaskID, seed, task.MaxDepth, progress)

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(seed)
	}
	wg.Wait()

	return reports
}

// runDomain runs a single DomainPipeline, converting a construction
// failure (e.g. an unparsable seed) into an ERROR-status report rather
// than letting it escape and poison the rest of the fan-out, per
// spec.md §4.6's ERROR transition and §7's PipelineFatal handling.
func (e *Engine) runDomain(ctx context.Context, taskID, seed string, maxDepth int, progress ProgressFunc) *DomainReport {
	pipeline, err := NewDomainPipeline(taskID, seed, maxDepth, e.cfg, e.fetcher, e.extractors, e.store, e.sideWriter, progress)
	if err != nil {
		logger.Warn("engine domain pipeline failed to start", "task_id", taskID, "seed", seed, "error", err)
		return &DomainReport{
			Domain: seed,
			Status: StatusError,
			Err:    &PipelineError{Domain: seed, Cause: err},
		}
	}
	return pipeline.Run(ctx)
}
