package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	domainpkg "github.com/jmylchreest/prodcrawl/internal/domain"
	"github.com/jmylchreest/prodcrawl/internal/logger"
	"github.com/jmylchreest/prodcrawl/pkg/extractor"
	"github.com/jmylchreest/prodcrawl/pkg/fetcher"
	"github.com/jmylchreest/prodcrawl/pkg/storage"
	"github.com/jmylchreest/prodcrawl/pkg/urlnorm"
)

// maxCandidatesPerPage short-circuits the parser pipeline once a page
// has yielded this many candidates, per spec.md §4.2.
const maxCandidatesPerPage = 5

// minCandidatesForExpansion gates the Sequential Expander, per
// spec.md §4.6 step 4.
const minCandidatesForExpansion = 3

// retryableURLMarkers flags URLs worth retrying once on an empty body,
// per spec.md §4.6 step 2 and SPEC_FULL.md §D (original tasks.py).
var retryableURLMarkers = []string{"product", "category", "collection"}

// emptyBodyRetryDelay is the pause before the single empty-body retry.
const emptyBodyRetryDelay = 2 * time.Second

// DomainPipeline runs the BFS-by-depth state machine spec.md §4.6
// describes for one seed URL. It replaces the teacher's Crawler
// (internal/crawler/crawler.go), which followed a flat single-priority
// queue to extract schema-shaped data from pages; this pipeline fetches
// only to discover product URLs, drains one full depth before the next,
// and persists incrementally.
type DomainPipeline struct {
	taskID   string
	seed     string
	host     string
	simple   string // simplified_domain
	maxDepth int

	cfg        Config
	fetcher    fetcher.Fetcher
	extractors map[extractor.Name]extractor.Extractor
	store      storage.Storage
	sideWriter *storage.SideWriter
	progress   ProgressFunc

	frontier    *Frontier
	attribution *Attribution
	log         *slog.Logger

	mu          sync.Mutex
	productURLs []string
	productSet  map[string]struct{}

	status Status
}

// NewDomainPipeline constructs a pipeline for one seed URL.
func NewDomainPipeline(
	taskID, seed string,
	maxDepth int,
	cfg Config,
	f fetcher.Fetcher,
	extractors map[extractor.Name]extractor.Extractor,
	store storage.Storage,
	sideWriter *storage.SideWriter,
	progress ProgressFunc,
) (*DomainPipeline, error) {
	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("engine: invalid seed URL %q: %w", seed, err)
	}
	simplified, err := domainpkg.Simplify(seed)
	if err != nil {
		return nil, fmt.Errorf("engine: cannot derive simplified_domain for %q: %w", seed, err)
	}

	return &DomainPipeline{
		taskID:      taskID,
		seed:        seed,
		host:        u.Host,
		simple:      simplified,
		maxDepth:    maxDepth,
		cfg:         cfg.normalize(),
		fetcher:     f,
		extractors:  extractors,
		store:       store,
		sideWriter:  sideWriter,
		progress:    progress,
		frontier:    NewFrontier(),
		attribution: NewAttribution(),
		log:         logger.TaskLogger(taskID, simplified),
		productSet:  make(map[string]struct{}),
		status:      StatusInit,
	}, nil
}

// Run drives the pipeline through every depth, persisting incrementally,
// and returns its final report. Fetch, parser and storage failures are
// absorbed per spec.md §7 and never end the pipeline early. Cancelling
// ctx stops further fetches; Run still makes a final persist attempt and
// returns a report with status DONE.
func (p *DomainPipeline) Run(ctx context.Context) *DomainReport {
	p.status = StatusCrawling
	frontierURLs := []string{p.seed}

	// depth is 1-based: the seed is depth 1, matching spec.md §8
	// invariant 6's "no URL at depth > max_depth is fetched" literally.
	depth := 1
	for {
		select {
		case <-ctx.Done():
			p.finalPersist(context.Background())
			return p.report(StatusDone)
		default:
		}

		accumulator := newNextDepthAccumulator()
		p.runDepth(ctx, frontierURLs, depth, accumulator)

		p.persist(ctx)
		p.emitProgress(depth, 1.0)

		next := accumulator.Ranked()
		if len(next) == 0 || depth >= p.maxDepth {
			break
		}
		frontierURLs = next
		depth++
	}

	p.finalPersist(ctx)
	return p.report(StatusDone)
}

// runDepth fetches every unvisited URL in frontierURLs in batches of at
// most cfg.BatchSize concurrent requests, pausing cfg.CrawlDelay between
// batches, per spec.md §5.
func (p *DomainPipeline) runDepth(ctx context.Context, frontierURLs []string, depth int, acc *nextDepthAccumulator) {
	total := len(frontierURLs)
	for start := 0; start < total; start += p.cfg.BatchSize {
		select {
		case <-ctx.Done():
			return
		default:
		}

		end := start + p.cfg.BatchSize
		if end > total {
			end = total
		}
		batch := frontierURLs[start:end]

		var wg sync.WaitGroup
		for _, u := range batch {
			if !p.frontier.MarkVisited(u) {
				continue
			}
			wg.Add(1)
			go func(pageURL string) {
				defer wg.Done()
				p.processURL(ctx, pageURL, depth, acc)
			}(u)
		}
		wg.Wait()

		p.emitProgress(depth, float64(end)/float64(total))

		if end < total {
			if err := sleepCtx(ctx, p.cfg.CrawlDelay); err != nil {
				return
			}
		}
	}
}

// processURL fetches one page, runs the parser pipeline, optionally
// expands sequentially, and feeds the next-depth accumulator, per
// spec.md §4.6 steps 2-5.
func (p *DomainPipeline) processURL(ctx context.Context, pageURL string, depth int, acc *nextDepthAccumulator) {
	if p.cfg.CrawlDelay > 0 {
		if err := sleepCtx(ctx, p.cfg.CrawlDelay); err != nil {
			return
		}
	}

	content, err := p.fetchWithEmptyBodyRetry(ctx, pageURL)
	if err != nil {
		p.log.Debug("engine fetch failed", "url", pageURL, "error", err)
		return
	}
	if content.HTML == "" {
		p.log.Debug("engine empty page body", "url", pageURL)
		return
	}

	candidates := p.runParsers(ctx, content.HTML, pageURL)

	if len(candidates) >= minCandidatesForExpansion {
		if expanded := Expand(candidates); len(expanded) > 0 {
			for _, u := range expanded {
				p.recordCandidate(extractor.Sequential, u, p.host)
			}
			candidates = append(candidates, expanded...)
		}
	}

	if depth < p.maxDepth {
		for _, link := range FindLinks(content.HTML, pageURL, p.host) {
			acc.Add(link, p.frontier)
		}
	}
}

// runParsers runs the configured extractors in PARSERS_TO_USE order,
// recording first_finder attribution, short-circuiting once
// maxCandidatesPerPage URLs have been gathered on this page, per
// spec.md §4.2.
func (p *DomainPipeline) runParsers(ctx context.Context, html, pageURL string) []string {
	var candidates []string
	for _, name := range p.cfg.ParsersToUse {
		ext := p.extractors[name]
		if ext == nil {
			continue
		}
		for _, raw := range ext.Parse(ctx, html, pageURL) {
			normalized, err := urlnorm.Normalize(raw)
			if err != nil {
				continue
			}
			p.recordCandidate(name, normalized, p.host)
			candidates = append(candidates, normalized)
		}
		if len(candidates) >= maxCandidatesPerPage {
			break
		}
	}
	return candidates
}

// recordCandidate attributes candidateURL to parser and adds it to the
// pipeline's accumulated product-URL set if new.
func (p *DomainPipeline) recordCandidate(parser extractor.Name, candidateURL, pageHost string) {
	p.attribution.Record(parser, candidateURL, pageHost)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.productSet[candidateURL]; ok {
		return
	}
	p.productSet[candidateURL] = struct{}{}
	p.productURLs = append(p.productURLs, candidateURL)
}

// fetchWithEmptyBodyRetry fetches pageURL, retrying once after
// emptyBodyRetryDelay if the body is empty and the URL looks like a
// product/category/collection page, per spec.md §4.6 step 2.
func (p *DomainPipeline) fetchWithEmptyBodyRetry(ctx context.Context, pageURL string) (fetcher.Content, error) {
	content, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return content, err
	}
	if content.HTML != "" || !containsAny(pageURL, retryableURLMarkers) {
		return content, nil
	}
	if err := sleepCtx(ctx, emptyBodyRetryDelay); err != nil {
		return content, nil
	}
	retried, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return content, nil
	}
	return retried, nil
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// persist writes the currently accumulated product-URL set to both
// storage tiers and the optional side writer. Storage failures are
// logged and absorbed, per spec.md §7: the next periodic persist is the
// recovery point.
func (p *DomainPipeline) persist(ctx context.Context) {
	p.mu.Lock()
	urls := make([]string, len(p.productURLs))
	copy(urls, p.productURLs)
	p.mu.Unlock()

	if len(urls) == 0 {
		return
	}
	if err := p.store.SaveURLs(ctx, p.taskID, p.simple, urls); err != nil {
		p.log.Warn("engine storage persist failed", "error", err)
	}
	if p.sideWriter != nil {
		if err := p.sideWriter.Write(p.taskID, p.simple, urls); err != nil {
			p.log.Warn("engine side-writer failed", "error", err)
		}
	}
}

func (p *DomainPipeline) finalPersist(ctx context.Context) {
	p.status = StatusFinalizing
	p.persist(ctx)
}

func (p *DomainPipeline) emitProgress(depth int, depthProgress float64) {
	if p.progress == nil {
		return
	}
	p.mu.Lock()
	discovered := len(p.productURLs)
	p.mu.Unlock()
	p.progress(ProgressEvent{
		Status:         p.status,
		Domain:         p.host,
		Depth:          depth,
		DepthProgress:  depthProgress,
		URLsDiscovered: discovered,
	})
}

func (p *DomainPipeline) report(status Status) *DomainReport {
	p.mu.Lock()
	urls := make([]string, len(p.productURLs))
	copy(urls, p.productURLs)
	p.mu.Unlock()

	stats := p.attribution.Snapshot()
	byParser := make(map[extractor.Name]int, len(stats))
	for name, s := range stats {
		byParser[name] = s.Unique
	}

	return &DomainReport{
		Domain:           p.host,
		SimplifiedDomain: p.simple,
		Status:           status,
		URLs:             urls,
		ParserStats:      stats,
		URLsByParser:     byParser,
	}
}

// sleepCtx sleeps for d or returns ctx.Err() if ctx is cancelled first,
// matching pkg/fetcher's context-aware sleep helper.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
