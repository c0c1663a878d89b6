package api

import (
	"github.com/jmylchreest/prodcrawl/internal/engine"
	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

// crawlRequest is the POST /crawl body, per spec.md §6.
type crawlRequest struct {
	Domains  []string `json:"domains" binding:"required"`
	MaxDepth int      `json:"max_depth" binding:"required"`
}

// crawlAcceptedResponse is returned immediately on dispatch.
type crawlAcceptedResponse struct {
	TaskID   string   `json:"task_id"`
	Status   string   `json:"status"`
	Domains  []string `json:"domains"`
	MaxDepth int      `json:"max_depth"`
}

// taskResponse is the GET /task/{task_id} body. Info carries the latest
// progress event and is kept once the job finishes; Result is set on
// SUCCESS and Error on FAILURE. A job that has not yet reported progress
// populates none of the three.
type taskResponse struct {
	TaskID string      `json:"task_id"`
	Status TaskStatus  `json:"status"`
	Info   *progressDT `json:"info,omitempty"`
	Result *reportDT   `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type progressDT struct {
	Status         engine.Status `json:"status"`
	Domain         string        `json:"domain"`
	Depth          int           `json:"depth"`
	DepthProgress  float64       `json:"depth_progress"`
	BatchProgress  float64       `json:"batch_progress"`
	URLsDiscovered int           `json:"urls_discovered"`
}

// parserStatsDT is the wire shape of engine.ParserStats: invariants 3/4
// in spec.md §8 are about the internal map-of-sets form, but the
// response schema (§6) only ever needs the domain *count*.
type parserStatsDT struct {
	Total   int `json:"total"`
	Unique  int `json:"unique"`
	Domains int `json:"domains"`
}

// reportDT is the aggregate report schema, per spec.md §6.
type reportDT struct {
	Status       string                   `json:"status"`
	TaskID       string                   `json:"task_id"`
	DurationSecs float64                  `json:"duration"`
	Domains      []string                 `json:"domains"`
	URLsCount    map[string]int           `json:"urls_count"`
	TotalURLs    int                      `json:"total_urls"`
	ParserStats  map[extractor.Name]parserStatsDT `json:"parser_stats"`
	URLsByParser map[extractor.Name]int  `json:"urls_by_parser"`
}

func toProgressDT(ev *engine.ProgressEvent) *progressDT {
	if ev == nil {
		return nil
	}
	return &progressDT{
		Status:         ev.Status,
		Domain:         ev.Domain,
		Depth:          ev.Depth,
		DepthProgress:  ev.DepthProgress,
		BatchProgress:  ev.BatchProgress,
		URLsDiscovered: ev.URLsDiscovered,
	}
}

func toReportDT(r *engine.CrawlReport) *reportDT {
	if r == nil {
		return nil
	}
	stats := make(map[extractor.Name]parserStatsDT, len(r.ParserStats))
	for name, s := range r.ParserStats {
		stats[name] = parserStatsDT{
			Total:   s.Total,
			Unique:  s.Unique,
			Domains: len(s.Domains),
		}
	}
	return &reportDT{
		Status:       r.Status,
		TaskID:       r.TaskID,
		DurationSecs: r.Duration.Seconds(),
		Domains:      r.Domains,
		URLsCount:    r.URLsCount,
		TotalURLs:    r.TotalURLs,
		ParserStats:  stats,
		URLsByParser: r.URLsByParser,
	}
}

// urlsResponse is the GET /urls/{task_id}/{domain} body, per spec.md §6.
type urlsResponse struct {
	Source    string   `json:"source"`
	TaskID    string   `json:"task_id"`
	Domain    string   `json:"domain"`
	URLsCount int      `json:"urls_count"`
	URLs      []string `json:"urls"`
	Timestamp *string  `json:"timestamp,omitempty"`
}

// healthResponse is the GET /health body.
type healthResponse struct {
	Status       string `json:"status"`
	FastStore    bool   `json:"fast_store_reachable"`
	DurableStore bool   `json:"durable_store_reachable,omitempty"`
}
