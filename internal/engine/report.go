package engine

import (
	"time"

	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

// DomainReport is the result of one DomainPipeline, per spec.md §4.6:
// product-URL count, parser_stats, and per-parser counts of
// first-finds.
type DomainReport struct {
	Domain           string
	SimplifiedDomain string
	Status           Status
	URLs             []string
	ParserStats      map[extractor.Name]*ParserStats
	URLsByParser     map[extractor.Name]int
	Err              error
}

// CrawlReport is the aggregate task-level result, matching the schema
// in spec.md §6.
type CrawlReport struct {
	TaskID       string
	Status       string
	Duration     time.Duration
	Domains      []string
	URLsCount    map[string]int
	TotalURLs    int
	ParserStats  map[extractor.Name]*ParserStats
	URLsByParser map[extractor.Name]int
}

// Aggregate combines per-domain reports into the task-level report, per
// spec.md §4.6: "Aggregation sums domain reports; parser_stats.domains
// becomes the union of host sets; urls_by_parser sums first-find
// counts." A domain whose pipeline ended in StatusError still
// contributes to Domains/URLsCount (with zero URLs) — per spec.md §7, a
// PipelineFatal failure fails only that domain, never the aggregate.
func Aggregate(taskID string, start time.Time, reports []*DomainReport) *CrawlReport {
	report := &CrawlReport{
		TaskID:       taskID,
		Status:       "completed",
		Duration:     time.Since(start),
		URLsCount:    make(map[string]int, len(reports)),
		ParserStats:  make(map[extractor.Name]*ParserStats),
		URLsByParser: make(map[extractor.Name]int),
	}

	for _, r := range reports {
		report.Domains = append(report.Domains, r.Domain)
		report.URLsCount[r.Domain] = len(r.URLs)
		report.TotalURLs += len(r.URLs)

		for name, s := range r.ParserStats {
			agg := report.ParserStats[name]
			if agg == nil {
				agg = newParserStats()
				report.ParserStats[name] = agg
			}
			agg.Total += s.Total
			agg.Unique += s.Unique
			for d := range s.Domains {
				agg.Domains[d] = struct{}{}
			}
		}
		for name, count := range r.URLsByParser {
			report.URLsByParser[name] += count
		}
	}

	return report
}
