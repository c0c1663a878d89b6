package engine

// Status enumerates the lifecycle a CrawlTask and each DomainPipeline
// move through, per spec.md §4.6's state machine and §6's Control API
// status enum.
type Status string

const (
	StatusInit       Status = "INIT"
	StatusCrawling   Status = "CRAWLING"
	StatusFinalizing Status = "FINALIZING"
	StatusDone       Status = "DONE"
	StatusError      Status = "ERROR"
)

// ProgressEvent is the payload delivered to a crawl's progress callback.
// It is a superset of spec.md §4.6's minimal {status, domain, depth,
// depth_progress, urls_discovered} by one BatchProgress field
// (SPEC_FULL.md §D). DomainPipeline emits events only after a batch or a
// whole depth has drained and does not set BatchProgress, so it is
// always 0 in the events the engine delivers.
//
// Progress callbacks may be reordered across domains and batches;
// consumers must treat them as eventually-consistent snapshots, per
// spec.md §5.
type ProgressEvent struct {
	Status         Status
	Domain         string
	Depth          int
	DepthProgress  float64 // fraction of the current depth's frontier drained, [0,1]
	BatchProgress  float64 // not set by DomainPipeline; always 0
	URLsDiscovered int     // cumulative product URLs for this domain so far
}

// ProgressFunc receives ProgressEvent notifications. The engine never
// raises across this boundary (spec.md §7): implementations should not
// panic, but a panicking callback cannot be protected against here
// without also hiding genuine programming errors, so callers are
// expected to keep it side-effect-light (metrics, task-store updates).
type ProgressFunc func(ProgressEvent)
