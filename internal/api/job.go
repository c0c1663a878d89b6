package api

import (
	"context"
	"sync"
	"time"

	"github.com/jmylchreest/prodcrawl/internal/engine"
)

// TaskStatus mirrors the Celery-style status vocabulary spec.md §6
// requires GET /task/{task_id} to report.
type TaskStatus string

const (
	TaskPending  TaskStatus = "PENDING"
	TaskStarted  TaskStatus = "STARTED"
	TaskProgress TaskStatus = "PROGRESS"
	TaskSuccess  TaskStatus = "SUCCESS"
	TaskFailure  TaskStatus = "FAILURE"
	TaskRevoked  TaskStatus = "REVOKED"
)

// job tracks one dispatched CrawlTask from acceptance through
// completion. Fields are guarded by mu since the background goroutine
// writes them while HTTP handlers read them concurrently.
type job struct {
	taskID    string
	domains   []string
	maxDepth  int
	createdAt time.Time
	cancel    context.CancelFunc

	mu     sync.Mutex
	status TaskStatus
	info   *engine.ProgressEvent
	result *engine.CrawlReport
	errMsg string
}

func (j *job) snapshot() (TaskStatus, *engine.ProgressEvent, *engine.CrawlReport, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, j.info, j.result, j.errMsg
}

func (j *job) setStatus(s TaskStatus) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

func (j *job) setProgress(ev engine.ProgressEvent) {
	j.mu.Lock()
	j.status = TaskProgress
	j.info = &ev
	j.mu.Unlock()
}

func (j *job) setResult(report *engine.CrawlReport) {
	j.mu.Lock()
	j.status = TaskSuccess
	j.result = report
	j.mu.Unlock()
}

func (j *job) setFailure(err error) {
	j.mu.Lock()
	j.status = TaskFailure
	j.errMsg = err.Error()
	j.mu.Unlock()
}

// revocable reports whether the job is still in a state the spec allows
// DELETE to revoke: PENDING, STARTED, or (its closest local analogue)
// PROGRESS, all of which mean "not yet finished."
func (j *job) revocable() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.status {
	case TaskPending, TaskStarted, TaskProgress:
		return true
	default:
		return false
	}
}

// jobStore is an in-memory registry of dispatched tasks, the Go
// equivalent of the Celery result backend the original system polls.
// Grounded on the pack's purify api-handler-crawl.go.go, which keeps its
// crawlStore as a sync.Map and expires old entries on a ticker; this
// store does the same rather than growing without bound across a long
// server lifetime.
type jobStore struct {
	m sync.Map // task_id -> *job
}

func newJobStore() *jobStore {
	s := &jobStore{}
	go s.expireLoop()
	return s
}

const jobRetention = 1 * time.Hour

func (s *jobStore) expireLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-jobRetention)
		s.m.Range(func(key, value any) bool {
			j := value.(*job)
			if j.createdAt.Before(cutoff) {
				s.m.Delete(key)
			}
			return true
		})
	}
}

func (s *jobStore) store(j *job) {
	s.m.Store(j.taskID, j)
}

func (s *jobStore) load(taskID string) (*job, bool) {
	v, ok := s.m.Load(taskID)
	if !ok {
		return nil, false
	}
	return v.(*job), true
}
