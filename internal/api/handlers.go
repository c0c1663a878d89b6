package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/prodcrawl/internal/domain"
	"github.com/jmylchreest/prodcrawl/internal/engine"
	"github.com/jmylchreest/prodcrawl/internal/logger"
)

// postCrawl handles POST /crawl: validates the request, dispatches the
// CrawlTask in a background goroutine, and returns immediately with a
// task_id the caller polls via GET /task/{task_id}. Per spec.md §7, only
// input validation fails synchronously; everything else is absorbed
// into the job's eventual FAILURE status.
func (s *Server) postCrawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Domains) == 0 || req.MaxDepth < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domains must be non-empty and max_depth must be >= 1"})
		return
	}

	taskID := newTaskID()
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		taskID:    taskID,
		domains:   req.Domains,
		maxDepth:  req.MaxDepth,
		createdAt: time.Now(),
		cancel:    cancel,
		status:    TaskPending,
	}
	s.jobs.store(j)

	go s.runJob(ctx, j)

	c.JSON(http.StatusOK, crawlAcceptedResponse{
		TaskID:   taskID,
		Status:   "Crawling started",
		Domains:  req.Domains,
		MaxDepth: req.MaxDepth,
	})
}

func (s *Server) runJob(ctx context.Context, j *job) {
	j.setStatus(TaskStarted)

	task := engine.CrawlTask{TaskID: j.taskID, Domains: j.domains, MaxDepth: j.maxDepth}
	report, err := s.engine.Run(ctx, task, func(ev engine.ProgressEvent) {
		j.setProgress(ev)
	})
	if err != nil {
		logger.Warn("api job failed", "task_id", j.taskID, "error", err)
		j.setFailure(err)
		return
	}
	j.setResult(report)
}

// getTask handles GET /task/{task_id}.
func (s *Server) getTask(c *gin.Context) {
	taskID := c.Param("task_id")
	j, ok := s.jobs.load(taskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown task_id"})
		return
	}

	status, info, result, errMsg := j.snapshot()
	c.JSON(http.StatusOK, taskResponse{
		TaskID: taskID,
		Status: status,
		Info:   toProgressDT(info),
		Result: toReportDT(result),
		Error:  errMsg,
	})
}

// deleteTask handles DELETE /task/{task_id}?terminate=bool. Per spec.md
// §6, only a job in PENDING/STARTED/RETRY (here: PENDING/STARTED/
// PROGRESS) can be revoked; anything else reports that it cannot be.
func (s *Server) deleteTask(c *gin.Context) {
	taskID := c.Param("task_id")
	j, ok := s.jobs.load(taskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown task_id"})
		return
	}

	if !j.revocable() {
		c.JSON(http.StatusOK, gin.H{"task_id": taskID, "message": "task cannot be revoked"})
		return
	}

	terminate := c.Query("terminate") == "true"
	if terminate && j.cancel != nil {
		j.cancel()
	}
	j.setStatus(TaskRevoked)
	c.JSON(http.StatusOK, gin.H{"task_id": taskID, "message": "task revoked"})
}

// getURLs handles GET /urls/{task_id}/{domain}: fast store first,
// durable store fallback, per spec.md §6.
func (s *Server) getURLs(c *gin.Context) {
	taskID := c.Param("task_id")
	rawDomain := c.Param("domain")
	unescaped, err := url.PathUnescape(rawDomain)
	if err != nil {
		unescaped = rawDomain
	}
	// Requests name a domain the way a URL would (example.com); records are
	// keyed by simplified_domain (example_com). Simplify bridges the two, the
	// same derivation engine.DomainPipeline applies on the write side.
	simplified, err := domain.Simplify(unescaped)
	if err != nil {
		simplified = unescaped
	}

	urls, err := s.store.GetFast(c.Request.Context(), taskID, simplified)
	if err == nil && len(urls) > 0 {
		c.JSON(http.StatusOK, urlsResponse{
			Source:    "fast",
			TaskID:    taskID,
			Domain:    simplified,
			URLsCount: len(urls),
			URLs:      urls,
		})
		return
	}

	rec, err := s.store.GetDurable(c.Request.Context(), taskID, simplified)
	if err != nil || rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no URLs found for task_id/domain"})
		return
	}

	ts := rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	c.JSON(http.StatusOK, urlsResponse{
		Source:    "durable",
		TaskID:    taskID,
		Domain:    simplified,
		URLsCount: len(rec.URLs),
		URLs:      rec.URLs,
		Timestamp: &ts,
	})
}

// getHealth handles GET /health: reports service liveness plus
// fast-store reachability, per spec.md §6. The probe reads a sentinel
// key rather than requiring a Ping method on Storage, since a miss (key
// not found) is itself proof the store answered.
func (s *Server) getHealth(c *gin.Context) {
	_, err := s.store.GetFast(c.Request.Context(), "__health__", "__health__")
	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		FastStore: err == nil,
	})
}
