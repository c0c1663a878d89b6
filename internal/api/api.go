// Package api implements the Control API (spec.md §6) that fronts the
// crawl engine: POST /crawl dispatches a CrawlTask in the background and
// returns immediately with a task_id; GET /task/{task_id} polls its
// Celery-shaped status; DELETE /task/{task_id} revokes it if it hasn't
// finished; GET /urls/{task_id}/{domain} reads the two-tier store
// directly, fast store first; GET /health reports liveness.
//
// The teacher has no HTTP front-end of its own, so this package is
// grounded on the pack's one gin-based async-job handler
// (other_examples' purify api-handler-crawl.go.go): an in-memory job
// store keyed by task_id, a background goroutine per job, and a status
// poll endpoint — adapted from that job shape to the engine's
// CrawlTask/CrawlReport types and spec.md's PENDING/STARTED/PROGRESS/
// SUCCESS/FAILURE vocabulary.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/prodcrawl/internal/engine"
	"github.com/jmylchreest/prodcrawl/pkg/storage"
)

// Server holds the dependencies the Control API's handlers close over.
type Server struct {
	engine *engine.Engine
	store  storage.Storage
	jobs   *jobStore
}

// NewServer constructs a Server wrapping an already-configured engine
// and the storage tier the engine itself writes to.
func NewServer(eng *engine.Engine, store storage.Storage) *Server {
	return &Server{
		engine: eng,
		store:  store,
		jobs:   newJobStore(),
	}
}

// NewRouter builds the gin.Engine exposing the Control API. CORS is
// enabled permissively, matching the original FastAPI front-end
// (SPEC_FULL.md §D) so a browser dashboard can call it directly without
// a same-origin proxy.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.POST("/crawl", s.postCrawl)
	r.GET("/task/:task_id", s.getTask)
	r.DELETE("/task/:task_id", s.deleteTask)
	r.GET("/urls/:task_id/:domain", s.getURLs)
	r.GET("/health", s.getHealth)

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
