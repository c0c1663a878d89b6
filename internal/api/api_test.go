package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/prodcrawl/internal/engine"
	"github.com/jmylchreest/prodcrawl/pkg/extractor"
	"github.com/jmylchreest/prodcrawl/pkg/fetcher"
	"github.com/jmylchreest/prodcrawl/pkg/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (fetcher.Content, error) {
	html, ok := f.pages[url]
	if !ok {
		return fetcher.Content{}, fetcher.ErrNoContent
	}
	return fetcher.Content{URL: url, HTML: html, StatusCode: 200, FetchedAt: time.Now()}, nil
}

func (f *fakeFetcher) Close() error { return nil }
func (f *fakeFetcher) Type() string { return "fake" }

func testServer(f fetcher.Fetcher) (*Server, storage.Storage) {
	store := storage.NewMemory()
	extractors := map[extractor.Name]extractor.Extractor{
		extractor.Simple: extractor.NewPattern(nil),
	}
	cfg := engine.Config{ParsersToUse: []extractor.Name{extractor.Simple}}
	eng := engine.New(cfg, f, extractors, store, nil)
	return NewServer(eng, store), store
}

func waitForTerminal(t *testing.T, r *gin.Engine, taskID string) taskResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/task/"+taskID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var resp taskResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode /task response: %v", err)
		}
		if resp.Status == TaskSuccess || resp.Status == TaskFailure {
			return resp
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("task did not reach a terminal state in time")
	return taskResponse{}
}

func TestPostCrawl_RejectsEmptyDomains(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	body, _ := json.Marshal(map[string]any{"domains": []string{}, "max_depth": 1})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPostCrawl_RejectsNonPositiveMaxDepth(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	body, _ := json.Marshal(map[string]any{"domains": []string{"https://a.test/"}, "max_depth": 0})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPostCrawl_DispatchesAndTaskReachesSuccess(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://a.test/": `<a href="/product/1">A</a>`,
	}}
	s, _ := testServer(f)
	r := NewRouter(s)

	body, _ := json.Marshal(map[string]any{"domains": []string{"https://a.test/"}, "max_depth": 1})
	req := httptest.NewRequest(http.MethodPost, "/crawl", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var accepted crawlAcceptedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.Status != "Crawling started" || accepted.TaskID == "" {
		t.Fatalf("accepted = %+v", accepted)
	}

	final := waitForTerminal(t, r, accepted.TaskID)
	if final.Status != TaskSuccess {
		t.Fatalf("final status = %v, want SUCCESS (error=%q)", final.Status, final.Error)
	}
	if final.Result == nil || final.Result.TotalURLs != 1 {
		t.Errorf("final.Result = %+v, want TotalURLs=1", final.Result)
	}
}

func TestGetTask_UnknownTaskID(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/task/does-not-exist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteTask_RevokesPendingJob(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	j := &job{taskID: "T1", status: TaskPending, createdAt: time.Now(), cancel: func() {}}
	s.jobs.store(j)

	req := httptest.NewRequest(http.MethodDelete, "/task/T1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	status, _, _, _ := j.snapshot()
	if status != TaskRevoked {
		t.Errorf("job status = %v, want REVOKED", status)
	}
}

func TestDeleteTask_CannotRevokeFinishedJob(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	j := &job{taskID: "T1", status: TaskSuccess, createdAt: time.Now()}
	s.jobs.store(j)

	req := httptest.NewRequest(http.MethodDelete, "/task/T1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["message"] != "task cannot be revoked" {
		t.Errorf("message = %v, want \"task cannot be revoked\"", body["message"])
	}
}

func TestGetURLs_FastStoreHit(t *testing.T) {
	s, store := testServer(&fakeFetcher{})
	r := NewRouter(s)

	if err := store.SaveURLs(context.Background(), "T1", "a_test", []string{"https://a.test/product/1"}); err != nil {
		t.Fatalf("SaveURLs() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/urls/T1/a_test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp urlsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Source != "fast" || resp.URLsCount != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetURLs_DottedDomainResolvesToSimplifiedKey(t *testing.T) {
	s, store := testServer(&fakeFetcher{})
	r := NewRouter(s)

	if err := store.SaveURLs(context.Background(), "T1", "example_com", []string{"https://example.com/product/1"}); err != nil {
		t.Fatalf("SaveURLs() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/urls/T1/example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var resp urlsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Domain != "example_com" || resp.URLsCount != 1 {
		t.Errorf("resp = %+v, want Domain=example_com URLsCount=1", resp)
	}
}

func TestGetURLs_NotFound(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/urls/T1/nope_test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetHealth(t *testing.T) {
	s, _ := testServer(&fakeFetcher{})
	r := NewRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("resp.Status = %q, want ok", resp.Status)
	}
}
