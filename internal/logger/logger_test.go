package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func resetLogger() {
	Init(Options{})
}

func TestInit_LevelSelection(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{name: "default is info", opts: Options{}, wantInfo: true, wantWarn: true, wantError: true},
		{name: "debug enables everything", opts: Options{Debug: true}, wantDebug: true, wantInfo: true, wantWarn: true, wantError: true},
		{name: "quiet drops everything but error", opts: Options{Quiet: true}, wantError: true},
		{name: "quiet wins over debug", opts: Options{Debug: true, Quiet: true}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.opts.Output = buf
			Init(tt.opts)
			defer resetLogger()

			Debug("d")
			Info("i")
			Warn("w")
			Error("e")
			out := buf.String()

			if got := strings.Contains(out, "msg=d"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v (out=%q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "msg=i"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v (out=%q)", got, tt.wantInfo, out)
			}
			if got := strings.Contains(out, "msg=w"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v (out=%q)", got, tt.wantWarn, out)
			}
			if got := strings.Contains(out, "msg=e"); got != tt.wantError {
				t.Errorf("error logged = %v, want %v (out=%q)", got, tt.wantError, out)
			}
		})
	}
}

func TestInit_JSONHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("engine crawl complete", "task_id", "T1", "total_urls", 12)

	out := buf.String()
	for _, want := range []string{`"msg":"engine crawl complete"`, `"task_id":"T1"`, `"total_urls":12`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %q: %s", want, out)
		}
	}
}

func TestInit_CustomLoggerOverridesOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	alt := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(alt, nil)))

	Info("routed to alt")
	if strings.Contains(buf.String(), "routed to alt") {
		t.Error("message leaked to the buffer Init configured, not SetLogger's")
	}
	if !strings.Contains(alt.String(), "routed to alt") {
		t.Error("expected message on the logger installed via SetLogger")
	}
}

// TestTaskLogger exercises the helper engine.DomainPipeline uses so every
// log line for one crawl task carries task_id (and simplified_domain,
// when known) without the call site repeating them by hand.
func TestTaskLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	TaskLogger("T1", "example_com").Warn("engine storage persist failed", "error", "disk full")

	out := buf.String()
	for _, want := range []string{`"task_id":"T1"`, `"domain":"example_com"`, `"error":"disk full"`} {
		if !strings.Contains(out, want) {
			t.Errorf("TaskLogger output missing %q: %s", want, out)
		}
	}
}

func TestTaskLogger_EmptyDomainOmitsField(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	TaskLogger("T1", "").Info("api job failed")

	if strings.Contains(buf.String(), `"domain"`) {
		t.Errorf("expected no domain field when domain is empty, got: %s", buf.String())
	}
}

func TestWith_ChainsOnCurrentLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	l := With("component", "fetcher")
	l.Warn("fetcher exhausted retries", "url", "https://a.test/", "retries", 3)

	out := buf.String()
	for _, want := range []string{"component=fetcher", "url=https://a.test/", "retries=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
}

func TestContextVariants_LogThroughCurrentLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "model extractor call failed", "provider", "anthropic")
	InfoContext(ctx, "serve listening", "addr", ":8080")
	ErrorContext(ctx, "engine domain pipeline failed to start", "seed", "https://a.test/")

	out := buf.String()
	for _, want := range []string{"model extractor call failed", "serve listening", "engine domain pipeline failed to start"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
}
