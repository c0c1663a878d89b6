package extractor

import (
	"context"
	"reflect"
	"testing"
)

func TestPatternExtractor_Parse(t *testing.T) {
	html := `
<html><body>
<a href="/product/42">Widget</a>
<a href="/about">About</a>
<a href="/p/99?utm_source=x">Gadget</a>
</body></html>`

	e := NewPattern(nil)
	got := e.Parse(context.Background(), html, "https://example.com/")

	want := []string{"https://example.com/p/99", "https://example.com/product/42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestPatternExtractor_Parse_Dedup(t *testing.T) {
	html := `
<html><body>
<a href="/product/1">A</a>
<a href="/product/1">A again</a>
</body></html>`

	e := NewPattern(nil)
	got := e.Parse(context.Background(), html, "https://example.com/")

	if len(got) != 1 {
		t.Fatalf("expected 1 deduplicated URL, got %v", got)
	}
}

func TestPatternExtractor_Parse_MalformedBase(t *testing.T) {
	e := NewPattern(nil)
	got := e.Parse(context.Background(), "<a href=\"/product/1\">x</a>", "://not-a-url")
	if got != nil {
		t.Errorf("expected nil result for malformed base URL, got %v", got)
	}
}

func TestPatternExtractor_Name(t *testing.T) {
	if (&PatternExtractor{}).Name() != Simple {
		t.Error("expected Name() to return Simple")
	}
}
