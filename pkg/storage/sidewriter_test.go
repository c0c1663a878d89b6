package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSideWriter_WritesJSONAndCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewSideWriter(dir, true, true)

	urls := []string{"https://example.com/a", "https://example.com/b"}
	if err := w.Write("task1", "example_com", urls); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	jsonPath := filepath.Join(dir, "task1", "example_com.json")
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", jsonPath, err)
	}
	var got []string
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(got) != 2 || got[0] != urls[0] || got[1] != urls[1] {
		t.Errorf("json side output = %v, want %v", got, urls)
	}

	csvPath := filepath.Join(dir, "task1", "example_com.csv")
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("expected csv side output at %s: %v", csvPath, err)
	}
}

func TestSideWriter_NilIsNoop(t *testing.T) {
	var w *SideWriter
	if err := w.Write("task1", "example_com", []string{"https://example.com/a"}); err != nil {
		t.Errorf("Write() on nil *SideWriter error = %v, want nil", err)
	}
}

func TestSideWriter_DisabledFormatSkipped(t *testing.T) {
	dir := t.TempDir()
	w := NewSideWriter(dir, true, false)

	if err := w.Write("task1", "example_com", []string{"https://example.com/a"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "task1", "example_com.csv")); !os.IsNotExist(err) {
		t.Errorf("expected no csv file when CSV disabled, stat err = %v", err)
	}
}
