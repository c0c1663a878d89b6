package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SideWriter mirrors a task's persisted URLs to flat JSON/CSV files on
// disk, per spec.md §4.5: explicitly optional, engine-agnostic, never
// required for correctness. The engine calls Write after every persist
// when one is configured.
type SideWriter struct {
	Dir  string
	JSON bool
	CSV  bool
}

// NewSideWriter returns a side writer rooted at dir, emitting the
// formats enabled by json/csv.
func NewSideWriter(dir string, json, csv bool) *SideWriter {
	return &SideWriter{Dir: dir, JSON: json, CSV: csv}
}

// Write persists the current URL set for (taskID, simplifiedDomain) to
// the configured formats, overwriting any prior snapshot for that pair.
func (w *SideWriter) Write(taskID, simplifiedDomain string, urls []string) error {
	if w == nil {
		return nil
	}
	base := filepath.Join(w.Dir, taskID)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("storage: sidewriter mkdir %s: %w", base, err)
	}

	if w.JSON {
		if err := w.writeJSON(base, simplifiedDomain, urls); err != nil {
			return err
		}
	}
	if w.CSV {
		if err := w.writeCSV(base, simplifiedDomain, urls); err != nil {
			return err
		}
	}
	return nil
}

func (w *SideWriter) writeJSON(base, simplifiedDomain string, urls []string) error {
	path := filepath.Join(base, simplifiedDomain+".json")
	b, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: sidewriter marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("storage: sidewriter write %s: %w", path, err)
	}
	return nil
}

func (w *SideWriter) writeCSV(base, simplifiedDomain string, urls []string) error {
	path := filepath.Join(base, simplifiedDomain+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: sidewriter create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()
	if err := cw.Write([]string{"url"}); err != nil {
		return fmt.Errorf("storage: sidewriter write header %s: %w", path, err)
	}
	for _, u := range urls {
		if err := cw.Write([]string{u}); err != nil {
			return fmt.Errorf("storage: sidewriter write row %s: %w", path, err)
		}
	}
	return nil
}
