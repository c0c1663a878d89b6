package storage

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestMemory_SaveAndGetFast(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SaveURLs(ctx, "task1", "example_com", []string{"https://example.com/a", "https://example.com/b"}); err != nil {
		t.Fatalf("SaveURLs() error = %v", err)
	}
	if err := m.SaveURLs(ctx, "task1", "example_com", []string{"https://example.com/b", "https://example.com/c"}); err != nil {
		t.Fatalf("SaveURLs() error = %v", err)
	}

	got, err := m.GetFast(ctx, "task1", "example_com")
	if err != nil {
		t.Fatalf("GetFast() error = %v", err)
	}
	want := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetFast() = %v, want %v", got, want)
	}
}

func TestMemory_GetFast_Expired(t *testing.T) {
	m := NewMemory()
	t0 := time.Now()
	m.now = func() time.Time { return t0 }
	ctx := context.Background()

	if err := m.SaveURLs(ctx, "task1", "example_com", []string{"https://example.com/a"}); err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return t0.Add(FastTTL + time.Second) }
	got, err := m.GetFast(ctx, "task1", "example_com")
	if err != nil {
		t.Fatalf("GetFast() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetFast() after expiry = %v, want nil", got)
	}
}

func TestMemory_GetDurable_MergesAcrossWrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SaveURLs(ctx, "task1", "example_com", []string{"https://example.com/a"}); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveURLs(ctx, "task1", "example_com", []string{"https://example.com/b"}); err != nil {
		t.Fatal(err)
	}

	rec, err := m.GetDurable(ctx, "task1", "example_com")
	if err != nil {
		t.Fatalf("GetDurable() error = %v", err)
	}
	if rec == nil {
		t.Fatal("GetDurable() = nil, want record")
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if !reflect.DeepEqual(rec.URLs, want) {
		t.Errorf("GetDurable().URLs = %v, want %v", rec.URLs, want)
	}
}

func TestMemory_GetDurable_Unknown(t *testing.T) {
	m := NewMemory()
	rec, err := m.GetDurable(context.Background(), "nope", "nope")
	if err != nil {
		t.Fatalf("GetDurable() error = %v", err)
	}
	if rec != nil {
		t.Errorf("GetDurable() = %v, want nil", rec)
	}
}
