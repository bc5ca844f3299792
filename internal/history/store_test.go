package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, Entry{
		SourcePath:  "/in/a.gif",
		OutputPath:  "/out/a.gif",
		Strategy:    "optimized",
		Quality:     80,
		Colors:      128,
		InputBytes:  1000,
		OutputBytes: 400,
		Duration:    250 * time.Millisecond,
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if _, err := store.Record(ctx, Entry{
		SourcePath: "/in/b.gif",
		OutputPath: "/out/b.gif",
		Strategy:   "copy",
		CreatedAt:  time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("record second: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SourcePath != "/in/b.gif" {
		t.Fatalf("expected newest first, got %s", entries[0].SourcePath)
	}
	if entries[1].Duration != 250*time.Millisecond {
		t.Fatalf("duration not preserved: %v", entries[1].Duration)
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, Entry{SourcePath: "/in", OutputPath: "/out", Strategy: "optimized"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestSavedPercent(t *testing.T) {
	entry := Entry{InputBytes: 1000, OutputBytes: 250}
	if got := entry.SavedPercent(); got != 75 {
		t.Fatalf("expected 75%%, got %v", got)
	}
	if got := (Entry{}).SavedPercent(); got != 0 {
		t.Fatalf("unknown input should report 0, got %v", got)
	}
}
