package journal_test

import (
	"context"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/framefold/resolvebridge/internal/bridge/journal"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
)

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := journal.Open(path, log.Default())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen(t *testing.T) {
	t.Run("empty path rejected", func(t *testing.T) {
		if _, err := journal.Open("   ", nil); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("reopen keeps records", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "journal.db")
		j, err := journal.Open(path, nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		j.Record(ctx, "create_project", outcome.OK, "", 12*time.Millisecond)
		if err := j.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		j, err = journal.Open(path, nil)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer j.Close()
		entries, err := j.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(entries) != 1 || entries[0].Operation != "create_project" {
			t.Fatalf("entries = %+v", entries)
		}
	})
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	j.Record(ctx, "create_project", outcome.OK, "", 10*time.Millisecond)
	j.Record(ctx, "open_page", outcome.OK, "", 2*time.Millisecond)
	j.Record(ctx, "set_current_timeline", outcome.NotFound, `timeline "Reel 9" not found`, 5*time.Millisecond)

	entries, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Operation != "set_current_timeline" || entries[2].Operation != "create_project" {
		t.Fatalf("order = %s, %s, %s", entries[0].Operation, entries[1].Operation, entries[2].Operation)
	}
	if entries[0].Kind != string(outcome.NotFound) {
		t.Fatalf("kind = %q", entries[0].Kind)
	}
	if entries[0].Detail != `timeline "Reel 9" not found` {
		t.Fatalf("detail = %q", entries[0].Detail)
	}
	if entries[0].DurationMS != 5 {
		t.Fatalf("duration = %d", entries[0].DurationMS)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatal("created at is zero")
	}
}

func TestRecentClamping(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	for i := 0; i < journal.DefaultRecent+5; i++ {
		j.Record(ctx, "get_status", outcome.OK, "", time.Millisecond)
	}

	t.Run("non-positive n defaults", func(t *testing.T) {
		entries, err := j.Recent(ctx, 0)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(entries) != journal.DefaultRecent {
			t.Fatalf("len = %d, want %d", len(entries), journal.DefaultRecent)
		}
	})

	t.Run("oversized n capped", func(t *testing.T) {
		entries, err := j.Recent(ctx, journal.MaxRecent*10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(entries) != journal.DefaultRecent+5 {
			t.Fatalf("len = %d", len(entries))
		}
	})
}

func TestNilJournal(t *testing.T) {
	ctx := context.Background()
	var j *journal.Journal

	// Record and Close are nil-safe so a disabled journal costs nothing.
	j.Record(ctx, "get_status", outcome.OK, "", time.Millisecond)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := j.Recent(ctx, 5); err == nil {
		t.Fatal("Recent on nil journal should fail")
	}
}
