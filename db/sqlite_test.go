package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"salarypredict/ml"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entries := []ml.HistoryEntry{
		{Outcome: ml.OutcomeAtMost50K, Latency: 2 * time.Millisecond, At: base},
		{Outcome: ml.OutcomeAbove50K, Latency: 3 * time.Millisecond, At: base.Add(time.Minute)},
		{Failed: true, Error: "Prediction failed: unknown category", At: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(recent))
	}
	if !recent[0].Failed || recent[0].Error == "" {
		t.Fatalf("expected newest entry to be the failure, got %+v", recent[0])
	}
	if recent[1].Outcome != string(ml.OutcomeAbove50K) {
		t.Fatalf("expected %s, got %s", ml.OutcomeAbove50K, recent[1].Outcome)
	}
	if recent[1].LatencyMs != 3 {
		t.Fatalf("expected latency 3ms, got %f", recent[1].LatencyMs)
	}
}

func TestStoreSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, e := range []ml.HistoryEntry{
		{Outcome: ml.OutcomeAtMost50K},
		{Outcome: ml.OutcomeAtMost50K},
		{Outcome: ml.OutcomeAbove50K},
		{Failed: true, Error: "boom"},
	} {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 4 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Outcomes["<=50K"] != 2 || summary.Outcomes[">50K"] != 1 {
		t.Fatalf("unexpected outcome counts: %+v", summary.Outcomes)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
