package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandevgo/recall/internal/core"
)

func newTestDB(t *testing.T) *TaskResultsRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "recall_test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskResultsRepo(db)
}

func TestTaskResults_QualityOrderingWithRecencyTieBreak(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	seed := []core.TaskExecutionRecord{
		{TaskDescription: "summarize article X", QualityScore: 0.9, ActualOutput: "good summary"},
		{TaskDescription: "summarize article X", QualityScore: 0.4, ActualOutput: "weak summary"},
		{TaskDescription: "summarize article X", QualityScore: 0.9, ActualOutput: "newer good summary"},
	}
	for _, rec := range seed {
		if err := repo.Add(ctx, rec); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	got, err := repo.Search(ctx, "summarize article X", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	// Highest quality first, most recent first among equals.
	if got[0].ActualOutput != "newer good summary" {
		t.Errorf("expected most recent 0.9 record first, got %q", got[0].ActualOutput)
	}
	if got[1].ActualOutput != "good summary" {
		t.Errorf("expected older 0.9 record second, got %q", got[1].ActualOutput)
	}
	if got[2].QualityScore != 0.4 {
		t.Errorf("expected 0.4 record last, got %v", got[2].QualityScore)
	}
}

func TestTaskResults_MinQualityBoundary(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	for _, q := range []float64{0.3, 0.35, 0.4} {
		if err := repo.Add(ctx, core.TaskExecutionRecord{TaskDescription: "t", QualityScore: q}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	// Records exactly at the cutoff are included.
	got, err := repo.Search(ctx, "t", 10, 0.35)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records at threshold 0.35, got %d", len(got))
	}
	for _, rec := range got {
		if rec.QualityScore < 0.35 {
			t.Errorf("record below threshold leaked: %v", rec.QualityScore)
		}
	}
}

func TestTaskResults_FuzzyMatchOnDescription(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	if err := repo.Add(ctx, core.TaskExecutionRecord{TaskDescription: "research the Q3 sales numbers", QualityScore: 0.8}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got, err := repo.Search(ctx, "Q3 sales", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected substring match, got %d records", len(got))
	}

	got, err = repo.Search(ctx, "unrelated task", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no match, got %d records", len(got))
	}
}

func TestTaskResults_MetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	rec := core.TaskExecutionRecord{
		TaskDescription: "plan the trip",
		QualityScore:    0.7,
		Metadata:        map[string]string{"agent": "planner", "attempt": "2"},
	}
	if err := repo.Add(ctx, rec); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got, err := repo.Search(ctx, "plan the trip", 1, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Metadata["agent"] != "planner" || got[0].Metadata["attempt"] != "2" {
		t.Errorf("metadata mismatch: %+v", got[0].Metadata)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}
}

func TestTaskResults_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestDB(t)

	if err := repo.Add(ctx, core.TaskExecutionRecord{TaskDescription: "t", QualityScore: 0.5}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}

	got, err := repo.Search(ctx, "t", 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty store after clear, got %d", len(got))
	}
}
