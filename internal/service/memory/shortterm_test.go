package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/recall/internal/core"
)

func TestShortTermSave(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	st := NewShortTerm(store, &stubEmbedder{})

	if err := st.Save(ctx, "agent decided to use the search tool", map[string]string{"agent": "researcher"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if store.len() != 1 {
		t.Fatalf("expected 1 stored item, got %d", store.len())
	}
	items, _ := store.Query(ctx, nil, 10, 0)
	item := items[0]
	if item.ID == "" {
		t.Error("expected a generated id")
	}
	if item.Content != "agent decided to use the search tool" {
		t.Errorf("unexpected content: %q", item.Content)
	}
	if len(item.Vector) == 0 {
		t.Error("expected an embedding vector on the stored item")
	}
	if item.Metadata["agent"] != "researcher" {
		t.Errorf("metadata not preserved: %v", item.Metadata)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
}

func TestShortTermSaveFailsHardOnEmbedError(t *testing.T) {
	store := newMemStore()
	st := NewShortTerm(store, &stubEmbedder{fail: true})

	err := st.Save(context.Background(), "must not be dropped silently", nil)
	if err == nil {
		t.Fatal("expected an error when embedding fails on write")
	}
	if store.len() != 0 {
		t.Errorf("expected nothing stored after a failed write, got %d items", store.len())
	}
}

func TestShortTermSearchDegradesOnEmbedError(t *testing.T) {
	st := NewShortTerm(newMemStore(), &stubEmbedder{fail: true})

	items, err := st.Search(context.Background(), "anything", 5, 0.35)
	if err != nil {
		t.Fatalf("expected read-path degradation, got error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty results, got %d", len(items))
	}
}

func TestShortTermSearchDegradesOnStoreError(t *testing.T) {
	store := newMemStore()
	store.queryErr = errors.New("index corrupt")
	st := NewShortTerm(store, &stubEmbedder{})

	items, err := st.Search(context.Background(), "anything", 5, 0.35)
	if err != nil {
		t.Fatalf("expected read-path degradation, got error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty results, got %d", len(items))
	}
}

func TestShortTermWithoutEmbedder(t *testing.T) {
	st := NewShortTerm(newMemStore(), nil)
	ctx := context.Background()

	err := st.Save(ctx, "content", nil)
	if !errors.Is(err, core.ErrEmbedding) {
		t.Errorf("expected ErrEmbedding on save, got %v", err)
	}

	items, err := st.Search(ctx, "query", 5, 0)
	if err != nil || items != nil {
		t.Errorf("expected silent empty search, got items=%v err=%v", items, err)
	}
}

func TestShortTermSearchPassesLimitAndThreshold(t *testing.T) {
	store := newMemStore()
	st := NewShortTerm(store, &stubEmbedder{})

	if _, err := st.Search(context.Background(), "query", 7, 0.42); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if store.lastQueryLimit != 7 {
		t.Errorf("limit not passed through, got %d", store.lastQueryLimit)
	}
	if store.lastQueryThreshold != 0.42 {
		t.Errorf("threshold not passed through, got %v", store.lastQueryThreshold)
	}
}

func TestShortTermClear(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	st := NewShortTerm(store, &stubEmbedder{})

	_ = st.Save(ctx, "one", nil)
	_ = st.Save(ctx, "two", nil)
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.len() != 0 {
		t.Errorf("expected empty store after clear, got %d items", store.len())
	}
}
