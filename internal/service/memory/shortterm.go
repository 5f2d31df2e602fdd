package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

// ShortTerm holds ephemeral, task-scoped recall items over a vector
// store. It has no autonomous eviction; callers clear it between crew
// executions.
//
// Failure policy is asymmetric on purpose: a failed embedding aborts
// the write so new knowledge is never silently dropped, while any
// failure on search degrades to empty results so retrieval never
// blocks on a transient provider or store fault.
type ShortTerm struct {
	store    core.VectorStore
	embedder core.Embedder
}

func NewShortTerm(store core.VectorStore, embedder core.Embedder) *ShortTerm {
	return &ShortTerm{
		store:    store,
		embedder: embedder,
	}
}

func (s *ShortTerm) Save(ctx context.Context, content string, metadata map[string]string) error {
	if s.embedder == nil {
		return fmt.Errorf("%w: no embedding provider configured", core.ErrEmbedding)
	}

	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed content: %w", err)
	}

	item := core.MemoryItem{
		ID:        uuid.NewString(),
		Content:   content,
		Vector:    vec,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	return s.store.Upsert(ctx, item)
}

func (s *ShortTerm) Search(ctx context.Context, query string, limit int, threshold float32) ([]core.MemoryItem, error) {
	if s.embedder == nil {
		return nil, nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("short-term query embedding failed, degrading to empty results")
		return nil, nil
	}

	items, err := s.store.Query(ctx, vec, limit, threshold)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("short-term search failed, degrading to empty results")
		return nil, nil
	}
	return items, nil
}

func (s *ShortTerm) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
