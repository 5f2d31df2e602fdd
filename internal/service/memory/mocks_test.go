package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sandevgo/recall/internal/core"
)

// stubEmbedder returns a fixed vector for every input, or fails when
// told to.
type stubEmbedder struct {
	vec  []float32
	fail bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, errors.New("provider unavailable")
	}
	if s.vec != nil {
		return s.vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Dimensions() int {
	if s.vec != nil {
		return len(s.vec)
	}
	return 3
}

// memStore is an in-memory core.VectorStore keyed by item ID. Query
// returns everything in insertion order, ignoring similarity.
type memStore struct {
	mu      sync.Mutex
	items   map[string]core.MemoryItem
	order   []string
	upserts int

	queryErr           error
	lastQueryLimit     int
	lastQueryThreshold float32
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]core.MemoryItem)}
}

func (m *memStore) Upsert(ctx context.Context, item core.MemoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		m.order = append(m.order, item.ID)
	}
	m.items[item.ID] = item
	m.upserts++
	return nil
}

func (m *memStore) Query(ctx context.Context, vector []float32, limit int, threshold float32) ([]core.MemoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQueryLimit = limit
	m.lastQueryThreshold = threshold
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	var out []core.MemoryItem
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Get(ctx context.Context, id string) (core.MemoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return core.MemoryItem{}, core.ErrNotFound
	}
	return item, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]core.MemoryItem)
	m.order = nil
	return nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
