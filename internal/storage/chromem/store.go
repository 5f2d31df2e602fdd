package chromem

import (
	"context"
	"fmt"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/sandevgo/recall/internal/core"
)

// metaCreatedAt is a reserved metadata key; item metadata must not use it.
const metaCreatedAt = "created_at"

// Store adapts chromem-go, a pure Go embedded vector database, to the
// core.VectorStore capability. Embeddings are always provided by the
// caller; chromem never computes them.
type Store struct {
	db   *chromem.DB
	name string
	dims int

	// mu is held shared for the whole duration of every collection
	// operation and exclusively by Clear, so a write acknowledged
	// before a clear always landed in the live collection. Readers
	// never block each other.
	mu  sync.RWMutex
	col *chromem.Collection
}

// New opens a persistent store at path. One collection per store.
func New(path, collection string, dims int) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: open vector store %s: %v", core.ErrStorage, path, err)
	}
	return newStore(db, collection, dims)
}

// NewInMemory creates a non-persistent store, used in tests.
func NewInMemory(collection string, dims int) (*Store, error) {
	return newStore(chromem.NewDB(), collection, dims)
}

func newStore(db *chromem.DB, collection string, dims int) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: vector store dimensions must be positive", core.ErrConfiguration)
	}
	col, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection %s: %v", core.ErrStorage, collection, err)
	}
	return &Store{db: db, name: collection, dims: dims, col: col}, nil
}

func (s *Store) Upsert(ctx context.Context, item core.MemoryItem) error {
	if len(item.Vector) != s.dims {
		return fmt.Errorf("%w: vector dimension %d does not match store dimension %d",
			core.ErrConfiguration, len(item.Vector), s.dims)
	}

	metadata := make(map[string]string, len(item.Metadata)+1)
	for k, v := range item.Metadata {
		metadata[k] = v
	}
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	metadata[metaCreatedAt] = createdAt.Format(time.RFC3339Nano)

	doc := chromem.Document{
		ID:        item.ID,
		Content:   item.Content,
		Embedding: item.Vector,
		Metadata:  metadata,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("%w: add document: %v", core.ErrStorage, err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, vector []float32, limit int, threshold float32) ([]core.MemoryItem, error) {
	if len(vector) != s.dims {
		return nil, fmt.Errorf("%w: query vector dimension %d does not match store dimension %d",
			core.ErrConfiguration, len(vector), s.dims)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// chromem requires nResults <= number of stored documents.
	n := limit
	if count := s.col.Count(); count < n {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	results, err := s.col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", core.ErrStorage, err)
	}

	items := make([]core.MemoryItem, 0, len(results))
	for _, res := range results {
		if res.Similarity < threshold {
			continue
		}
		items = append(items, itemFromResult(res))
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id string) (core.MemoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.col.GetByID(ctx, id)
	if err != nil {
		return core.MemoryItem{}, fmt.Errorf("%w: document %s", core.ErrNotFound, id)
	}

	return core.MemoryItem{
		ID:        doc.ID,
		Content:   doc.Content,
		Vector:    doc.Embedding,
		Metadata:  splitMetadata(doc.Metadata).meta,
		CreatedAt: splitMetadata(doc.Metadata).createdAt,
	}, nil
}

// Clear drops and recreates the collection. Writers are excluded for
// the duration; after Clear returns no query sees pre-clear items.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("%w: delete collection %s: %v", core.ErrStorage, s.name, err)
	}
	col, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: recreate collection %s: %v", core.ErrStorage, s.name, err)
	}
	s.col = col
	return nil
}

func itemFromResult(res chromem.Result) core.MemoryItem {
	split := splitMetadata(res.Metadata)
	return core.MemoryItem{
		ID:        res.ID,
		Content:   res.Content,
		Vector:    res.Embedding,
		Metadata:  split.meta,
		CreatedAt: split.createdAt,
		Relevance: res.Similarity,
	}
}

type splitMeta struct {
	meta      map[string]string
	createdAt time.Time
}

func splitMetadata(metadata map[string]string) splitMeta {
	var out splitMeta
	for k, v := range metadata {
		if k == metaCreatedAt {
			out.createdAt, _ = time.Parse(time.RFC3339Nano, v)
			continue
		}
		if out.meta == nil {
			out.meta = make(map[string]string)
		}
		out.meta[k] = v
	}
	return out
}
