package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

// Metadata keys used to reconstruct entity records from stored items.
const (
	entityMetaName          = "entity_name"
	entityMetaType          = "entity_type"
	entityMetaRelationships = "entity_relationships"
)

// Entities tracks named entities across tasks. Writes are upserts keyed
// by (name, type): the description is last-write-wins, relationship
// lists are unioned, and the storage id never changes for a key.
// Concurrent writers to the same key are serialized; distinct keys
// proceed independently.
type Entities struct {
	store    core.VectorStore
	embedder core.Embedder
	keys     *keyedLocks
}

func NewEntities(store core.VectorStore, embedder core.Embedder) *Entities {
	return &Entities{
		store:    store,
		embedder: embedder,
		keys:     newKeyedLocks(),
	}
}

// entityID derives the stable storage id for a (name, type) key.
func entityID(name, entityType string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name+"\x00"+entityType)).String()
}

func (e *Entities) Save(ctx context.Context, rec core.EntityRecord) error {
	if rec.Name == "" || rec.Type == "" {
		return fmt.Errorf("%w: entity requires name and type", core.ErrConfiguration)
	}
	if e.embedder == nil {
		return fmt.Errorf("%w: no embedding provider configured", core.ErrEmbedding)
	}

	id := entityID(rec.Name, rec.Type)
	unlock := e.keys.lock(id)
	defer unlock()

	if existing, err := e.store.Get(ctx, id); err == nil {
		rec.Relationships = unionRelationships(relationshipsFromItem(existing), rec.Relationships)
	}

	content := fmt.Sprintf("%s(%s): %s", rec.Name, rec.Type, rec.Description)
	vec, err := e.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed entity: %w", err)
	}

	relJSON, err := json.Marshal(rec.Relationships)
	if err != nil {
		return fmt.Errorf("marshal relationships: %w", err)
	}

	item := core.MemoryItem{
		ID:      id,
		Content: content,
		Vector:  vec,
		Metadata: map[string]string{
			entityMetaName:          rec.Name,
			entityMetaType:          rec.Type,
			entityMetaRelationships: string(relJSON),
		},
		CreatedAt: time.Now().UTC(),
	}
	return e.store.Upsert(ctx, item)
}

func (e *Entities) Search(ctx context.Context, query string, limit int, threshold float32) ([]core.MemoryItem, error) {
	if e.embedder == nil {
		return nil, nil
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("entity query embedding failed, degrading to empty results")
		return nil, nil
	}

	items, err := e.store.Query(ctx, vec, limit, threshold)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("entity search failed, degrading to empty results")
		return nil, nil
	}
	return items, nil
}

// Get fetches one entity by its (name, type) key.
func (e *Entities) Get(ctx context.Context, name, entityType string) (core.EntityRecord, error) {
	item, err := e.store.Get(ctx, entityID(name, entityType))
	if err != nil {
		return core.EntityRecord{}, err
	}

	rec := core.EntityRecord{
		Name:          item.Metadata[entityMetaName],
		Type:          item.Metadata[entityMetaType],
		Relationships: relationshipsFromItem(item),
	}
	// Content is "name(type): description"; strip the key prefix.
	prefix := fmt.Sprintf("%s(%s): ", rec.Name, rec.Type)
	if len(item.Content) >= len(prefix) {
		rec.Description = item.Content[len(prefix):]
	}
	return rec, nil
}

func (e *Entities) Clear(ctx context.Context) error {
	return e.store.Clear(ctx)
}

func relationshipsFromItem(item core.MemoryItem) []string {
	raw, ok := item.Metadata[entityMetaRelationships]
	if !ok || raw == "" {
		return nil
	}
	var rels []string
	if err := json.Unmarshal([]byte(raw), &rels); err != nil {
		return nil
	}
	return rels
}

// unionRelationships merges two relationship lists, keeping the order of
// first appearance and dropping duplicates.
func unionRelationships(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	var out []string
	for _, lists := range [][]string{existing, incoming} {
		for _, rel := range lists {
			if _, ok := seen[rel]; ok {
				continue
			}
			seen[rel] = struct{}{}
			out = append(out, rel)
		}
	}
	return out
}
