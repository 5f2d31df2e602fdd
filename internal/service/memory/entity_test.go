package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/storage/chromem"
)

func TestEntitiesSaveAndGet(t *testing.T) {
	ctx := context.Background()
	ents := NewEntities(newMemStore(), &stubEmbedder{})

	rec := core.EntityRecord{
		Name:          "Paris",
		Type:          "location",
		Description:   "capital of France",
		Relationships: []string{"capital_of:France"},
	}
	if err := ents.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := ents.Get(ctx, "Paris", "location")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestEntitiesUpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ents := NewEntities(store, &stubEmbedder{})

	first := core.EntityRecord{Name: "Paris", Type: "location", Description: "capital of France", Relationships: []string{"capital_of:France"}}
	second := core.EntityRecord{Name: "Paris", Type: "location", Description: "largest city in France", Relationships: []string{"hosts:Olympics"}}
	if err := ents.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := ents.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if store.len() != 1 {
		t.Fatalf("same (name, type) must reuse one stored item, got %d", store.len())
	}

	got, err := ents.Get(ctx, "Paris", "location")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Description != "largest city in France" {
		t.Errorf("description should be last-write-wins, got %q", got.Description)
	}
	want := []string{"capital_of:France", "hosts:Olympics"}
	if !reflect.DeepEqual(got.Relationships, want) {
		t.Errorf("relationships should union, got %v want %v", got.Relationships, want)
	}
}

func TestEntitiesDistinctTypesAreDistinctEntities(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ents := NewEntities(store, &stubEmbedder{})

	_ = ents.Save(ctx, core.EntityRecord{Name: "Mercury", Type: "planet", Description: "closest to the sun"})
	_ = ents.Save(ctx, core.EntityRecord{Name: "Mercury", Type: "element", Description: "liquid metal"})

	if store.len() != 2 {
		t.Fatalf("same name with different types must not collide, got %d items", store.len())
	}
}

func TestEntitiesConcurrentRelationshipUnion(t *testing.T) {
	ctx := context.Background()
	ents := NewEntities(newMemStore(), &stubEmbedder{})

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := core.EntityRecord{
				Name:          "ACME",
				Type:          "organization",
				Description:   "research lab",
				Relationships: []string{fmt.Sprintf("employs:agent-%02d", i)},
			}
			if err := ents.Save(ctx, rec); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := ents.Get(ctx, "ACME", "organization")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Relationships) != writers {
		t.Fatalf("lost relationships under concurrent writes: got %d want %d\n%v", len(got.Relationships), writers, got.Relationships)
	}
	var want []string
	for i := 0; i < writers; i++ {
		want = append(want, fmt.Sprintf("employs:agent-%02d", i))
	}
	if !reflect.DeepEqual(sortedCopy(got.Relationships), want) {
		t.Errorf("unexpected relationship set: %v", got.Relationships)
	}
}

func TestEntitiesConcurrentWritersDistinctKeys(t *testing.T) {
	ctx := context.Background()
	store, err := chromem.NewInMemory("entities", 3)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ents := NewEntities(store, &stubEmbedder{})

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := core.EntityRecord{
				Name:        fmt.Sprintf("agent-%02d", i),
				Type:        "person",
				Description: fmt.Sprintf("worker number %02d", i),
			}
			if err := ents.Save(ctx, rec); err != nil {
				t.Errorf("Save %s: %v", rec.Name, err)
			}
		}(i)
	}
	wg.Wait()

	// Each key reads back exactly its own record, no lost updates.
	for i := 0; i < writers; i++ {
		name := fmt.Sprintf("agent-%02d", i)
		got, err := ents.Get(ctx, name, "person")
		if err != nil {
			t.Fatalf("lost update for %s: %v", name, err)
		}
		if want := fmt.Sprintf("worker number %02d", i); got.Description != want {
			t.Errorf("%s: got %q want %q", name, got.Description, want)
		}
	}
}

func TestEntitiesGetUnknown(t *testing.T) {
	ents := NewEntities(newMemStore(), &stubEmbedder{})

	_, err := ents.Get(context.Background(), "Nobody", "person")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEntitiesSaveValidation(t *testing.T) {
	ents := NewEntities(newMemStore(), &stubEmbedder{})
	ctx := context.Background()

	for _, rec := range []core.EntityRecord{
		{Type: "location", Description: "no name"},
		{Name: "Paris", Description: "no type"},
	} {
		if err := ents.Save(ctx, rec); !errors.Is(err, core.ErrConfiguration) {
			t.Errorf("Save(%+v): expected ErrConfiguration, got %v", rec, err)
		}
	}
}

func TestEntitiesSaveFailsHardOnEmbedError(t *testing.T) {
	store := newMemStore()
	ents := NewEntities(store, &stubEmbedder{fail: true})

	err := ents.Save(context.Background(), core.EntityRecord{Name: "Paris", Type: "location", Description: "x"})
	if err == nil {
		t.Fatal("expected an error when embedding fails on write")
	}
	if store.len() != 0 {
		t.Errorf("expected nothing stored, got %d items", store.len())
	}
}

func TestEntitiesSearchDegradesOnEmbedError(t *testing.T) {
	ents := NewEntities(newMemStore(), &stubEmbedder{fail: true})

	items, err := ents.Search(context.Background(), "anything", 5, 0)
	if err != nil {
		t.Fatalf("expected read-path degradation, got error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty results, got %d", len(items))
	}
}

func TestEntitiesSearchDegradesOnStoreError(t *testing.T) {
	store := newMemStore()
	store.queryErr = errors.New("index corrupt")
	ents := NewEntities(store, &stubEmbedder{})

	items, err := ents.Search(context.Background(), "anything", 5, 0)
	if err != nil {
		t.Fatalf("expected read-path degradation, got error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty results, got %d", len(items))
	}
}
