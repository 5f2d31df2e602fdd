package core

import "context"

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// UserMemory is the optional external personalization provider for
// user-scoped preference memory. It is delegated entirely to the
// provider and is not part of the engine's own data model.
type UserMemory interface {
	AddInteraction(ctx context.Context, user UserScope, text string, metadata map[string]string) error
	Retrieve(ctx context.Context, user UserScope, query string, limit int) ([]MemoryItem, error)
}
