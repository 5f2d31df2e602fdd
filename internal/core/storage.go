package core

import "context"

// VectorStore is the pluggable vector index capability. Implementations
// must tolerate concurrent readers and writers; Clear must exclude
// concurrent writers for its duration.
type VectorStore interface {
	Upsert(ctx context.Context, item MemoryItem) error
	Query(ctx context.Context, vector []float32, limit int, threshold float32) ([]MemoryItem, error)
	Get(ctx context.Context, id string) (MemoryItem, error)
	Clear(ctx context.Context) error
}

// TaskResultsRepository is the durable append/scan capability backing
// long-term memory.
type TaskResultsRepository interface {
	Add(ctx context.Context, rec TaskExecutionRecord) error
	Search(ctx context.Context, taskDescription string, limit int, minQuality float64) ([]TaskExecutionRecord, error)
	Clear(ctx context.Context) error
}

// KickoffOutputsRepository keeps the latest run's per-task outputs.
// The snapshot is caller-managed, like short-term memory: Clear it at
// the start of a new run, then Add one output per completed task.
type KickoffOutputsRepository interface {
	Add(ctx context.Context, out TaskOutput) error
	Latest(ctx context.Context) ([]TaskOutput, error)
	Clear(ctx context.Context) error
}
