package core

import "time"

// MemoryItem is one stored recall unit. The vector is computed once at
// write time and never recomputed; each store owns its items exclusively.
type MemoryItem struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Vector    []float32         `json:"-"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Relevance float32           `json:"relevance,omitempty"`
}

// TaskExecutionRecord is a scored summary of one completed task.
// Records are append-only; corrections happen by appending a new record.
type TaskExecutionRecord struct {
	ID              int64             `json:"id"`
	TaskDescription string            `json:"task_description"`
	AgentRole       string            `json:"agent_role"`
	ExpectedOutput  string            `json:"expected_output"`
	ActualOutput    string            `json:"actual_output"`
	QualityScore    float64           `json:"quality_score"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// EntityRecord is a named entity tracked across tasks. Upserts are keyed
// by (Name, Type): the description is last-write-wins, relationships are
// unioned, and the storage identity is preserved.
type EntityRecord struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Relationships []string `json:"relationships,omitempty"`
}

// TaskOutput is one task's output captured from the latest kickoff.
type TaskOutput struct {
	ID             int64     `json:"id"`
	Task           string    `json:"task"`
	ExpectedOutput string    `json:"expected_output"`
	Output         string    `json:"output"`
	CreatedAt      time.Time `json:"created_at"`
}

// ContextQuery is a transient per-call retrieval request.
type ContextQuery struct {
	Text  string
	Limit int

	// ScoreThreshold overrides the configured minimum similarity for
	// vector recall. Nil means use the configured default; an explicit
	// zero disables the similarity filter.
	ScoreThreshold *float32

	// IncludeLongTerm adds long-term task recall to the fan-out. Callers
	// flag this for learning-relevant queries only.
	IncludeLongTerm bool

	TaskMetadata map[string]string
}

// Source identifies which memory a context entry came from.
type Source string

const (
	SourceEntity    Source = "entities"
	SourceLongTerm  Source = "long_term"
	SourceShortTerm Source = "short_term"
)

// Priority orders sources for tie-breaking in the merge: entities are
// more authoritative than long-term recall, which beats ephemeral
// short-term recall. Lower is higher priority.
func (s Source) Priority() int {
	switch s {
	case SourceEntity:
		return 0
	case SourceLongTerm:
		return 1
	default:
		return 2
	}
}

// ContextEntry is one merged, scored piece of context.
type ContextEntry struct {
	Source   Source            `json:"source"`
	Content  string            `json:"content"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MergedContext is the deduplicated, ranked result of a context build.
// It is rebuilt on every query and never cached.
type MergedContext struct {
	Entries []ContextEntry `json:"entries"`
}

// ResetScope names a memory scope for administrative clearing.
type ResetScope string

const (
	ScopeShort          ResetScope = "short"
	ScopeLong           ResetScope = "long"
	ScopeEntities       ResetScope = "entities"
	ScopeKickoffOutputs ResetScope = "kickoff-outputs"
	ScopeAll            ResetScope = "all"
)

// UserScope addresses user-level preference memory at the external
// personalization provider.
type UserScope struct {
	UserID    string
	OrgID     string
	ProjectID string
}
