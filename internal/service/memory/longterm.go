package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
)

// LongTerm holds scored task-execution summaries in the durable log
// store. Retrieval does not use vector similarity: records are matched
// on the task description and ranked by quality score, recency breaking
// ties. Write failures are fatal to the caller; losing a long-term
// record silently would corrupt the learning signal.
type LongTerm struct {
	repo       core.TaskResultsRepository
	minQuality float64
}

func NewLongTerm(repo core.TaskResultsRepository, minQuality float64) *LongTerm {
	return &LongTerm{
		repo:       repo,
		minQuality: minQuality,
	}
}

func (l *LongTerm) Save(ctx context.Context, rec core.TaskExecutionRecord) error {
	if rec.TaskDescription == "" {
		return fmt.Errorf("%w: task execution record requires a description", core.ErrConfiguration)
	}
	if rec.QualityScore < 0 || rec.QualityScore > 1 {
		return fmt.Errorf("%w: quality score must be in [0,1], got %v", core.ErrConfiguration, rec.QualityScore)
	}
	return l.repo.Add(ctx, rec)
}

// Search excludes records below the configured minimum quality; the
// records stay in the store for audit.
func (l *LongTerm) Search(ctx context.Context, taskDescription string, limit int) ([]core.TaskExecutionRecord, error) {
	return l.repo.Search(ctx, taskDescription, limit, l.minQuality)
}

// SearchAll ignores the quality floor, for audit-style inspection.
func (l *LongTerm) SearchAll(ctx context.Context, taskDescription string, limit int) ([]core.TaskExecutionRecord, error) {
	return l.repo.Search(ctx, taskDescription, limit, 0)
}

func (l *LongTerm) Clear(ctx context.Context) error {
	return l.repo.Clear(ctx)
}
