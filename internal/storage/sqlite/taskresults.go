package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
)

type TaskResultsRepo struct {
	db *sql.DB
}

func NewTaskResultsRepo(db *sql.DB) *TaskResultsRepo {
	return &TaskResultsRepo{db: db}
}

// Add appends a record. Records are never updated afterwards;
// corrections append a new record.
func (r *TaskResultsRepo) Add(ctx context.Context, rec core.TaskExecutionRecord) error {
	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %v", core.ErrStorage, err)
	}

	query := `INSERT INTO task_results (task_description, agent_role, expected_output, actual_output, quality_score, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.TaskDescription, rec.AgentRole, rec.ExpectedOutput, rec.ActualOutput, rec.QualityScore, string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("%w: insert task result: %v", core.ErrStorage, err)
	}
	return nil
}

// Search matches the task description exactly or as a substring,
// excludes records below minQuality, and orders by quality score with
// recency breaking ties.
func (r *TaskResultsRepo) Search(ctx context.Context, taskDescription string, limit int, minQuality float64) ([]core.TaskExecutionRecord, error) {
	query := `
		SELECT id, task_description, agent_role, expected_output, actual_output, quality_score, metadata, created_at
		FROM task_results
		WHERE (task_description = ?1 OR task_description LIKE '%' || ?1 || '%')
		  AND quality_score >= ?2
		ORDER BY quality_score DESC, id DESC
		LIMIT ?3`

	rows, err := r.db.QueryContext(ctx, query, taskDescription, minQuality, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search task results: %v", core.ErrStorage, err)
	}
	defer rows.Close()

	var records []core.TaskExecutionRecord
	for rows.Next() {
		var rec core.TaskExecutionRecord
		var metaJSON string
		if err := rows.Scan(
			&rec.ID, &rec.TaskDescription, &rec.AgentRole, &rec.ExpectedOutput,
			&rec.ActualOutput, &rec.QualityScore, &metaJSON, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan task result: %v", core.ErrStorage, err)
		}
		if metaJSON != "" && metaJSON != "null" {
			if err := json.Unmarshal([]byte(metaJSON), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("%w: unmarshal metadata: %v", core.ErrStorage, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *TaskResultsRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_results`); err != nil {
		return fmt.Errorf("%w: clear task results: %v", core.ErrStorage, err)
	}
	return nil
}
