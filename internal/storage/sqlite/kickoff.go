package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
)

// KickoffOutputsRepo stores one run's per-task outputs. It never
// expires rows on its own; callers Clear between runs so Latest always
// reflects a single run.
type KickoffOutputsRepo struct {
	db *sql.DB
}

func NewKickoffOutputsRepo(db *sql.DB) *KickoffOutputsRepo {
	return &KickoffOutputsRepo{db: db}
}

func (r *KickoffOutputsRepo) Add(ctx context.Context, out core.TaskOutput) error {
	query := `INSERT INTO kickoff_outputs (task, expected_output, output) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, out.Task, out.ExpectedOutput, out.Output); err != nil {
		return fmt.Errorf("%w: insert kickoff output: %v", core.ErrStorage, err)
	}
	return nil
}

// Latest returns the stored outputs in task order.
func (r *KickoffOutputsRepo) Latest(ctx context.Context) ([]core.TaskOutput, error) {
	query := `SELECT id, task, expected_output, output, created_at FROM kickoff_outputs ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query kickoff outputs: %v", core.ErrStorage, err)
	}
	defer rows.Close()

	var outputs []core.TaskOutput
	for rows.Next() {
		var out core.TaskOutput
		if err := rows.Scan(&out.ID, &out.Task, &out.ExpectedOutput, &out.Output, &out.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan kickoff output: %v", core.ErrStorage, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, rows.Err()
}

func (r *KickoffOutputsRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kickoff_outputs`); err != nil {
		return fmt.Errorf("%w: clear kickoff outputs: %v", core.ErrStorage, err)
	}
	return nil
}
