package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"gospc/domain/core"
	"gospc/domain/quality"
	"gospc/domain/run"
	"gospc/ports"
)

// RunRepository implements RunStorePort over postgres or sqlite
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

var _ ports.RunStorePort = (*RunRepository)(nil)

type runRow struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	Source      string    `db:"source"`
	DatasetHash string    `db:"dataset_hash"`
	Fingerprint string    `db:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"`
	Report      []byte    `db:"report"`
}

// SaveRun stores a run. Runs are immutable: saving an existing id fails.
func (r *RunRepository) SaveRun(ctx context.Context, rn *run.Run) error {
	if err := rn.Validate(); err != nil {
		return err
	}
	report, err := json.Marshal(rn.Report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO analysis_runs (id, kind, source, dataset_hash, fingerprint, created_at, report)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), rn.ID.String(), string(rn.Kind), rn.Source, rn.DatasetHash.String(), rn.Fingerprint.String(),
		rn.CreatedAt.Time().UTC(), string(report))
	return err
}

// GetRun loads a run with its report
func (r *RunRepository) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, kind, source, dataset_hash, fingerprint, created_at, report
		FROM analysis_runs
		WHERE id = ?
	`), id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("run", id.String())
	}
	if err != nil {
		return nil, err
	}

	var report quality.BatteryReport
	if err := json.Unmarshal(row.Report, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report for run %s: %w", id, err)
	}

	return &run.Run{
		ID:          core.RunID(row.ID),
		Kind:        core.RunKind(row.Kind),
		Source:      row.Source,
		DatasetHash: core.Hash(row.DatasetHash),
		Fingerprint: core.Hash(row.Fingerprint),
		CreatedAt:   core.NewTimestamp(row.CreatedAt),
		Report:      &report,
	}, nil
}

// ListRuns returns run summaries newest first
func (r *RunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]ports.RunSummary, error) {
	query := `SELECT id, kind, source, dataset_hash, fingerprint, created_at, '' AS report FROM analysis_runs`

	var where []string
	var args []interface{}
	if filters.Kind != nil {
		where = append(where, "kind = ?")
		args = append(args, string(*filters.Kind))
	}
	if filters.Source != "" {
		where = append(where, "source = ?")
		args = append(args, filters.Source)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		if filters.Limit <= 0 {
			// sqlite requires a LIMIT before OFFSET
			query += " LIMIT -1"
			if r.db.DriverName() == DriverPostgres {
				query = strings.TrimSuffix(query, " LIMIT -1") + " LIMIT ALL"
			}
		}
		query += " OFFSET ?"
		args = append(args, filters.Offset)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	summaries := make([]ports.RunSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ports.RunSummary{
			ID:          core.RunID(row.ID),
			Kind:        core.RunKind(row.Kind),
			Source:      row.Source,
			Fingerprint: core.Hash(row.Fingerprint),
			CreatedAt:   core.NewTimestamp(row.CreatedAt),
		})
	}
	return summaries, nil
}
