package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/lifepilot/lifepilot/store"
)

func (d *DB) CreateRun(ctx context.Context, create *store.Run) (*store.Run, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	create.UpdatedTs = now

	stmt := `INSERT INTO run (id, state, resume_state, query, hints, results, log, clarification, error, created_ts, updated_ts)
		VALUES (` + placeholders(11) + `)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.State, create.ResumeState, create.Query, create.Hints,
		create.Results, create.Log, create.Clarification, create.Error,
		create.CreatedTs, create.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert run")
	}
	return create, nil
}

func (d *DB) UpdateRun(ctx context.Context, update *store.Run) (*store.Run, error) {
	update.UpdatedTs = time.Now().Unix()

	stmt := `UPDATE run SET state = $1, resume_state = $2, hints = $3, results = $4, log = $5, clarification = $6, error = $7, updated_ts = $8 WHERE id = $9`
	result, err := d.db.ExecContext(ctx, stmt,
		update.State, update.ResumeState, update.Hints, update.Results,
		update.Log, update.Clarification, update.Error, update.UpdatedTs, update.ID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update run")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.Errorf("run %s not found", update.ID)
	}
	return update, nil
}

func (d *DB) GetRun(ctx context.Context, id string) (*store.Run, error) {
	stmt := `SELECT id, state, resume_state, query, hints, results, log, clarification, error, created_ts, updated_ts FROM run WHERE id = $1`
	run := &store.Run{}
	if err := d.db.QueryRowContext(ctx, stmt, id).Scan(
		&run.ID, &run.State, &run.ResumeState, &run.Query, &run.Hints,
		&run.Results, &run.Log, &run.Clarification, &run.Error,
		&run.CreatedTs, &run.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get run")
	}
	return run, nil
}
