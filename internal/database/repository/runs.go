package repository

import (
	"context"
	"database/sql"
	"time"
)

// TransitionRun is one row of the transition journal.
type TransitionRun struct {
	ID          string
	Kind        string
	SourcePage  *string
	TargetPage  *string
	Pages       int
	Token       int
	DurationMS  int64
	Removed     int
	StartedAt   time.Time
	CommittedAt *time.Time
	FinishedAt  *time.Time
}

// Finished reports whether the run reached cleanup.
func (r TransitionRun) Finished() bool { return r.FinishedAt != nil }

// TransitionRunRepo handles the transition journal.
type TransitionRunRepo struct {
	db *sql.DB
}

func NewTransitionRunRepo(db *sql.DB) *TransitionRunRepo { return &TransitionRunRepo{db: db} }

func (r *TransitionRunRepo) Insert(ctx context.Context, run TransitionRun) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transition_runs(id, kind, source_page, target_page, pages, token, started_at)
	VALUES(?, ?, ?, ?, ?, ?, ?);
	`, run.ID, run.Kind, run.SourcePage, run.TargetPage, run.Pages, run.Token, run.StartedAt)
	return err
}

func (r *TransitionRunRepo) MarkCommitted(ctx context.Context, id string, token int, duration time.Duration, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transition_runs SET token = ?, duration_ms = ?, committed_at = ? WHERE id = ?
	`, token, duration.Milliseconds(), at, id)
	return err
}

func (r *TransitionRunRepo) MarkFinished(ctx context.Context, id string, removed int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transition_runs SET removed = ?, finished_at = ? WHERE id = ?`, removed, at, id)
	return err
}

const runColumns = `id, kind, source_page, target_page, pages, token, duration_ms, removed, started_at, committed_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (TransitionRun, error) {
	var (
		run       TransitionRun
		committed sql.NullTime
		finished  sql.NullTime
	)
	err := s.Scan(&run.ID, &run.Kind, &run.SourcePage, &run.TargetPage, &run.Pages, &run.Token,
		&run.DurationMS, &run.Removed, &run.StartedAt, &committed, &finished)
	if err != nil {
		return TransitionRun{}, err
	}
	if committed.Valid {
		t := committed.Time
		run.CommittedAt = &t
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

// Get returns nil, nil when no run has id.
func (r *TransitionRunRepo) Get(ctx context.Context, id string) (*TransitionRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM transition_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// ListRecent returns the newest runs first.
func (r *TransitionRunRepo) ListRecent(ctx context.Context, limit int) ([]TransitionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT `+runColumns+` FROM transition_runs
	ORDER BY started_at DESC, rowid DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransitionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Stats summarises the journal.
type Stats struct {
	Runs     int
	Finished int
	AvgMS    float64
	ByKind   map[string]int
}

func (r *TransitionRunRepo) Stats(ctx context.Context) (Stats, error) {
	s := Stats{ByKind: make(map[string]int)}
	row := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*), COUNT(finished_at), COALESCE(AVG(CASE WHEN finished_at IS NOT NULL THEN duration_ms END), 0)
	FROM transition_runs`)
	if err := row.Scan(&s.Runs, &s.Finished, &s.AvgMS); err != nil {
		return Stats{}, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM transition_runs GROUP BY kind`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return Stats{}, err
		}
		s.ByKind[kind] = n
	}
	return s, rows.Err()
}

// Prune deletes all but the newest keep runs.
func (r *TransitionRunRepo) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM transition_runs WHERE id NOT IN (
	 SELECT id FROM transition_runs ORDER BY started_at DESC, rowid DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
