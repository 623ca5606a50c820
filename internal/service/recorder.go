package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/notcome/lmtabstack/internal/database"
	"github.com/notcome/lmtabstack/internal/database/repository"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/tabstack"
)

// Recorder writes every transition the coordinator runs into the journal.
// It implements tabstack.Observer; write failures are logged and kept in
// Err so the journal never interferes with a transition.
type Recorder struct {
	Runs    *repository.TransitionRunRepo
	Logger  *slog.Logger
	Now     func() time.Time
	Timeout time.Duration

	mu  sync.Mutex
	err error
}

var _ tabstack.Observer = (*Recorder)(nil)

func (r *Recorder) TransitionResolved(run tabstack.Run) {
	row := repository.TransitionRun{
		ID:         run.ID,
		Kind:       run.Kind(),
		SourcePage: pageName(run.Source),
		TargetPage: pageName(run.Target),
		Pages:      len(run.Pages),
		Token:      run.Token,
		StartedAt:  r.now(),
	}
	r.write("insert run", run, func(ctx context.Context) error { return r.Runs.Insert(ctx, row) })
}

func (r *Recorder) TransitionCommitted(run tabstack.Run) {
	at := r.now()
	r.write("mark committed", run, func(ctx context.Context) error {
		return r.Runs.MarkCommitted(ctx, run.ID, run.Token, run.Duration, at)
	})
}

func (r *Recorder) TransitionFinished(run tabstack.Run) {
	at := r.now()
	r.write("mark finished", run, func(ctx context.Context) error {
		return r.Runs.MarkFinished(ctx, run.ID, len(run.Removed), at)
	})
}

// Err returns the last write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) write(op string, run tabstack.Run, fn func(ctx context.Context) error) {
	if r.Runs == nil {
		return
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		r.logger().Warn("journal write failed", "op", op, "run", run.ID, "err", err)
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
	}
}

func (r *Recorder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return database.Now()
}

func (r *Recorder) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func pageName(id ids.PageID) *string {
	if id.IsZero() {
		return nil
	}
	s := id.String()
	return &s
}
