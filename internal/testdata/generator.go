package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/notcome/lmtabstack/internal/database/repository"
)

var kinds = []string{"automatic", "automatic", "interactive", "identity"}

var pageNames = []string{"inbox", "search", "profile", "detail", "settings"}

// SeedRuns inserts n sample transition runs, one every 500ms going back
// from now. Every run but the newest is committed and finished, so the
// journal looks like a session with one transition still in flight.
func SeedRuns(ctx context.Context, runs *repository.TransitionRunRepo, n int, seed int64) ([]repository.TransitionRun, error) {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC().Truncate(time.Millisecond)

	out := make([]repository.TransitionRun, 0, n)
	for i := 0; i < n; i++ {
		started := now.Add(-time.Duration(n-i) * 500 * time.Millisecond)
		src, dst := pageNames[rng.Intn(len(pageNames))], pageNames[rng.Intn(len(pageNames))]
		run := repository.TransitionRun{
			ID:         uuid.NewString(),
			Kind:       kinds[rng.Intn(len(kinds))],
			SourcePage: &src,
			TargetPage: &dst,
			Pages:      1 + rng.Intn(3),
			Token:      1,
			StartedAt:  started,
		}
		if err := runs.Insert(ctx, run); err != nil {
			return nil, err
		}
		if i < n-1 {
			run.Token = 2
			run.DurationMS = int64(100 + rng.Intn(300))
			committed := started.Add(20 * time.Millisecond)
			finished := committed.Add(time.Duration(run.DurationMS) * time.Millisecond)
			if err := runs.MarkCommitted(ctx, run.ID, run.Token, time.Duration(run.DurationMS)*time.Millisecond, committed); err != nil {
				return nil, err
			}
			if err := runs.MarkFinished(ctx, run.ID, 0, finished); err != nil {
				return nil, err
			}
			run.CommittedAt, run.FinishedAt = &committed, &finished
		}
		out = append(out, run)
	}
	return out, nil
}
