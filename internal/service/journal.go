package service

import (
	"context"
	"fmt"

	"github.com/notcome/lmtabstack/internal/database/repository"
)

// JournalService answers the read-side questions the TUI footer asks.
type JournalService struct {
	Runs *repository.TransitionRunRepo
}

// Recent returns the newest runs first.
func (s *JournalService) Recent(ctx context.Context, n int) ([]repository.TransitionRun, error) {
	runs, err := s.Runs.ListRecent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return runs, nil
}

// Summary is a one-line description of the journal.
func (s *JournalService) Summary(ctx context.Context) (string, error) {
	st, err := s.Runs.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("journal stats: %w", err)
	}
	return fmt.Sprintf("%d runs, %d finished, avg %.0fms (auto %d, interactive %d, identity %d)",
		st.Runs, st.Finished, st.AvgMS, st.ByKind["automatic"], st.ByKind["interactive"], st.ByKind["identity"]), nil
}
