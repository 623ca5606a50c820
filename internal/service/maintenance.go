package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notcome/lmtabstack/internal/database"
	"github.com/notcome/lmtabstack/internal/database/repository"
)

// MaintenanceService houses destructive actions surfaced through the TUI.
type MaintenanceService struct {
	DB   *sql.DB
	Runs *repository.TransitionRunRepo
}

// Reset wipes the journal. It keeps the schema intact so recording can
// continue.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM transition_runs"); err != nil {
			return fmt.Errorf("reset transition_runs: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

// Trim keeps only the newest keep runs.
func (s *MaintenanceService) Trim(ctx context.Context, keep int) (int64, error) {
	if s.Runs == nil {
		return 0, fmt.Errorf("maintenance: runs repo not configured")
	}
	n, err := s.Runs.Prune(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return n, nil
}
