package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notcome/lmtabstack/internal/config"
	"github.com/notcome/lmtabstack/internal/database"
	"github.com/notcome/lmtabstack/internal/database/repository"
	"github.com/notcome/lmtabstack/internal/service"
	"github.com/notcome/lmtabstack/internal/tabstack"
	"github.com/notcome/lmtabstack/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o755); err != nil {
		log.Fatalf("mkdir journal dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Journal.Path, cfg.Journal.Migrations); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Journal.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// repositories
	runRepo := repository.NewTransitionRunRepo(db)

	// services
	recorder := &service.Recorder{Runs: runRepo, Logger: logger}
	journal := &service.JournalService{Runs: runRepo}
	maintenance := &service.MaintenanceService{DB: db, Runs: runRepo}

	if cfg.Journal.Keep > 0 {
		if n, err := maintenance.Trim(ctx, cfg.Journal.Keep); err != nil {
			logger.Warn("trim journal", "err", err)
		} else if n > 0 {
			logger.Info("trimmed journal", "rows", n)
		}
	}

	ticks := tui.NewTicks()
	coordinator := tabstack.New(tabstack.Options{
		Logger:    logger,
		Scheduler: ticks,
		Observers: []tabstack.Observer{recorder},
		Strict:    cfg.Engine.Strict,
	})
	stack := tabstack.NewStack(tui.DemoModel(), tui.NewStrategy(cfg), coordinator)

	p := tea.NewProgram(tui.New(ctx, cfg, stack, ticks,
		tui.Services{Journal: journal, Maintenance: maintenance},
		logger,
	), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
	if err := recorder.Err(); err != nil {
		fmt.Printf("journal: %v\n", err)
	}
}

// openLog writes structured logs to a file; the terminal belongs to the UI.
func openLog(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if cfg.Path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
