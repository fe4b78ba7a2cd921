package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/texkit/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of builds to show"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.History.Disabled {
		return fmt.Errorf("build history is disabled in the configuration")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}

	for _, rec := range records {
		status := "ok"
		switch {
		case rec.TimedOut:
			status = "timeout"
		case !rec.Succeeded:
			status = "failed"
		}
		fmt.Printf("%s  %-8s %-8s %-7s %8s  %s\n",
			rec.StartedAt.Format(time.RFC3339),
			rec.Mode,
			rec.Engine,
			status,
			rec.Duration.Round(time.Millisecond),
			rec.Source)
	}
	return nil
}
