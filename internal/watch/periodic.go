package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Periodic forces a full rebuild at a fixed interval, independent of
// filesystem events. Useful for documents with time-sensitive content.
type Periodic struct {
	scheduler gocron.Scheduler
}

// NewPeriodic schedules sched.ForceRebuild every interval and starts the
// job. Call Shutdown to stop it.
func NewPeriodic(sched *Scheduler, interval time.Duration) (*Periodic, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = gs.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sched.ForceRebuild),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}

	gs.Start()
	slog.Info("periodic rebuild enabled", slog.Duration("interval", interval))
	return &Periodic{scheduler: gs}, nil
}

// Shutdown stops the periodic job.
func (p *Periodic) Shutdown() error {
	return p.scheduler.Shutdown()
}
