package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/texkit/internal/builder"
	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/metrics"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
	"git.home.luguber.info/inful/texkit/internal/watch"
)

// WatchCmd implements the 'watch' command. Watch always rebuilds in full
// mode so the artifact on disk stays complete.
type WatchCmd struct {
	Debounce         time.Duration `help:"Collapse change bursts within this window; overrides config"`
	Local            bool          `help:"Run the toolchain locally instead of in the container"`
	NoInitialBuild   bool          `name:"no-initial-build" help:"Skip the build normally run at startup"`
	MetricsAddr      string        `name:"metrics-addr" help:"Expose Prometheus metrics on this address (e.g. :9097)"`
	FullRebuildEvery time.Duration `name:"full-rebuild-every" help:"Force a rebuild at this interval regardless of changes"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sandbox := cfg.Engine.Sandboxed() && !w.Local
	if err := ensureSandbox(ctx, sandbox); err != nil {
		return err
	}

	recorder := w.setupMetrics(ctx)

	opts := []builder.Option{
		builder.WithImage(cfg.Engine.Image),
		builder.WithTimeout(cfg.Engine.Timeout()),
		builder.WithRecorder(recorder),
	}
	if store := openHistory(cfg); store != nil {
		defer func() { _ = store.Close() }()
		opts = append(opts, builder.WithHistory(store))
	}
	bld := builder.New(toolchain.NewRunner(), sandbox, opts...)

	buildOnce := func(buildCtx context.Context) {
		report, buildErr := bld.Build(buildCtx, toolchain.ModeFull, cfg.MainPath(), cfg.Output.Directory)
		if buildErr != nil {
			slog.Error("build failed to start", logfields.Error(buildErr))
			return
		}
		printReport(report)
	}

	debounce := w.Debounce
	if debounce == 0 {
		debounce = cfg.Watch.Debounce.Std()
	}
	sched := watch.NewScheduler(buildOnce, debounce, cfg.Watch.Extensions, cfg.Output.Directory, recorder)

	watcher, err := watch.NewWatcher(sched, watchRoots(cfg.Source.Dir, cfg.Watch.ExtraDirs))
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if w.FullRebuildEvery > 0 {
		periodic, perErr := watch.NewPeriodic(sched, w.FullRebuildEvery)
		if perErr != nil {
			return perErr
		}
		defer func() { _ = periodic.Shutdown() }()
	}

	recorder.SetWatching(true)
	defer recorder.SetWatching(false)

	if cfg.Watch.InitialBuildEnabled() && !w.NoInitialBuild {
		sched.RunInitial(ctx)
	}

	fmt.Println("Watching for changes; press Ctrl-C to stop")
	return watcher.Run(ctx)
}

// setupMetrics starts the metrics endpoint when requested; otherwise
// recording is a no-op.
func (w *WatchCmd) setupMetrics(ctx context.Context) metrics.Recorder {
	if w.MetricsAddr == "" {
		return metrics.NoopRecorder{}
	}
	registry := metrics.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	go metrics.Serve(ctx, w.MetricsAddr, registry)
	return recorder
}

// watchRoots returns the source dir plus any extra dirs that actually
// exist on disk.
func watchRoots(sourceDir string, extraDirs []string) []string {
	roots := []string{sourceDir}
	for _, dir := range extraDirs {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			roots = append(roots, filepath.Clean(dir))
		}
	}
	return roots
}
