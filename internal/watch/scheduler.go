// Package watch implements the continuous rebuild loop: a filesystem
// watcher feeds change events into a scheduler that debounces bursts and
// serializes builds so at most one runs at a time.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/metrics"
)

// Verdict explains what the scheduler did with an incoming event.
type Verdict int

const (
	// Triggered means the event started a rebuild.
	Triggered Verdict = iota
	// SkipIneligible means the path is not a watched source file.
	SkipIneligible
	// SkipDebounced means the event arrived inside the debounce window
	// after the last build started.
	SkipDebounced
	// SkipBusy means a build is running and the event was dropped.
	SkipBusy
)

func (v Verdict) String() string {
	switch v {
	case Triggered:
		return "triggered"
	case SkipIneligible:
		return "ineligible"
	case SkipDebounced:
		return "debounced"
	case SkipBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// DefaultDebounce is the window after a build start during which further
// change events are suppressed.
const DefaultDebounce = time.Second

// BuildFunc performs one rebuild. The scheduler guarantees that at most
// one invocation runs at a time.
type BuildFunc func(ctx context.Context)

// Scheduler turns filesystem change events into serialized rebuilds.
// Events for non-source files are ignored, events inside the debounce
// window after the last build start are suppressed, and events arriving
// while a build runs are dropped rather than queued. An eligible event
// outside the window starts the build immediately.
type Scheduler struct {
	debounce   time.Duration
	extensions map[string]struct{}
	outputDir  string
	build      BuildFunc
	recorder   metrics.Recorder

	isBuilding atomic.Bool

	mu             sync.Mutex
	lastBuildStart time.Time
	ctx            context.Context
}

// NewScheduler creates a scheduler. extensions lists the file suffixes
// that trigger rebuilds (with leading dot); changes under outputDir are
// always ignored to avoid feedback loops.
func NewScheduler(build BuildFunc, debounce time.Duration, extensions []string, outputDir string, recorder metrics.Recorder) *Scheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	return &Scheduler{
		debounce:   debounce,
		extensions: exts,
		outputDir:  abs,
		build:      build,
		recorder:   recorder,
		ctx:        context.Background(),
	}
}

// Start binds the scheduler to ctx; builds triggered afterwards run under
// it. Call before feeding events.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

// Building reports whether a build is currently running.
func (s *Scheduler) Building() bool { return s.isBuilding.Load() }

// Eligible reports whether a change to path should cause a rebuild.
func (s *Scheduler) Eligible(path string) bool {
	abs, err := filepath.Abs(path)
	if err == nil {
		if rel, relErr := filepath.Rel(s.outputDir, abs); relErr == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// OnEvent feeds one change event into the scheduler and reports how it
// was handled. Checks run in order: eligibility, debounce window, busy.
func (s *Scheduler) OnEvent(path string) Verdict {
	if !s.Eligible(path) {
		s.recorder.IncEventSuppressed(metrics.ReasonIneligible)
		return SkipIneligible
	}

	if s.withinDebounceWindow() {
		s.recorder.IncEventSuppressed(metrics.ReasonDebounced)
		slog.Debug("change debounced", logfields.Path(path))
		return SkipDebounced
	}

	if !s.launch() {
		s.recorder.IncEventSuppressed(metrics.ReasonBusy)
		slog.Debug("change dropped, build in progress", logfields.Path(path))
		return SkipBusy
	}

	slog.Debug("rebuild started", logfields.Path(path))
	return Triggered
}

// RunInitial performs the startup build synchronously. It bypasses the
// eligibility filter and the debounce window but still holds the build
// slot so watcher events arriving meanwhile are dropped, and it opens a
// debounce window of its own.
func (s *Scheduler) RunInitial(ctx context.Context) {
	if !s.isBuilding.CompareAndSwap(false, true) {
		return
	}
	defer s.isBuilding.Store(false)
	s.markBuildStart()
	s.build(ctx)
}

// ForceRebuild triggers a rebuild immediately, skipping the debounce
// window. It is a no-op when a build is already running.
func (s *Scheduler) ForceRebuild() {
	if !s.launch() {
		s.recorder.IncEventSuppressed(metrics.ReasonBusy)
	}
}

func (s *Scheduler) withinDebounceWindow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastBuildStart.IsZero() && time.Since(s.lastBuildStart) < s.debounce
}

func (s *Scheduler) markBuildStart() {
	s.mu.Lock()
	s.lastBuildStart = time.Now()
	s.mu.Unlock()
}

// launch claims the build slot and starts a build; it reports false when
// a build is already running.
func (s *Scheduler) launch() bool {
	if !s.isBuilding.CompareAndSwap(false, true) {
		return false
	}
	s.markBuildStart()
	s.recorder.IncRebuildTriggered()

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		defer s.isBuilding.Store(false)
		s.build(ctx)
	}()
	return true
}
