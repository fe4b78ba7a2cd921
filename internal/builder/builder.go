// Package builder orchestrates a single document build: it selects the
// invocation for the requested mode, executes it, and turns the raw result
// into a report with the artifact on success or extracted diagnostics on
// failure.
package builder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/texkit/internal/history"
	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/metrics"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// Builder runs document builds through a toolchain invoker.
type Builder struct {
	invoker  toolchain.Invoker
	sandbox  bool
	image    string
	dir      string
	timeout  time.Duration
	keepLast int
	store    *history.Store
	recorder metrics.Recorder
}

// Option configures a Builder.
type Option func(*Builder)

// WithImage overrides the container image for sandboxed builds.
func WithImage(image string) Option { return func(b *Builder) { b.image = image } }

// WithDir runs the toolchain in dir instead of the current directory.
// Relative source and output paths then resolve against it.
func WithDir(dir string) Option { return func(b *Builder) { b.dir = dir } }

// WithTimeout overrides the invocation timeout (zero keeps the mode default).
func WithTimeout(d time.Duration) Option { return func(b *Builder) { b.timeout = d } }

// WithKeepLast bounds how many diagnostic lines a failed build reports.
func WithKeepLast(n int) Option { return func(b *Builder) { b.keepLast = n } }

// WithHistory records every build into the given store.
func WithHistory(s *history.Store) Option { return func(b *Builder) { b.store = s } }

// WithRecorder installs a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// New creates a Builder. The sandbox flag selects container execution.
func New(invoker toolchain.Invoker, sandbox bool, opts ...Option) *Builder {
	b := &Builder{
		invoker:  invoker,
		sandbox:  sandbox,
		keepLast: toolchain.DefaultKeepLast,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Report is the outcome of one build.
type Report struct {
	Mode         toolchain.BuildMode
	Source       string
	Result       toolchain.InvocationResult
	ArtifactPath string
	ArtifactSize int64
	// LogPath is where latexmk writes the full compilation log.
	LogPath     string
	Diagnostics []toolchain.Diagnostic
}

// Succeeded reports whether the underlying invocation succeeded.
func (r *Report) Succeeded() bool { return r.Result.Succeeded }

// Build compiles source into outputDir with the given mode. Toolchain
// failure and timeout are reported in the Report, not as errors; only an
// unavailable execution environment is an error.
func (b *Builder) Build(ctx context.Context, mode toolchain.BuildMode, source, outputDir string) (*Report, error) {
	hostOut := b.hostPath(outputDir)
	if err := os.MkdirAll(hostOut, 0o755); err != nil {
		return nil, err
	}

	spec := toolchain.NewInvocation(mode, source, outputDir, b.sandbox, b.timeout)
	spec.Dir = b.dir
	if b.image != "" {
		spec.Image = b.image
	}

	slog.Info("starting build",
		logfields.Mode(mode.String()),
		logfields.Source(source),
		logfields.Output(outputDir),
		logfields.Engine(engineName(b.sandbox)))

	result, err := b.invoker.Execute(ctx, spec)
	if err != nil {
		return nil, err
	}

	report := &Report{Mode: mode, Source: source, Result: result, LogPath: LogPath(source, hostOut)}
	if result.Succeeded {
		report.ArtifactPath = ArtifactPath(source, hostOut)
		if info, statErr := os.Stat(report.ArtifactPath); statErr == nil {
			report.ArtifactSize = info.Size()
		}
	} else {
		report.Diagnostics = toolchain.ExtractDiagnostics(result, b.keepLast)
	}

	b.record(ctx, report)
	return report, nil
}

// Clean clears latexmk auxiliary state for source via the toolchain.
func (b *Builder) Clean(ctx context.Context, source, outputDir string) error {
	spec := toolchain.NewCleanInvocation(source, outputDir, b.sandbox)
	spec.Dir = b.dir
	if b.image != "" {
		spec.Image = b.image
	}
	_, err := b.invoker.Execute(ctx, spec)
	return err
}

// hostPath resolves a possibly-relative invocation path to the host
// filesystem.
func (b *Builder) hostPath(path string) string {
	if b.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.dir, path)
}

func (b *Builder) record(ctx context.Context, report *Report) {
	b.recorder.ObserveBuildDuration(report.Result.Elapsed)
	switch {
	case report.Result.Succeeded:
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	case report.Result.TimedOut:
		b.recorder.IncBuildOutcome(metrics.OutcomeTimeout)
	default:
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}

	if b.store == nil {
		return
	}
	rec := history.Record{
		Mode:      report.Mode.String(),
		Engine:    engineName(b.sandbox),
		Source:    report.Source,
		Succeeded: report.Result.Succeeded,
		TimedOut:  report.Result.TimedOut,
		Duration:  report.Result.Elapsed,
		Message:   report.Result.Message,
	}
	if _, err := b.store.Append(ctx, rec); err != nil {
		slog.Warn("failed to record build history", logfields.Error(err))
	}
}

// ArtifactPath returns the expected PDF path for a source file.
func ArtifactPath(source, outputDir string) string {
	return filepath.Join(outputDir, stem(source)+".pdf")
}

// LogPath returns the latexmk log path for a source file.
func LogPath(source, outputDir string) string {
	return filepath.Join(outputDir, stem(source)+".log")
}

func stem(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func engineName(sandbox bool) string {
	if sandbox {
		return "docker"
	}
	return "local"
}
