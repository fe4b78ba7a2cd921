// Package lint runs the LaTeX style checkers (chktex, optionally
// lacheck) over every source file and aggregates their findings.
package lint

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	texerrors "git.home.luguber.info/inful/texkit/internal/errors"
	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// Options controls a lint run.
type Options struct {
	// Verbosity is chktex's -v level (0-3).
	Verbosity int
	// Strict treats any finding as a failure.
	Strict bool
	// Lacheck also runs lacheck on each file.
	Lacheck bool
	// Sandbox runs the checkers inside the toolchain container.
	Sandbox bool
	// Image overrides the container image.
	Image string
	// Timeout bounds each checker invocation; zero uses the default.
	Timeout time.Duration
}

// FileResult holds the findings for one source file.
type FileResult struct {
	Path     string
	Findings []string
	// Failed marks a checker that could not run, as opposed to one that
	// ran and reported findings.
	Failed bool
	Err    error
}

// Summary aggregates a lint run over all files.
type Summary struct {
	Files    []FileResult
	Total    int
	Failures int
}

// Clean reports whether the run produced no findings and no failures.
func (s *Summary) Clean() bool { return s.Total == 0 && s.Failures == 0 }

// Linter drives the external checkers through a toolchain invoker.
type Linter struct {
	invoker toolchain.Invoker
	opts    Options
}

// New creates a Linter.
func New(invoker toolchain.Invoker, opts Options) *Linter {
	if opts.Timeout <= 0 {
		opts.Timeout = toolchain.DefaultLintTimeout
	}
	return &Linter{invoker: invoker, opts: opts}
}

// Run lints every .tex file under sourceDir. A checker failing on one
// file does not stop the run; the failure is recorded and the remaining
// files are still checked.
func (l *Linter) Run(ctx context.Context, sourceDir string) (*Summary, error) {
	files, err := FindTexFiles(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .tex files under %s", sourceDir)
	}
	return l.Files(ctx, files), nil
}

// Files lints an explicit list of files.
func (l *Linter) Files(ctx context.Context, files []string) *Summary {
	summary := &Summary{}
	for _, file := range files {
		result := l.lintFile(ctx, file)
		summary.Files = append(summary.Files, result)
		summary.Total += len(result.Findings)
		if result.Failed {
			summary.Failures++
		}
	}
	return summary
}

func (l *Linter) lintFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}

	chktex := []string{"chktex", fmt.Sprintf("-v%d", l.opts.Verbosity), "-q", path}
	result.merge(l.runChecker(ctx, chktex))

	if l.opts.Lacheck {
		result.merge(l.runChecker(ctx, []string{"lacheck", path}))
	}

	slog.Debug("linted file", logfields.File(path), slog.Int("findings", len(result.Findings)))
	return result
}

type checkerOutcome struct {
	findings []string
	err      error
}

func (r *FileResult) merge(out checkerOutcome) {
	r.Findings = append(r.Findings, out.findings...)
	if out.err != nil {
		r.Failed = true
		if r.Err == nil {
			r.Err = out.err
		}
	}
}

func (l *Linter) runChecker(ctx context.Context, command []string) checkerOutcome {
	spec := toolchain.InvocationSpec{
		Command: command,
		Sandbox: l.opts.Sandbox,
		Image:   l.opts.Image,
		Timeout: l.opts.Timeout,
	}
	res, err := l.invoker.Execute(ctx, spec)
	if err != nil {
		return checkerOutcome{err: err}
	}
	if res.TimedOut {
		return checkerOutcome{err: texerrors.BuildTimeout(command[0], l.opts.Timeout.Seconds())}
	}
	return checkerOutcome{findings: splitFindings(res.CombinedOutput())}
}

func splitFindings(output string) []string {
	var findings []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		findings = append(findings, line)
	}
	return findings
}

// FindTexFiles returns all .tex files under root, sorted, with hidden
// directories skipped.
func FindTexFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".tex") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
