// Package check runs an end-to-end self-test of the build environment:
// it verifies the supporting tools respond and that a minimal document
// actually compiles to a PDF.
package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/texkit/internal/builder"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// testDocument is the minimal source compiled when no test document is
// supplied. It exercises the default engine path without external
// packages.
const testDocument = `\documentclass{article}
\begin{document}
Environment self-test.
\end{document}
`

// Options controls a check run.
type Options struct {
	// Sandbox runs everything through the toolchain container.
	Sandbox bool
	// Image overrides the container image.
	Image string
	// Timeout bounds each probe; zero uses the lint default.
	Timeout time.Duration
	// TestDoc compiles this file instead of the built-in minimal one.
	TestDoc string
	// SkipCompile leaves out the compile probe.
	SkipCompile bool
}

// Item is one self-test and its outcome.
type Item struct {
	Name   string
	OK     bool
	Detail string
}

// Report lists every self-test outcome.
type Report struct {
	Items []Item
}

// Passed reports whether every item succeeded.
func (r *Report) Passed() bool {
	for _, item := range r.Items {
		if !item.OK {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, ok bool, detail string) {
	r.Items = append(r.Items, Item{Name: name, OK: ok, Detail: detail})
}

// Run executes the full self-test suite. Probes continue after failures
// so one broken tool does not hide the state of the others.
func Run(ctx context.Context, invoker toolchain.Invoker, opts Options) *Report {
	if opts.Timeout <= 0 {
		opts.Timeout = toolchain.DefaultLintTimeout
	}

	report := &Report{}

	docDir, docName, cleanup, err := resolveTestDoc(opts)
	if err != nil {
		report.add("test-document", false, err.Error())
		return report
	}
	defer cleanup()

	report.add(probe(ctx, invoker, opts, "latexmk", "", []string{"latexmk", "-version"}))
	report.add(probe(ctx, invoker, opts, "biber", "", []string{"biber", "--version"}))
	report.add(probe(ctx, invoker, opts, "pygments", "", []string{"python3", "-c", "import pygments"}))
	report.add(probe(ctx, invoker, opts, "chktex", docDir, []string{"chktex", "-v1", "-q", docName}))
	if !opts.SkipCompile {
		report.add(probeCompile(ctx, invoker, opts, docDir, docName))
	}
	return report
}

// resolveTestDoc returns the directory and file name of the document the
// probes operate on, materializing the built-in one when none is given.
func resolveTestDoc(opts Options) (dir, name string, cleanup func(), err error) {
	if opts.TestDoc != "" {
		if _, statErr := os.Stat(opts.TestDoc); statErr != nil {
			return "", "", nil, statErr
		}
		return filepath.Dir(opts.TestDoc), filepath.Base(opts.TestDoc), func() {}, nil
	}

	dir, err = os.MkdirTemp("", "texkit-check-*")
	if err != nil {
		return "", "", nil, err
	}
	name = "probe.tex"
	if err = os.WriteFile(filepath.Join(dir, name), []byte(testDocument), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return "", "", nil, err
	}
	return dir, name, func() { _ = os.RemoveAll(dir) }, nil
}

func probe(ctx context.Context, invoker toolchain.Invoker, opts Options, name, dir string, command []string) (string, bool, string) {
	spec := toolchain.InvocationSpec{
		Command: command,
		Dir:     dir,
		Sandbox: opts.Sandbox,
		Image:   opts.Image,
		Timeout: opts.Timeout,
	}
	res, err := invoker.Execute(ctx, spec)
	switch {
	case err != nil:
		return name, false, err.Error()
	case res.TimedOut:
		return name, false, fmt.Sprintf("timed out after %s", opts.Timeout)
	case !res.Succeeded:
		return name, false, firstLine(res.CombinedOutput())
	default:
		return name, true, firstLine(res.Stdout)
	}
}

// probeCompile builds the test document and verifies a non-empty PDF
// came out.
func probeCompile(ctx context.Context, invoker toolchain.Invoker, opts Options, docDir, docName string) (string, bool, string) {
	const name = "compile"

	b := builder.New(invoker, opts.Sandbox,
		builder.WithImage(opts.Image),
		builder.WithTimeout(opts.Timeout),
		builder.WithDir(docDir))
	report, err := b.Build(ctx, toolchain.ModeFull, docName, "out")
	if err != nil {
		return name, false, err.Error()
	}
	if !report.Succeeded() {
		return name, false, "test document failed to compile"
	}
	if report.ArtifactSize == 0 {
		return name, false, "compile reported success but produced no PDF"
	}
	return name, true, fmt.Sprintf("produced %d byte PDF", report.ArtifactSize)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
