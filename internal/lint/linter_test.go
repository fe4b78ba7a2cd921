package lint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// scriptedInvoker returns canned results keyed by the checker binary.
type scriptedInvoker struct {
	results map[string]toolchain.InvocationResult
	errs    map[string]error
	calls   []toolchain.InvocationSpec
}

func (s *scriptedInvoker) Execute(_ context.Context, spec toolchain.InvocationSpec) (toolchain.InvocationResult, error) {
	s.calls = append(s.calls, spec)
	name := spec.Command[0]
	if err, ok := s.errs[name]; ok {
		return toolchain.InvocationResult{}, err
	}
	return s.results[name], nil
}

func writeTexTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("\\documentclass{article}\n"), 0o644))
	}
	return root
}

func TestFindTexFiles(t *testing.T) {
	root := writeTexTree(t,
		"main.tex",
		"chapters/intro.tex",
		"chapters/notes.txt",
		".hidden/skipped.tex",
	)

	files, err := FindTexFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "chapters", "intro.tex"), files[0])
	assert.Equal(t, filepath.Join(root, "main.tex"), files[1])
}

func TestRunCollectsFindings(t *testing.T) {
	root := writeTexTree(t, "main.tex")
	inv := &scriptedInvoker{results: map[string]toolchain.InvocationResult{
		"chktex": {Succeeded: true, Stdout: "Warning 24 in main.tex line 3: Delete this space\n"},
	}}

	summary, err := New(inv, Options{Verbosity: 1}).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Failures)
	assert.False(t, summary.Clean())
	require.Len(t, inv.calls, 1)
	assert.Equal(t, []string{"chktex", "-v1", "-q", filepath.Join(root, "main.tex")}, inv.calls[0].Command)
}

func TestRunWithLacheckChecksBoth(t *testing.T) {
	root := writeTexTree(t, "main.tex")
	inv := &scriptedInvoker{results: map[string]toolchain.InvocationResult{
		"chktex":  {Succeeded: true},
		"lacheck": {Succeeded: true, Stdout: "\"main.tex\", line 2: possible unwanted space\n"},
	}}

	summary, err := New(inv, Options{Lacheck: true}).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	require.Len(t, inv.calls, 2)
	assert.Equal(t, "chktex", inv.calls[0].Command[0])
	assert.Equal(t, "lacheck", inv.calls[1].Command[0])
}

func TestCheckerFailureDoesNotStopRun(t *testing.T) {
	root := writeTexTree(t, "a.tex", "b.tex")
	inv := &scriptedInvoker{
		results: map[string]toolchain.InvocationResult{},
		errs:    map[string]error{"chktex": errors.New("chktex not found in PATH")},
	}

	summary, err := New(inv, Options{}).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failures)
	assert.Len(t, inv.calls, 2)
	assert.False(t, summary.Clean())
}

func TestRunNoTexFiles(t *testing.T) {
	_, err := New(&scriptedInvoker{}, Options{}).Run(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestCleanSummary(t *testing.T) {
	root := writeTexTree(t, "main.tex")
	inv := &scriptedInvoker{results: map[string]toolchain.InvocationResult{
		"chktex": {Succeeded: true},
	}}

	summary, err := New(inv, Options{}).Run(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, summary.Clean())

	out := FormatSummary(summary)
	assert.Contains(t, out, "1 file(s) checked, 0 finding(s)")
}
