package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

type stubInvoker struct {
	result toolchain.InvocationResult
	err    error
	specs  []toolchain.InvocationSpec
}

func (s *stubInvoker) Execute(_ context.Context, spec toolchain.InvocationSpec) (toolchain.InvocationResult, error) {
	s.specs = append(s.specs, spec)
	return s.result, s.err
}

func TestBuildSuccessReportsArtifact(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))
	pdf := filepath.Join(outputDir, "main.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7 fake"), 0o644))

	stub := &stubInvoker{result: toolchain.InvocationResult{Succeeded: true, Elapsed: time.Second}}
	b := New(stub, false)

	report, err := b.Build(context.Background(), toolchain.ModeFull, "src/main.tex", outputDir)
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Equal(t, pdf, report.ArtifactPath)
	assert.Equal(t, int64(13), report.ArtifactSize)
	assert.Empty(t, report.Diagnostics)
}

func TestBuildFailureExtractsDiagnostics(t *testing.T) {
	stub := &stubInvoker{result: toolchain.InvocationResult{
		Succeeded: false,
		Stdout:    "some banner\n! Undefined control sequence.\nl.42 \\badmacro\n",
	}}
	b := New(stub, true)

	report, err := b.Build(context.Background(), toolchain.ModeFull, "src/main.tex", t.TempDir())
	require.NoError(t, err)
	assert.False(t, report.Succeeded())
	assert.NotEmpty(t, report.Diagnostics)
	assert.Contains(t, string(report.Diagnostics[0]), "Undefined control sequence")
	assert.Empty(t, report.ArtifactPath)
}

func TestBuildReportsLogPath(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "build")
	stub := &stubInvoker{result: toolchain.InvocationResult{Succeeded: false}}
	b := New(stub, true)

	report, err := b.Build(context.Background(), toolchain.ModeFull, "src/main.tex", outputDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "main.log"), report.LogPath)
}

func TestLogPath(t *testing.T) {
	assert.Equal(t, filepath.Join("build", "thesis.log"), LogPath("src/thesis.tex", "build"))
}

func TestBuildInvokerErrorPropagates(t *testing.T) {
	stub := &stubInvoker{err: os.ErrNotExist}
	b := New(stub, false)

	_, err := b.Build(context.Background(), toolchain.ModeFull, "src/main.tex", t.TempDir())
	require.Error(t, err)
}

func TestBuildPassesImageOverride(t *testing.T) {
	stub := &stubInvoker{result: toolchain.InvocationResult{Succeeded: true}}
	b := New(stub, true, WithImage("texlive/texlive:2025"))

	_, err := b.Build(context.Background(), toolchain.ModeDraft, "src/main.tex", t.TempDir())
	require.NoError(t, err)
	require.Len(t, stub.specs, 1)
	assert.Equal(t, "texlive/texlive:2025", stub.specs[0].Image)
	assert.True(t, stub.specs[0].Sandbox)
}

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, filepath.Join("build", "main.pdf"), ArtifactPath("src/main.tex", "build"))
	assert.Equal(t, filepath.Join("out", "thesis.pdf"), ArtifactPath("thesis.tex", "out"))
}
