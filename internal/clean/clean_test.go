package clean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOutputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.pdf":        "%PDF",
		"main.aux":        "aux",
		"main.log":        "log",
		"main.synctex.gz": "gz",
		"main.run.xml":    "xml",
		"main.fdb_latexmk": "fdb",
		".gitkeep":        "",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	mintedDir := filepath.Join(dir, "_minted-main")
	require.NoError(t, os.MkdirAll(mintedDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mintedDir, "cache.pygtex"), []byte("cache"), 0o644))
	return dir
}

func planPaths(plan *Plan) []string {
	var names []string
	for _, e := range plan.Entries {
		names = append(names, filepath.Base(e.Path))
	}
	return names
}

func TestBuildPlanSelectsAuxFiles(t *testing.T) {
	dir := seedOutputDir(t)

	plan, err := BuildPlan(dir, Options{})
	require.NoError(t, err)

	names := planPaths(plan)
	assert.Contains(t, names, "main.aux")
	assert.Contains(t, names, "main.log")
	assert.Contains(t, names, "main.synctex.gz")
	assert.Contains(t, names, "main.run.xml")
	assert.Contains(t, names, "main.fdb_latexmk")
	assert.Contains(t, names, "_minted-main")
	assert.NotContains(t, names, "main.pdf")
	assert.NotContains(t, names, ".gitkeep")
	assert.Positive(t, plan.TotalSize)
}

func TestBuildPlanAllKeepsGitkeep(t *testing.T) {
	dir := seedOutputDir(t)

	plan, err := BuildPlan(dir, Options{All: true})
	require.NoError(t, err)

	names := planPaths(plan)
	assert.Contains(t, names, "main.pdf")
	assert.NotContains(t, names, ".gitkeep")
}

func TestExecuteRemovesPlannedEntries(t *testing.T) {
	dir := seedOutputDir(t)
	plan, err := BuildPlan(dir, Options{})
	require.NoError(t, err)

	removed, failed := Execute(plan, Options{})
	assert.Equal(t, len(plan.Entries), removed)
	assert.Zero(t, failed)

	_, err = os.Stat(filepath.Join(dir, "main.aux"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "_minted-main"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "main.pdf"))
	assert.NoError(t, err)
}

func TestExecuteDryRunRemovesNothing(t *testing.T) {
	dir := seedOutputDir(t)
	plan, err := BuildPlan(dir, Options{DryRun: true})
	require.NoError(t, err)

	removed, failed := Execute(plan, Options{DryRun: true})
	assert.Equal(t, len(plan.Entries), removed)
	assert.Zero(t, failed)

	_, err = os.Stat(filepath.Join(dir, "main.aux"))
	assert.NoError(t, err)
}

func TestBuildPlanMissingDir(t *testing.T) {
	plan, err := BuildPlan(filepath.Join(t.TempDir(), "absent"), Options{})
	require.NoError(t, err)
	assert.Empty(t, plan.Entries)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KiB", FormatSize(1536))
	assert.Equal(t, "2.0 MiB", FormatSize(2*1024*1024))
}
