package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectDirs(t *testing.T) {
	root := t.TempDir()
	result := &Result{}
	createProjectDirs(root, result)

	require.True(t, result.Succeeded())
	for _, dir := range projectDirs {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestCreateProjectDirsIdempotent(t *testing.T) {
	root := t.TempDir()
	first := &Result{}
	createProjectDirs(root, first)
	second := &Result{}
	createProjectDirs(root, second)
	assert.True(t, second.Succeeded())
}

func TestResultSucceeded(t *testing.T) {
	r := &Result{}
	r.add("a", true, "")
	assert.True(t, r.Succeeded())
	r.add("b", false, "boom")
	assert.False(t, r.Succeeded())
	assert.Len(t, r.Steps, 2)
}
