package toolchain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	texerrors "git.home.luguber.info/inful/texkit/internal/errors"
)

func shellSpec(script string, timeout time.Duration) InvocationSpec {
	return InvocationSpec{
		Command: []string{"sh", "-c", script},
		Timeout: timeout,
	}
}

func TestExecuteSuccess(t *testing.T) {
	r := NewRunner()
	res, err := r.Execute(context.Background(), shellSpec("echo out; echo err >&2", time.Minute))
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Stdout, "out")
	assert.Contains(t, res.Stderr, "err")
	assert.Greater(t, res.Elapsed, time.Duration(0))
}

func TestExecuteNonZeroExitIsReportedNotError(t *testing.T) {
	r := NewRunner()
	res, err := r.Execute(context.Background(), shellSpec("echo '! failed'; exit 3", time.Minute))
	require.NoError(t, err, "ordinary toolchain failure must not be an error")
	assert.False(t, res.Succeeded)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Stdout, "! failed")
	assert.NotEmpty(t, res.Message)
}

func TestExecuteTimeoutKillsProcess(t *testing.T) {
	r := NewRunner()
	start := time.Now()
	res, err := r.Execute(context.Background(), shellSpec("sleep 30", 200*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.True(t, res.TimedOut)
	assert.Contains(t, res.Message, "timed out")
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecuteMissingBinaryIsEnvironmentError(t *testing.T) {
	r := NewRunner()
	spec := InvocationSpec{Command: []string{"definitely-not-a-real-binary-xyz"}, Timeout: time.Second}
	_, err := r.Execute(context.Background(), spec)
	require.Error(t, err)
	assert.True(t, texerrors.IsCategory(err, texerrors.CategoryEnvironment))
}

func TestExecuteRunsInDir(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner()
	spec := shellSpec("pwd", time.Minute)
	spec.Dir = dir
	res, err := r.Execute(context.Background(), spec)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, dir)
}

func TestCombinedOutput(t *testing.T) {
	assert.Equal(t, "a\nb", InvocationResult{Stdout: "a", Stderr: "b"}.CombinedOutput())
	assert.Equal(t, "a", InvocationResult{Stdout: "a"}.CombinedOutput())
	assert.Equal(t, "b", InvocationResult{Stderr: "b"}.CombinedOutput())
}
