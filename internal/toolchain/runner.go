package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	texerrors "git.home.luguber.info/inful/texkit/internal/errors"
	"git.home.luguber.info/inful/texkit/internal/logfields"
)

// Invoker executes a single toolchain invocation. Runner is the production
// implementation; tests substitute their own.
type Invoker interface {
	Execute(ctx context.Context, spec InvocationSpec) (InvocationResult, error)
}

// Runner spawns exactly one external process per Execute call. Non-zero
// exit is a normal reported outcome; only a missing binary or sandbox
// runtime is surfaced as an error. No retries: the toolchain is not
// assumed safe to blindly re-run.
type Runner struct{}

// NewRunner returns a Runner.
func NewRunner() *Runner { return &Runner{} }

// Execute runs the invocation described by spec and captures its output.
// On timeout the child process and any descendants are killed and the
// result reports Succeeded=false with TimedOut set.
func (r *Runner) Execute(ctx context.Context, spec InvocationSpec) (InvocationResult, error) {
	argv := spec.argv()

	binary := argv[0]
	if _, err := exec.LookPath(binary); err != nil {
		if spec.Sandbox {
			return InvocationResult{}, texerrors.EnvironmentUnavailable(
				"container runtime not found; install Docker or use local execution", err)
		}
		return InvocationResult{}, texerrors.EnvironmentUnavailable(
			fmt.Sprintf("%s not found; install TeX Live or use sandboxed execution", binary), err)
	}

	dir := spec.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return InvocationResult{}, texerrors.InternalError("resolve working directory", err)
		}
		dir = cwd
	}
	if spec.Sandbox {
		// Re-resolve the mount source now that Dir is known.
		resolved := spec
		resolved.Dir = dir
		argv = resolved.argv()
	}

	timeout := spec.Timeout
	if timeout == 0 {
		timeout = DefaultLocalTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 -- argv is assembled from fixed toolchain constants plus validated paths
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	if !spec.Sandbox {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run the child in its own process group so that on timeout the whole
	// latexmk subtree is terminated, not just the direct child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	slog.Debug("invoking toolchain",
		slog.String("command", strings.Join(argv, " ")),
		logfields.Dir(dir),
		slog.Duration("timeout", timeout))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := InvocationResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: elapsed,
	}

	switch {
	case err == nil:
		result.Succeeded = true
	case runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.Message = fmt.Sprintf("timed out after %s", timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Message = exitErr.Error()
		} else {
			// The binary existed at LookPath time but could not be started.
			return InvocationResult{}, texerrors.EnvironmentUnavailable(
				fmt.Sprintf("failed to start %s", binary), err)
		}
	}

	slog.Debug("toolchain invocation finished",
		slog.Bool("succeeded", result.Succeeded),
		slog.Bool("timed_out", result.TimedOut),
		logfields.DurationMS(float64(elapsed.Milliseconds())))

	return result, nil
}
