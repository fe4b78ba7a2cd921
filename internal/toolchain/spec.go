// Package toolchain constructs and executes invocations of the external
// LaTeX toolchain (latexmk, chktex, lacheck, biber), either inside the
// pinned TeX Live container or against a local installation. It only
// orchestrates invocation and interprets results; the compilers themselves
// are opaque subprocesses.
package toolchain

import (
	"time"
)

// DefaultImage is the pinned container image shared by all invokers.
const DefaultImage = "texlive/texlive:latest-full"

// ContainerWorkdir is where the project root is mounted inside the sandbox.
const ContainerWorkdir = "/workspace"

// Default invocation timeouts.
const (
	DefaultSandboxTimeout = 10 * time.Minute
	DefaultLocalTimeout   = 5 * time.Minute
	DefaultLintTimeout    = time.Minute
	dockerProbeTimeout    = 10 * time.Second
)

// InvocationSpec describes a single toolchain invocation. It is immutable
// once built and constructed fresh per invocation.
type InvocationSpec struct {
	// Command is the logical toolchain argv (e.g. ["latexmk", ...]). When
	// Sandbox is set it is wrapped in a container run; otherwise it is
	// executed directly.
	Command []string

	// Dir is the working directory for local execution. For sandboxed
	// execution it is the host directory mounted at ContainerWorkdir.
	Dir string

	// Sandbox selects container execution with Image.
	Sandbox bool
	Image   string

	// Timeout bounds the invocation; the child process group is killed
	// when it elapses.
	Timeout time.Duration
}

// argv resolves the full host command line. The logical command suffix is
// identical in both execution modes; only the wrapping differs.
func (s InvocationSpec) argv() []string {
	if !s.Sandbox {
		return s.Command
	}
	image := s.Image
	if image == "" {
		image = DefaultImage
	}
	wrapped := []string{
		"docker", "run", "--rm",
		"-v", s.Dir + ":" + ContainerWorkdir,
		"-w", ContainerWorkdir,
		image,
	}
	return append(wrapped, s.Command...)
}

// InvocationResult captures one toolchain run. Produced once per invocation
// and never mutated afterwards.
type InvocationResult struct {
	Succeeded bool
	TimedOut  bool
	Stdout    string
	Stderr    string
	Elapsed   time.Duration
	Message   string
}

// CombinedOutput returns stdout and stderr joined for diagnostic scanning.
func (r InvocationResult) CombinedOutput() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}
