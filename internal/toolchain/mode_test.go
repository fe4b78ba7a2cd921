package toolchain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvocationBaseFlags(t *testing.T) {
	spec := NewInvocation(ModeFull, "src/main.tex", "build", false, 0)

	assert.Equal(t, "latexmk", spec.Command[0])
	assert.Contains(t, spec.Command, "-pdf")
	assert.Contains(t, spec.Command, "-shell-escape")
	assert.Contains(t, spec.Command, "-interaction=nonstopmode")
	assert.Contains(t, spec.Command, "-file-line-error")
	assert.Contains(t, spec.Command, "-g")
	assert.Contains(t, spec.Command, "-output-directory=build")
	assert.Equal(t, "src/main.tex", spec.Command[len(spec.Command)-1])
}

func TestNewInvocationDraftNeverHaltsOnError(t *testing.T) {
	spec := NewInvocation(ModeDraft, "src/main.tex", "build", false, 0)

	joined := strings.Join(spec.Command, " ")
	assert.Contains(t, joined, "-draftmode")
	assert.NotContains(t, joined, "-halt-on-error")
}

func TestNewInvocationValidateHaltsOnError(t *testing.T) {
	spec := NewInvocation(ModeValidate, "src/main.tex", "build", false, 0)

	joined := strings.Join(spec.Command, " ")
	assert.Contains(t, joined, "-halt-on-error")
	assert.Contains(t, joined, "-draftmode")
}

func TestModeFromFlagsValidatePrecedence(t *testing.T) {
	// Validate wins even when draft is also requested; explicit policy.
	assert.Equal(t, ModeValidate, ModeFromFlags(true, true))
	assert.Equal(t, ModeValidate, ModeFromFlags(false, true))
	assert.Equal(t, ModeDraft, ModeFromFlags(true, false))
	assert.Equal(t, ModeFull, ModeFromFlags(false, false))
}

func TestSandboxLocalCommandSymmetry(t *testing.T) {
	// The logical command suffix must be identical regardless of whether
	// the invocation is wrapped for the container runtime.
	for _, mode := range []BuildMode{ModeFull, ModeDraft, ModeValidate} {
		local := NewInvocation(mode, "src/main.tex", "build", false, time.Minute)
		sandboxed := NewInvocation(mode, "src/main.tex", "build", true, time.Minute)
		assert.Equal(t, local.Command, sandboxed.Command, "mode %s", mode)
	}
}

func TestSandboxArgvWrapping(t *testing.T) {
	spec := NewInvocation(ModeFull, "src/main.tex", "build", true, 0)
	spec.Dir = "/home/user/paper"

	argv := spec.argv()
	require.Greater(t, len(argv), len(spec.Command))
	assert.Equal(t, []string{
		"docker", "run", "--rm",
		"-v", "/home/user/paper:/workspace",
		"-w", "/workspace",
		DefaultImage,
	}, argv[:8])
	assert.Equal(t, spec.Command, argv[8:])
}

func TestLocalArgvUnwrapped(t *testing.T) {
	spec := NewInvocation(ModeFull, "src/main.tex", "build", false, 0)
	assert.Equal(t, spec.Command, spec.argv())
}

func TestDefaultTimeouts(t *testing.T) {
	assert.Equal(t, DefaultSandboxTimeout, NewInvocation(ModeFull, "a.tex", "build", true, 0).Timeout)
	assert.Equal(t, DefaultLocalTimeout, NewInvocation(ModeFull, "a.tex", "build", false, 0).Timeout)
	assert.Equal(t, 90*time.Second, NewInvocation(ModeFull, "a.tex", "build", true, 90*time.Second).Timeout)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "full", ModeFull.String())
	assert.Equal(t, "draft", ModeDraft.String())
	assert.Equal(t, "validate", ModeValidate.String())
}
