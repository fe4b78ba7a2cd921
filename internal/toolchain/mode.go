package toolchain

import "time"

// BuildMode selects which latexmk invocation variant a build uses. The set
// is closed; each mode maps deterministically to an invocation override.
type BuildMode int

const (
	// ModeFull runs the complete latexmk pipeline including bibliography.
	ModeFull BuildMode = iota
	// ModeDraft overrides the compiler sub-invocation to a single
	// non-interactive pass without bibliography resolution.
	ModeDraft
	// ModeValidate overrides the sub-invocation to a halt-on-first-error
	// single pass; checks syntax without producing a final artifact.
	ModeValidate
)

func (m BuildMode) String() string {
	switch m {
	case ModeDraft:
		return "draft"
	case ModeValidate:
		return "validate"
	default:
		return "full"
	}
}

// ModeFromFlags maps the build command's flag pair to a BuildMode.
// Validate takes precedence when both are requested.
func ModeFromFlags(draft, validateOnly bool) BuildMode {
	switch {
	case validateOnly:
		return ModeValidate
	case draft:
		return ModeDraft
	default:
		return ModeFull
	}
}

// pdflatex sub-invocation overrides. Draft and validate are mutually
// exclusive overrides of the same underlying string.
const (
	draftOverride    = "-pdflatex=pdflatex -shell-escape -draftmode %O %S"
	validateOverride = "-pdflatex=pdflatex -shell-escape -draftmode -halt-on-error %O %S"
)

// NewInvocation builds the latexmk invocation for the given mode, source
// file and output directory. The sandbox flag selects container wrapping
// only; the logical command suffix is identical in both cases. A zero
// timeout picks the default for the execution mode.
func NewInvocation(mode BuildMode, source, outputDir string, sandbox bool, timeout time.Duration) InvocationSpec {
	cmd := []string{
		"latexmk",
		"-pdf",
		"-shell-escape",
		"-interaction=nonstopmode",
		"-file-line-error",
		"-g", // force rebuild, ignoring cached state from previous errors
		"-output-directory=" + outputDir,
	}

	switch mode {
	case ModeDraft:
		cmd = append(cmd, draftOverride)
	case ModeValidate:
		cmd = append(cmd, validateOverride, "-g")
	}

	cmd = append(cmd, source)

	if timeout == 0 {
		if sandbox {
			timeout = DefaultSandboxTimeout
		} else {
			timeout = DefaultLocalTimeout
		}
	}

	return InvocationSpec{
		Command: cmd,
		Sandbox: sandbox,
		Image:   DefaultImage,
		Timeout: timeout,
	}
}

// NewCleanInvocation builds the latexmk -c invocation used to clear
// auxiliary state before a build.
func NewCleanInvocation(source, outputDir string, sandbox bool) InvocationSpec {
	return InvocationSpec{
		Command: []string{"latexmk", "-c", "-output-directory=" + outputDir, source},
		Sandbox: sandbox,
		Image:   DefaultImage,
		Timeout: DefaultLintTimeout,
	}
}
