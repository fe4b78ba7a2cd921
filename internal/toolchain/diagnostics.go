package toolchain

import "strings"

// Diagnostic is a single extracted line of toolchain output classified as
// signal (an error or warning worth showing to a human).
type Diagnostic string

// DefaultKeepLast bounds how many diagnostic lines are reported.
const DefaultKeepLast = 10

// fallbackTailBytes is how much raw output is surfaced when no line
// matches a marker, so the caller always has some context.
const fallbackTailBytes = 800

// ExtractDiagnostics filters a failed invocation's combined output down to
// the lines carrying signal. A line matches when it contains "!" or a
// case-insensitive "error". The last keepLast matches are returned in
// original order: later errors in a compilation log are more often the
// root cause after cascading failures. With zero matches the tail of the
// raw output is returned instead, so the result is never empty for
// non-empty output. This is a lossy best-effort summarizer, not a parser
// of the toolchain's diagnostic grammar.
func ExtractDiagnostics(result InvocationResult, keepLast int) []Diagnostic {
	if keepLast <= 0 {
		keepLast = DefaultKeepLast
	}

	combined := result.CombinedOutput()
	var matched []Diagnostic
	for _, line := range strings.Split(combined, "\n") {
		if lineMatches(line) {
			matched = append(matched, Diagnostic(line))
		}
	}

	if len(matched) > keepLast {
		matched = matched[len(matched)-keepLast:]
	}
	if len(matched) > 0 {
		return matched
	}

	return fallbackTail(combined)
}

func lineMatches(line string) bool {
	if strings.Contains(line, "!") {
		return true
	}
	return strings.Contains(strings.ToLower(line), "error")
}

func fallbackTail(combined string) []Diagnostic {
	if combined == "" {
		return nil
	}
	tail := combined
	if len(tail) > fallbackTailBytes {
		tail = tail[len(tail)-fallbackTailBytes:]
	}
	var out []Diagnostic
	for _, line := range strings.Split(tail, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, Diagnostic(line))
		}
	}
	if len(out) == 0 {
		out = []Diagnostic{Diagnostic(strings.TrimSpace(tail))}
	}
	return out
}

// FormatDiagnostics joins diagnostics for terminal or log output.
func FormatDiagnostics(diags []Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = string(d)
	}
	return strings.Join(lines, "\n")
}
