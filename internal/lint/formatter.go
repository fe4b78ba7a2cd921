package lint

import (
	"fmt"
	"strings"
)

// FormatSummary renders a lint summary for terminal output. Files
// without findings are listed as clean so the reader can tell they were
// checked.
func FormatSummary(summary *Summary) string {
	var b strings.Builder

	for _, file := range summary.Files {
		switch {
		case file.Failed:
			fmt.Fprintf(&b, "✗ %s: checker failed: %v\n", file.Path, file.Err)
		case len(file.Findings) == 0:
			fmt.Fprintf(&b, "✓ %s\n", file.Path)
		default:
			fmt.Fprintf(&b, "⚠ %s (%d)\n", file.Path, len(file.Findings))
			for _, finding := range file.Findings {
				fmt.Fprintf(&b, "    %s\n", finding)
			}
		}
	}

	fmt.Fprintf(&b, "\n%d file(s) checked, %d finding(s)", len(summary.Files), summary.Total)
	if summary.Failures > 0 {
		fmt.Fprintf(&b, ", %d checker failure(s)", summary.Failures)
	}
	b.WriteString("\n")
	return b.String()
}
