package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Mode", KeyMode, "full", Mode("full")},
		{"Engine", KeyEngine, "docker", Engine("docker")},
		{"Source", KeySource, "src/main.tex", Source("src/main.tex")},
		{"Output", KeyOutput, "build", Output("build")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "main.tex", File("main.tex")},
		{"Dir", KeyDir, "styles", Dir("styles")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
		{"Image", KeyImage, "texlive/texlive:latest-full", Image("texlive/texlive:latest-full")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Errorf("%s: key = %q, want %q", c.name, c.attr.Key, c.attrKey)
		}
		if got := c.attr.Value.String(); got != c.attrVal {
			t.Errorf("%s: value = %q, want %q", c.name, got, c.attrVal)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	a := Error(errors.New("boom"))
	if a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected attr: %v", a)
	}
	if Error(nil).Value.String() != "" {
		t.Fatalf("nil error should map to empty string")
	}
}
