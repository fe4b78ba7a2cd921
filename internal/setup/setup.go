// Package setup prepares a working environment: container runtime
// checks, image pulls, and the standard project directory layout.
package setup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"git.home.luguber.info/inful/texkit/internal/logfields"
	"git.home.luguber.info/inful/texkit/internal/toolchain"
)

// projectDirs is the directory layout every project gets.
var projectDirs = []string{
	"build",
	filepath.Join("assets", "images"),
	filepath.Join("assets", "figures"),
	filepath.Join("tests", "fixtures"),
}

// localTools are checked when running without a container.
var localTools = []string{"latexmk", "chktex"}

// Options controls a setup run.
type Options struct {
	// Root is the project directory; empty means the current directory.
	Root string
	// Image is the container image to ensure; empty uses the default.
	Image string
	// Local skips container checks and verifies local tools instead.
	Local bool
	// SkipPull checks for the image but does not pull it.
	SkipPull bool
	// ForcePull pulls the image even when it is already present.
	ForcePull bool
}

// Step is one setup action and its outcome.
type Step struct {
	Name   string
	OK     bool
	Detail string
}

// Result collects all setup steps.
type Result struct {
	Steps []Step
}

// Succeeded reports whether every step passed.
func (r *Result) Succeeded() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

func (r *Result) add(name string, ok bool, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, OK: ok, Detail: detail})
	if ok {
		slog.Info("setup step passed", slog.String("step", name), slog.String("detail", detail))
	} else {
		slog.Warn("setup step failed", slog.String("step", name), slog.String("detail", detail))
	}
}

// Run performs environment setup. All steps run even when earlier ones
// fail so the user sees the full picture in one pass.
func Run(ctx context.Context, opts Options) *Result {
	result := &Result{}

	if opts.Local {
		checkLocalTools(result)
	} else {
		ensureContainer(ctx, opts, result)
	}

	createProjectDirs(opts.Root, result)
	return result
}

func ensureContainer(ctx context.Context, opts Options, result *Result) {
	installed, version := toolchain.CheckDockerInstalled(ctx)
	if !installed {
		result.add("docker-installed", false, "docker not found in PATH; install Docker or rerun with --local")
		return
	}
	result.add("docker-installed", true, version)

	if !toolchain.CheckDockerAvailable(ctx) {
		result.add("docker-running", false, "docker daemon not reachable; start it and retry")
		return
	}
	result.add("docker-running", true, "daemon reachable")

	image := opts.Image
	if image == "" {
		image = toolchain.DefaultImage
	}
	if toolchain.ImageExists(ctx, image) && !opts.ForcePull {
		result.add("image", true, image+" present")
		return
	}
	if opts.SkipPull {
		result.add("image", false, image+" missing (pull skipped)")
		return
	}

	slog.Info("pulling image, this can take a while", logfields.Image(image))
	if err := toolchain.PullImage(ctx, image); err != nil {
		result.add("image", false, fmt.Sprintf("pull %s: %v", image, err))
		return
	}
	result.add("image", true, image+" pulled")
}

func checkLocalTools(result *Result) {
	for _, tool := range localTools {
		path, err := exec.LookPath(tool)
		if err != nil {
			result.add("tool-"+tool, false, tool+" not found in PATH")
			continue
		}
		result.add("tool-"+tool, true, path)
	}
}

func createProjectDirs(root string, result *Result) {
	if root == "" {
		root = "."
	}
	for _, dir := range projectDirs {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			result.add("dir-"+dir, false, err.Error())
			continue
		}
		result.add("dir-"+dir, true, path)
	}
}
