package toolchain

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CheckDockerInstalled reports whether the docker CLI is present, returning
// the version string when it is.
func CheckDockerInstalled(ctx context.Context) (bool, string) {
	probeCtx, cancel := context.WithTimeout(ctx, dockerProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, "docker", "--version").Output()
	if err != nil {
		return false, ""
	}
	return true, strings.TrimSpace(string(out))
}

// CheckDockerAvailable reports whether the docker daemon responds.
// This is the pre-invocation gate for sandboxed builds.
func CheckDockerAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, dockerProbeTimeout)
	defer cancel()
	return exec.CommandContext(probeCtx, "docker", "info").Run() == nil
}

// ImageExists reports whether the image is already pulled locally.
func ImageExists(ctx context.Context, image string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, dockerProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, "docker", "images", "-q", image).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// PullImage pulls the toolchain image. The image is ~4GB, so the timeout is
// generous. Output streams to the inherited stdio so progress is visible.
func PullImage(ctx context.Context, image string) error {
	pullCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()
	cmd := exec.CommandContext(pullCtx, "docker", "pull", image)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
