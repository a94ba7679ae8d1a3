package cli

import (
	"context"
	"os/exec"
	"strings"

	"github.com/AndreyAkinshin/simregress/internal/errors"
)

// currentBranch returns the git branch checked out in dir.
func currentBranch(ctx context.Context, dir string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", errors.Environment("git not found on PATH", err)
	}

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Environment("could not determine the current git branch", err)
	}

	branch := strings.TrimSpace(string(out))
	if branch == "" || branch == "HEAD" {
		return "", errors.Environment("HEAD is detached; pass --candidate-tag explicitly", nil)
	}
	return branch, nil
}

// branchTag makes a branch name usable inside an artifact file name.
func branchTag(branch string) string {
	return strings.NewReplacer("/", "_", `\`, "_", " ", "_").Replace(branch)
}
