// Package git implements the version control gateway on top of the git
// CLI, with read-only checks served by go-git.
package git

import (
	"errors"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"track/internal/domain"
)

// Client is a stateless gateway; every call names the repository it
// operates on. Mutations shell out to git so their behavior matches
// what the user would get on the command line, and diagnostics are
// preserved verbatim in *domain.GitError.
type Client struct{}

// NewClient creates a new git client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.Gateway.
var _ domain.Gateway = (*Client)(nil)

// IsRepository reports whether path is the root of a git repository or
// a linked worktree.
func (c *Client) IsRepository(path string) bool {
	_, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{})
	return err == nil
}

// BranchExists checks if a local branch exists in repo.
func (c *Client) BranchExists(repo, branch string) (bool, error) {
	r, err := gogit.PlainOpenWithOptions(repo, &gogit.PlainOpenOptions{})
	if err != nil {
		return false, domain.ErrNotARepository
	}
	_, err = r.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateWorktree materializes a working copy of repo at path on a new
// branch. The branch must not already exist.
func (c *Client) CreateWorktree(repo, path, branch string) error {
	exists, err := c.BranchExists(repo, branch)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrBranchExists
	}
	return c.run(repo, "worktree add", "worktree", "add", "-b", branch, path)
}

// RemoveWorktree removes the working copy at path. Force is implied:
// lifecycle decisions about pending changes are made by the caller
// before getting here.
func (c *Client) RemoveWorktree(repo, path string) error {
	return c.run(repo, "worktree remove", "worktree", "remove", "--force", path)
}

// HasPendingChanges reports whether the working copy at path has
// staged, unstaged or untracked changes.
func (c *Client) HasPendingChanges(path string) (bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = path
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false, &domain.GitError{Op: "status", Diagnostic: strings.TrimSpace(string(out))}
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// Merge merges branch into the working copy at targetPath, always
// creating a merge commit.
func (c *Client) Merge(targetPath, branch string) error {
	return c.run(targetPath, "merge", "merge", "--no-ff", branch)
}

// Checkout switches repo's working copy to branch.
func (c *Client) Checkout(repo, branch string) error {
	return c.run(repo, "checkout", "checkout", branch)
}

// CreateBranch creates branch in repo at base without switching to it.
// An empty base means the current HEAD.
func (c *Client) CreateBranch(repo, branch, base string) error {
	args := []string{"branch", branch}
	if base != "" {
		args = append(args, base)
	}
	return c.run(repo, "branch", args...)
}

// CurrentBranch returns the name of repo's checked-out branch.
func (c *Client) CurrentBranch(repo string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = repo
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &domain.GitError{Op: "rev-parse", Diagnostic: strings.TrimSpace(string(out))}
	}
	return strings.TrimSpace(string(out)), nil
}

// RevParse resolves ref to a commit hash in repo.
func (c *Client) RevParse(repo, ref string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--verify", ref)
	cmd.Dir = repo
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &domain.GitError{Op: "rev-parse", Diagnostic: strings.TrimSpace(string(out))}
	}
	return strings.TrimSpace(string(out)), nil
}

// run executes a git command in dir and wraps any failure in a
// GitError carrying the combined output.
func (c *Client) run(dir, op string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return &domain.GitError{Op: op, Diagnostic: strings.TrimSpace(string(out))}
	}
	return nil
}
