package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/domain"
)

// setupGitRepo creates a temporary git repository for testing.
func setupGitRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Test\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// runGit executes a git command and fails the test if it errors.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, out)
}

func TestClient_IsRepository(t *testing.T) {
	client := NewClient()

	dir := setupGitRepo(t)
	assert.True(t, client.IsRepository(dir))

	assert.False(t, client.IsRepository(t.TempDir()))
	assert.False(t, client.IsRepository(filepath.Join(t.TempDir(), "missing")))
}

func TestClient_BranchExists(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	runGit(t, dir, "branch", "feature")

	exists, err := client.BranchExists(dir, "feature")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.BranchExists(dir, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_BranchExists_NotARepository(t *testing.T) {
	client := NewClient()

	_, err := client.BranchExists(t.TempDir(), "feature")
	assert.ErrorIs(t, err, domain.ErrNotARepository)
}

func TestClient_CreateWorktree(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, client.CreateWorktree(dir, path, "feature-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	exists, err := client.BranchExists(dir, "feature-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClient_CreateWorktree_BranchExists(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	runGit(t, dir, "branch", "taken")

	err := client.CreateWorktree(dir, filepath.Join(t.TempDir(), "wt"), "taken")
	assert.ErrorIs(t, err, domain.ErrBranchExists)
}

func TestClient_RemoveWorktree(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, client.CreateWorktree(dir, path, "feature-2"))

	// Dirty the worktree; removal is forced so this must not block it.
	require.NoError(t, os.WriteFile(filepath.Join(path, "scratch.txt"), []byte("wip\n"), 0o644))

	require.NoError(t, client.RemoveWorktree(dir, path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClient_HasPendingChanges(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	dirty, err := client.HasPendingChanges(dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x\n"), 0o644))

	dirty, err = client.HasPendingChanges(dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestClient_Merge(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	runGit(t, dir, "checkout", "-b", "feature")
	featureFile := filepath.Join(dir, "feature.txt")
	require.NoError(t, os.WriteFile(featureFile, []byte("feature content\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Add feature")
	runGit(t, dir, "checkout", "-")

	require.NoError(t, client.Merge(dir, "feature"))

	_, err := os.Stat(featureFile)
	assert.NoError(t, err, "feature file should exist after merge")
}

func TestClient_Merge_Failure(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	err := client.Merge(dir, "no-such-branch")
	require.Error(t, err)

	var ge *domain.GitError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "merge", ge.Op)
	assert.NotEmpty(t, ge.Diagnostic)
}

func TestClient_CheckoutAndCurrentBranch(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	runGit(t, dir, "branch", "feature")

	require.NoError(t, client.Checkout(dir, "feature"))

	branch, err := client.CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestClient_CreateBranch(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	require.NoError(t, client.CreateBranch(dir, "from-head", ""))

	exists, err := client.BranchExists(dir, "from-head")
	require.NoError(t, err)
	assert.True(t, exists)

	head, err := client.RevParse(dir, "HEAD")
	require.NoError(t, err)

	require.NoError(t, client.CreateBranch(dir, "from-hash", head))
	hash, err := client.RevParse(dir, "from-hash")
	require.NoError(t, err)
	assert.Equal(t, head, hash)
}

func TestClient_RevParse_BadRef(t *testing.T) {
	client := NewClient()
	dir := setupGitRepo(t)

	_, err := client.RevParse(dir, "does-not-exist")
	require.Error(t, err)
	assert.True(t, domain.IsGitError(err))
}
