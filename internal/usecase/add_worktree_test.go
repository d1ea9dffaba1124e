package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/domain"
)

func TestAddWorktree_ExplicitBranchAndTicket(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "PROJ-1", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))

	uc := NewAddWorktree(env.store, env.git, env.clock)
	out, err := uc.Execute(context.Background(), AddWorktreeInput{
		RepoPath: "/srv/repo",
		Branch:   "feature-x",
	})
	require.NoError(t, err)

	assert.Equal(t, "PROJ-1/feature-x", out.Worktree.Branch)
	assert.Equal(t, filepath.Join("/srv", "repo-worktrees", "PROJ-1", "feature-x"), out.Worktree.Path)
	assert.Equal(t, "/srv/repo", out.Worktree.BaseRepo)
	assert.False(t, out.Worktree.IsBase)
}

func TestAddWorktree_TodoBranch(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "PROJ-2", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))
	todo, err := env.store.AddTodo(task.ID, "work", true)
	require.NoError(t, err)

	uc := NewAddWorktree(env.store, env.git, env.clock)
	out, err := uc.Execute(context.Background(), AddWorktreeInput{
		RepoPath:  "/srv/repo",
		TodoIndex: todo.TaskIndex,
	})
	require.NoError(t, err)
	assert.Equal(t, "PROJ-2-todo-1", out.Worktree.Branch)
	assert.Equal(t, todo.ID, out.Worktree.TodoID)

	// A todo has at most one active worktree.
	_, err = uc.Execute(context.Background(), AddWorktreeInput{
		RepoPath:  "/srv/repo",
		TodoIndex: todo.TaskIndex,
	})
	assert.ErrorIs(t, err, domain.ErrTodoHasWorktree)
}

func TestAddWorktree_BaseInvariant(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "PROJ-3", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))

	uc := NewAddWorktree(env.store, env.git, env.clock)
	out, err := uc.Execute(context.Background(), AddWorktreeInput{
		RepoPath: "/srv/repo",
		Base:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "task/PROJ-3", out.Worktree.Branch)
	assert.True(t, out.Worktree.IsBase)

	_, err = uc.Execute(context.Background(), AddWorktreeInput{
		RepoPath: "/srv/other",
		Base:     true,
	})
	assert.ErrorIs(t, err, domain.ErrBaseExists)
}

func TestAddWorktree_BranchCollision(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))
	env.git.Branches["/srv/repo\x00taken"] = true

	uc := NewAddWorktree(env.store, env.git, env.clock)
	_, err = uc.Execute(context.Background(), AddWorktreeInput{
		RepoPath: "/srv/repo",
		Branch:   "taken",
	})
	assert.ErrorIs(t, err, domain.ErrBranchExists)

	// No record must exist after the failed creation.
	wts, err := env.store.ListWorktrees(task.ID)
	require.NoError(t, err)
	assert.Empty(t, wts)
}

func TestAddWorktree_NotARepository(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))
	env.git.Repos["/srv/nope"] = false

	uc := NewAddWorktree(env.store, env.git, env.clock)
	_, err = uc.Execute(context.Background(), AddWorktreeInput{RepoPath: "/srv/nope", Branch: "b"})
	assert.ErrorIs(t, err, domain.ErrNotARepository)
}

func TestRemoveWorktree(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))

	addUC := NewAddWorktree(env.store, env.git, env.clock)
	out, err := addUC.Execute(context.Background(), AddWorktreeInput{RepoPath: "/srv/repo", Branch: "b"})
	require.NoError(t, err)

	removeUC := NewRemoveWorktree(env.store, env.git)
	removed, err := removeUC.Execute(context.Background(), RemoveWorktreeInput{WorktreeID: out.Worktree.ID})
	require.NoError(t, err)
	assert.Equal(t, out.Worktree.ID, removed.Worktree.ID)
	assert.Contains(t, env.git.CallOps(), "RemoveWorktree")

	got, err := env.store.GetWorktree(out.Worktree.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = removeUC.Execute(context.Background(), RemoveWorktreeInput{WorktreeID: out.Worktree.ID})
	assert.ErrorIs(t, err, domain.ErrWorktreeNotFound)
}

func TestRemoveWorktree_KeepFiles(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))

	addUC := NewAddWorktree(env.store, env.git, env.clock)
	out, err := addUC.Execute(context.Background(), AddWorktreeInput{RepoPath: "/srv/repo", Branch: "b"})
	require.NoError(t, err)
	env.git.Calls = nil

	removeUC := NewRemoveWorktree(env.store, env.git)
	_, err = removeUC.Execute(context.Background(), RemoveWorktreeInput{WorktreeID: out.Worktree.ID, KeepFiles: true})
	require.NoError(t, err)
	assert.NotContains(t, env.git.CallOps(), "RemoveWorktree")
}
