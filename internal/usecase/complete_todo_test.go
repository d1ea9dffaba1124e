package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/domain"
)

func completeEnv(t *testing.T) (*testEnv, *domain.Task, *domain.Todo) {
	t.Helper()
	env := newTestEnv(t)
	task, err := env.store.CreateTask("t", "", "PROJ-1", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))
	todo, err := env.store.AddTodo(task.ID, "work", true)
	require.NoError(t, err)
	return env, task, todo
}

func TestCompleteTodo_NoWorktree(t *testing.T) {
	env, _, todo := completeEnv(t)

	uc := NewCompleteTodo(env.store, env.git, env.clock)
	out, err := uc.Execute(context.Background(), CompleteTodoInput{Index: todo.TaskIndex})
	require.NoError(t, err)

	assert.False(t, out.HadWorktree)
	assert.Empty(t, out.MergedBranch)
	assert.Equal(t, domain.TodoDone, out.Todo.Status)
	require.NotNil(t, out.Todo.Completed)
	assert.Equal(t, env.clock.NowTime, *out.Todo.Completed)
}

func TestCompleteTodo_MergesIntoBaseRepo(t *testing.T) {
	env, _, todo := completeEnv(t)

	addUC := NewAddWorktree(env.store, env.git, env.clock)
	wt, err := addUC.Execute(context.Background(), AddWorktreeInput{
		RepoPath:  "/srv/repo",
		TodoIndex: todo.TaskIndex,
	})
	require.NoError(t, err)

	uc := NewCompleteTodo(env.store, env.git, env.clock)
	out, err := uc.Execute(context.Background(), CompleteTodoInput{Index: todo.TaskIndex})
	require.NoError(t, err)

	assert.True(t, out.HadWorktree)
	assert.Equal(t, wt.Worktree.Branch, out.MergedBranch)
	// No base worktree: the merge lands in the originating repo.
	assert.Equal(t, "/srv/repo", out.MergedInto)

	// Worktree record and directory are gone.
	ops := env.git.CallOps()
	assert.Contains(t, ops, "Merge")
	assert.Contains(t, ops, "RemoveWorktree")
	left, err := env.store.WorktreeByTodo(todo.ID)
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestCompleteTodo_PrefersBaseWorktree(t *testing.T) {
	env, _, todo := completeEnv(t)

	addUC := NewAddWorktree(env.store, env.git, env.clock)
	base, err := addUC.Execute(context.Background(), AddWorktreeInput{
		RepoPath: "/srv/repo",
		Base:     true,
	})
	require.NoError(t, err)
	_, err = addUC.Execute(context.Background(), AddWorktreeInput{
		RepoPath:  "/srv/repo",
		TodoIndex: todo.TaskIndex,
	})
	require.NoError(t, err)

	uc := NewCompleteTodo(env.store, env.git, env.clock)
	out, err := uc.Execute(context.Background(), CompleteTodoInput{Index: todo.TaskIndex})
	require.NoError(t, err)
	assert.Equal(t, base.Worktree.Path, out.MergedInto)
}

func TestCompleteTodo_DirtyWorktreeAborts(t *testing.T) {
	env, _, todo := completeEnv(t)

	addUC := NewAddWorktree(env.store, env.git, env.clock)
	wt, err := addUC.Execute(context.Background(), AddWorktreeInput{
		RepoPath:  "/srv/repo",
		TodoIndex: todo.TaskIndex,
	})
	require.NoError(t, err)
	env.git.Dirty[wt.Worktree.Path] = true

	uc := NewCompleteTodo(env.store, env.git, env.clock)
	_, err = uc.Execute(context.Background(), CompleteTodoInput{Index: todo.TaskIndex})
	assert.ErrorIs(t, err, domain.ErrUncommittedChanges)

	// Nothing was merged or removed; the todo stays open.
	assert.NotContains(t, env.git.CallOps(), "Merge")
	kept, err := env.store.WorktreeByTodo(todo.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
	got, err := env.store.GetTodo(todo.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TodoPending, got.Status)
}

func TestCompleteTodo_MergeFailureKeepsWorktree(t *testing.T) {
	env, _, todo := completeEnv(t)

	addUC := NewAddWorktree(env.store, env.git, env.clock)
	_, err := addUC.Execute(context.Background(), AddWorktreeInput{
		RepoPath:  "/srv/repo",
		TodoIndex: todo.TaskIndex,
	})
	require.NoError(t, err)
	env.git.MergeErr = &domain.GitError{Op: "merge", Diagnostic: "CONFLICT (content): README.md"}

	uc := NewCompleteTodo(env.store, env.git, env.clock)
	_, err = uc.Execute(context.Background(), CompleteTodoInput{Index: todo.TaskIndex})
	require.Error(t, err)
	assert.True(t, domain.IsGitError(err))
	assert.Contains(t, err.Error(), "CONFLICT")

	kept, err := env.store.WorktreeByTodo(todo.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestCompleteTodo_UnknownIndex(t *testing.T) {
	env, _, _ := completeEnv(t)

	uc := NewCompleteTodo(env.store, env.git, env.clock)
	_, err := uc.Execute(context.Background(), CompleteTodoInput{Index: 99})
	assert.ErrorIs(t, err, domain.ErrTodoNotFound)
}
