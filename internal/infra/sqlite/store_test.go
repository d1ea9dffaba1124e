package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_CreateAndGetTask(t *testing.T) {
	s := newStore(t)

	task, err := s.CreateTask("fix login", "oauth redirect broken", "PROJ-1", "https://jira.example.com/PROJ-1")
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, domain.TaskActive, task.Status)
	assert.False(t, task.Created.IsZero())

	got, err := s.GetTask(task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fix login", got.Name)
	assert.Equal(t, "PROJ-1", got.TicketID)

	missing, err := s.GetTask(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_FindTaskByTicket(t *testing.T) {
	s := newStore(t)

	created, err := s.CreateTask("a", "", "PROJ-2", "")
	require.NoError(t, err)

	found, err := s.FindTaskByTicket("PROJ-2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	none, err := s.FindTaskByTicket("PROJ-404")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStore_ListTasks_ArchivedFilter(t *testing.T) {
	s := newStore(t)

	a, err := s.CreateTask("a", "", "", "")
	require.NoError(t, err)
	_, err = s.CreateTask("b", "", "", "")
	require.NoError(t, err)
	require.NoError(t, s.SetTaskStatus(a.ID, domain.TaskArchived))

	active, err := s.ListTasks(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Name)

	all, err := s.ListTasks(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_CurrentTask(t *testing.T) {
	s := newStore(t)

	id, err := s.CurrentTaskID()
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, s.SetCurrentTaskID(7))
	id, err = s.CurrentTaskID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NoError(t, s.SetCurrentTaskID(8))
	id, err = s.CurrentTaskID()
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	require.NoError(t, s.ClearCurrentTaskID())
	id, err = s.CurrentTaskID()
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestStore_TodoIndexesArePerTask(t *testing.T) {
	s := newStore(t)

	t1, err := s.CreateTask("one", "", "", "")
	require.NoError(t, err)
	t2, err := s.CreateTask("two", "", "", "")
	require.NoError(t, err)

	a, err := s.AddTodo(t1.ID, "first", false)
	require.NoError(t, err)
	b, err := s.AddTodo(t1.ID, "second", true)
	require.NoError(t, err)
	c, err := s.AddTodo(t2.ID, "other task", false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.TaskIndex)
	assert.Equal(t, int64(2), b.TaskIndex)
	assert.Equal(t, int64(1), c.TaskIndex)
	assert.True(t, b.WorktreeRequested)

	todos, err := s.ListTodos(t1.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "first", todos[0].Content)
	assert.Equal(t, "second", todos[1].Content)
}

func TestStore_SetTodoStatus(t *testing.T) {
	s := newStore(t)

	task, err := s.CreateTask("t", "", "", "")
	require.NoError(t, err)
	todo, err := s.AddTodo(task.ID, "x", false)
	require.NoError(t, err)

	done := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetTodoStatus(todo.ID, domain.TodoDone, &done))

	got, err := s.GetTodo(todo.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.TodoDone, got.Status)
	require.NotNil(t, got.Completed)
	assert.True(t, got.Completed.Equal(done))

	require.NoError(t, s.SetTodoStatus(todo.ID, domain.TodoPending, nil))
	got, err = s.GetTodo(todo.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Completed)
}

func TestStore_AddRepo_Duplicate(t *testing.T) {
	s := newStore(t)

	task, err := s.CreateTask("t", "", "", "")
	require.NoError(t, err)

	_, err = s.AddRepo(task.ID, "/srv/repo", "main", "")
	require.NoError(t, err)

	_, err = s.AddRepo(task.ID, "/srv/repo", "", "")
	assert.ErrorIs(t, err, domain.ErrRepoExists)

	// Same path under another task is fine.
	other, err := s.CreateTask("u", "", "", "")
	require.NoError(t, err)
	_, err = s.AddRepo(other.ID, "/srv/repo", "", "")
	assert.NoError(t, err)
}

func TestStore_RemoveRepo(t *testing.T) {
	s := newStore(t)

	task, err := s.CreateTask("t", "", "", "")
	require.NoError(t, err)
	repo, err := s.AddRepo(task.ID, "/srv/repo", "", "abc123")
	require.NoError(t, err)

	require.NoError(t, s.RemoveRepo(repo.ID))

	repos, err := s.ListRepos(task.ID)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestStore_Worktrees(t *testing.T) {
	s := newStore(t)

	task, err := s.CreateTask("t", "", "", "")
	require.NoError(t, err)
	todo, err := s.AddTodo(task.ID, "x", true)
	require.NoError(t, err)

	base, err := s.AddWorktree(&domain.Worktree{
		TaskID: task.ID, Path: "/srv/repo-worktrees/task/PROJ-1",
		Branch: "task/PROJ-1", BaseRepo: "/srv/repo", IsBase: true,
	})
	require.NoError(t, err)
	linked, err := s.AddWorktree(&domain.Worktree{
		TaskID: task.ID, TodoID: todo.ID, Path: "/srv/repo-worktrees/PROJ-1-todo-1",
		Branch: "PROJ-1-todo-1", BaseRepo: "/srv/repo",
	})
	require.NoError(t, err)
	assert.NotZero(t, base.ID)
	assert.Equal(t, domain.WorktreeActive, linked.Status)

	got, err := s.BaseWorktree(task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, base.ID, got.ID)

	byTodo, err := s.WorktreeByTodo(todo.ID)
	require.NoError(t, err)
	require.NotNil(t, byTodo)
	assert.Equal(t, linked.ID, byTodo.ID)

	all, err := s.ListWorktrees(task.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteWorktree(linked.ID))
	byTodo, err = s.WorktreeByTodo(todo.ID)
	require.NoError(t, err)
	assert.Nil(t, byTodo)
}

func TestStore_LinksAndScraps(t *testing.T) {
	s := newStore(t)

	task, err := s.CreateTask("t", "", "", "")
	require.NoError(t, err)

	link, err := s.AddLink(task.ID, "https://example.com/design", "design doc")
	require.NoError(t, err)

	links, err := s.ListLinks(task.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "design doc", links[0].Title)

	require.NoError(t, s.DeleteLink(link.ID))
	links, err = s.ListLinks(task.ID)
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = s.AddScrap(task.ID, "remember to bump the schema")
	require.NoError(t, err)
	scraps, err := s.ListScraps(task.ID)
	require.NoError(t, err)
	require.Len(t, scraps, 1)
	assert.Equal(t, "remember to bump the schema", scraps[0].Content)
}

func TestStore_RevisionsBumpPerSection(t *testing.T) {
	s := newStore(t)

	before, err := s.Revisions()
	require.NoError(t, err)

	task, err := s.CreateTask("t", "", "", "")
	require.NoError(t, err)

	after, err := s.Revisions()
	require.NoError(t, err)
	assert.Greater(t, after.Task, before.Task)
	assert.Equal(t, before.Todos, after.Todos)

	_, err = s.AddTodo(task.ID, "x", false)
	require.NoError(t, err)

	after2, err := s.Revisions()
	require.NoError(t, err)
	assert.Greater(t, after2.Todos, after.Todos)
	assert.Equal(t, after.Task, after2.Task)

	require.NoError(t, s.SetCurrentTaskID(task.ID))
	after3, err := s.Revisions()
	require.NoError(t, err)
	assert.Equal(t, task.ID, after3.ActiveTask)
}
