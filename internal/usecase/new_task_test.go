package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/domain"
)

func TestNewTask_Success(t *testing.T) {
	env := newTestEnv(t)
	uc := NewNewTask(env.store)

	out, err := uc.Execute(context.Background(), NewTaskInput{
		Name:     "fix login",
		TicketID: "PROJ-1",
	})
	require.NoError(t, err)
	assert.NotZero(t, out.Task.ID)
	assert.Equal(t, domain.TaskActive, out.Task.Status)

	// The new task becomes the active one.
	current, err := env.store.CurrentTaskID()
	require.NoError(t, err)
	assert.Equal(t, out.Task.ID, current)
}

func TestNewTask_NoSwitch(t *testing.T) {
	env := newTestEnv(t)
	uc := NewNewTask(env.store)

	_, err := uc.Execute(context.Background(), NewTaskInput{Name: "background", NoSwitch: true})
	require.NoError(t, err)

	current, err := env.store.CurrentTaskID()
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestNewTask_EmptyName(t *testing.T) {
	env := newTestEnv(t)
	uc := NewNewTask(env.store)

	_, err := uc.Execute(context.Background(), NewTaskInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyTaskName)
}

func TestNewTask_InvalidTicket(t *testing.T) {
	env := newTestEnv(t)
	uc := NewNewTask(env.store)

	_, err := uc.Execute(context.Background(), NewTaskInput{Name: "x", TicketID: "not a ticket"})
	assert.ErrorIs(t, err, domain.ErrInvalidTicket)
}

func TestNewTask_DuplicateTicket(t *testing.T) {
	env := newTestEnv(t)
	uc := NewNewTask(env.store)

	_, err := uc.Execute(context.Background(), NewTaskInput{Name: "first", TicketID: "PROJ-7"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), NewTaskInput{Name: "second", TicketID: "PROJ-7"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)
}

func TestSwitchTask(t *testing.T) {
	env := newTestEnv(t)
	newUC := NewNewTask(env.store)
	switchUC := NewSwitchTask(env.store)

	a, err := newUC.Execute(context.Background(), NewTaskInput{Name: "a"})
	require.NoError(t, err)
	b, err := newUC.Execute(context.Background(), NewTaskInput{Name: "b", TicketID: "PROJ-2"})
	require.NoError(t, err)

	out, err := switchUC.Execute(context.Background(), SwitchTaskInput{Ref: "t:PROJ-2"})
	require.NoError(t, err)
	assert.Equal(t, b.Task.ID, out.Task.ID)

	current, err := env.store.CurrentTaskID()
	require.NoError(t, err)
	assert.Equal(t, b.Task.ID, current)

	// Switching to an archived task is rejected.
	require.NoError(t, env.store.SetTaskStatus(a.Task.ID, domain.TaskArchived))
	_, err = switchUC.Execute(context.Background(), SwitchTaskInput{Ref: "1"})
	assert.ErrorIs(t, err, domain.ErrTaskArchived)
}

func TestSwitchTask_NotFound(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSwitchTask(env.store)

	_, err := uc.Execute(context.Background(), SwitchTaskInput{Ref: "42"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestArchiveTask_ClearsActiveMarker(t *testing.T) {
	env := newTestEnv(t)
	newUC := NewNewTask(env.store)
	archiveUC := NewArchiveTask(env.store)

	created, err := newUC.Execute(context.Background(), NewTaskInput{Name: "done soon"})
	require.NoError(t, err)

	out, err := archiveUC.Execute(context.Background(), ArchiveTaskInput{})
	require.NoError(t, err)
	assert.Equal(t, created.Task.ID, out.Task.ID)
	assert.True(t, out.Task.IsArchived())

	current, err := env.store.CurrentTaskID()
	require.NoError(t, err)
	assert.Zero(t, current)

	// Archiving again is a no-op.
	_, err = archiveUC.Execute(context.Background(), ArchiveTaskInput{Ref: "1"})
	assert.NoError(t, err)
}

func TestLinkTicket(t *testing.T) {
	env := newTestEnv(t)
	newUC := NewNewTask(env.store)
	linkUC := NewLinkTicket(env.store)

	_, err := newUC.Execute(context.Background(), NewTaskInput{Name: "a"})
	require.NoError(t, err)

	out, err := linkUC.Execute(context.Background(), LinkTicketInput{
		TicketID:  "PROJ-3",
		TicketURL: "https://jira.example.com/PROJ-3",
	})
	require.NoError(t, err)
	assert.Equal(t, "PROJ-3", out.Task.TicketID)

	// Relinking the same ticket to the same task updates the URL.
	out, err = linkUC.Execute(context.Background(), LinkTicketInput{TicketID: "PROJ-3", TicketURL: "https://new"})
	require.NoError(t, err)
	assert.Equal(t, "https://new", out.Task.TicketURL)

	// But a second task cannot claim it.
	_, err = newUC.Execute(context.Background(), NewTaskInput{Name: "b"})
	require.NoError(t, err)
	_, err = linkUC.Execute(context.Background(), LinkTicketInput{TicketID: "PROJ-3"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)
}
