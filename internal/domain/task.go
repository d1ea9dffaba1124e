// Package domain contains core business entities and interfaces.
package domain

import (
	"regexp"
	"time"
)

// TaskStatus is the lifecycle status of a task.
type TaskStatus string

// Task statuses.
const (
	TaskActive   TaskStatus = "active"
	TaskArchived TaskStatus = "archived"
)

// Task is the top-level unit of tracked work, optionally tied to an
// external ticket. A task owns todos, registered repositories, links,
// scraps and worktrees.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created     time.Time  `json:"created"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TicketID    string     `json:"ticketID,omitempty"`
	TicketURL   string     `json:"ticketURL,omitempty"`
	Status      TaskStatus `json:"status"`
	ID          int64      `json:"id"`
}

// IsArchived returns true if the task has been archived.
func (t *Task) IsArchived() bool {
	return t.Status == TaskArchived
}

// TodoStatus is the lifecycle status of a todo.
type TodoStatus string

// Todo statuses.
const (
	TodoPending   TodoStatus = "pending"
	TodoDone      TodoStatus = "done"
	TodoCancelled TodoStatus = "cancelled"
)

// ValidTodoStatus reports whether s is a known todo status.
func ValidTodoStatus(s TodoStatus) bool {
	switch s {
	case TodoPending, TodoDone, TodoCancelled:
		return true
	}
	return false
}

// Todo is a task-scoped unit of work. TaskIndex is sequential within the
// owning task and independent across tasks. WorktreeRequested is fixed at
// creation; the sync orchestrator materializes the worktree later.
// Fields are ordered to minimize memory padding.
type Todo struct {
	Created           time.Time  `json:"created"`
	Completed         *time.Time `json:"completed,omitempty"`
	Content           string     `json:"content"`
	Status            TodoStatus `json:"status"`
	ID                int64      `json:"id"`
	TaskID            int64      `json:"taskID"`
	TaskIndex         int64      `json:"taskIndex"`
	WorktreeRequested bool       `json:"worktreeRequested"`
}

// Open returns true if the todo is neither done nor cancelled.
func (t *Todo) Open() bool {
	return t.Status != TodoDone && t.Status != TodoCancelled
}

// Repo is a repository clone registered against a task. Path is absolute
// and unique per (task, path). BaseBranch/BaseCommit record where the
// task branch should fork from; either may be empty.
// Fields are ordered to minimize memory padding.
type Repo struct {
	Created    time.Time `json:"created"`
	Path       string    `json:"path"`
	BaseBranch string    `json:"baseBranch,omitempty"`
	BaseCommit string    `json:"baseCommit,omitempty"`
	ID         int64     `json:"id"`
	TaskID     int64     `json:"taskID"`
}

// WorktreeStatus is the lifecycle status of a worktree record.
type WorktreeStatus string

// Worktree statuses. A removed worktree has no row; Active is the only
// persisted status.
const (
	WorktreeActive WorktreeStatus = "active"
)

// Worktree tracks an isolated, branch-specific working copy of a
// repository: a database row plus an on-disk directory. BaseRepo is the
// repository the copy was created from and the default merge target when
// the task has no base worktree. At most one worktree per task has
// IsBase set, and a todo identifies at most one active worktree.
// Fields are ordered to minimize memory padding.
type Worktree struct {
	Created  time.Time      `json:"created"`
	Path     string         `json:"path"`
	Branch   string         `json:"branch"`
	BaseRepo string         `json:"baseRepo"`
	Status   WorktreeStatus `json:"status"`
	ID       int64          `json:"id"`
	TaskID   int64          `json:"taskID"`
	TodoID   int64          `json:"todoID,omitempty"` // 0 = not linked to a todo
	IsBase   bool           `json:"isBase"`
}

// Link is a URL attached to a task.
// Fields are ordered to minimize memory padding.
type Link struct {
	Created time.Time `json:"created"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	ID      int64     `json:"id"`
	TaskID  int64     `json:"taskID"`
}

// Scrap is a free-form note attached to a task.
// Fields are ordered to minimize memory padding.
type Scrap struct {
	Created time.Time `json:"created"`
	Content string    `json:"content"`
	ID      int64     `json:"id"`
	TaskID  int64     `json:"taskID"`
}

// ValidTicketID reports whether id looks like a supported ticket
// reference: Jira style (PROJ-123) or GitHub/GitLab style
// (owner/repo/123).
var (
	jiraTicketRe   = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[0-9]+$`)
	githubTicketRe = regexp.MustCompile(`^[^/\s]+/[^/\s]+/[0-9]+$`)
)

func ValidTicketID(id string) bool {
	return jiraTicketRe.MatchString(id) || githubTicketRe.MatchString(id)
}
