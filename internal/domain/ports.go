package domain

import "time"

// Gateway abstracts the external version control tool. All mutating
// operations surface tool failures as *GitError with the diagnostic
// text preserved.
type Gateway interface {
	// IsRepository reports whether path is a repository root.
	IsRepository(path string) bool

	// BranchExists checks if a local branch exists in repo.
	BranchExists(repo, branch string) (bool, error)

	// CreateWorktree materializes an isolated working copy of repo at
	// path on a new branch.
	CreateWorktree(repo, path, branch string) error

	// RemoveWorktree removes the isolated working copy at path.
	RemoveWorktree(repo, path string) error

	// HasPendingChanges reports whether the working copy at path has
	// uncommitted (staged, unstaged or untracked) changes.
	HasPendingChanges(path string) (bool, error)

	// Merge merges branch into the working copy at targetPath with a
	// merge commit (never fast-forward).
	Merge(targetPath, branch string) error

	// Checkout switches repo's working copy to branch.
	Checkout(repo, branch string) error

	// CreateBranch creates branch in repo at base. An empty base means
	// the repository's current position.
	CreateBranch(repo, branch, base string) error

	// CurrentBranch returns the name of repo's checked-out branch.
	CurrentBranch(repo string) (string, error)

	// RevParse resolves ref to a commit hash in repo.
	RevParse(repo, ref string) (string, error)
}

// Revisions is a snapshot of the per-section revision counters plus the
// active task. Every counter increases monotonically on each mutating
// write to its section.
// Fields are ordered to minimize memory padding.
type Revisions struct {
	ActiveTask int64 // current task ID, 0 if none
	Task       int64
	Todos      int64
	Links      int64
	Scraps     int64
	Repos      int64
	Worktrees  int64
}

// Store persists tasks and everything they own. Lookups that may miss
// return a nil record and a nil error; callers translate to the
// appropriate sentinel.
type Store interface {
	// Tasks.
	CreateTask(name, description, ticketID, ticketURL string) (*Task, error)
	GetTask(id int64) (*Task, error)
	FindTaskByTicket(ticketID string) (*Task, error)
	ListTasks(includeArchived bool) ([]*Task, error)
	SetTaskStatus(id int64, status TaskStatus) error
	SetTaskDescription(id int64, description string) error
	SetTaskTicket(id int64, ticketID, ticketURL string) error

	// Active task app state.
	CurrentTaskID() (int64, error)
	SetCurrentTaskID(id int64) error
	ClearCurrentTaskID() error

	// Todos.
	AddTodo(taskID int64, content string, worktreeRequested bool) (*Todo, error)
	GetTodo(id int64) (*Todo, error)
	ListTodos(taskID int64) ([]*Todo, error)
	SetTodoStatus(id int64, status TodoStatus, completed *time.Time) error

	// Repos.
	AddRepo(taskID int64, path, baseBranch, baseCommit string) (*Repo, error)
	ListRepos(taskID int64) ([]*Repo, error)
	RemoveRepo(id int64) error

	// Worktrees. The store is written only through the lifecycle
	// manager; AddWorktree assigns ID and creation time.
	AddWorktree(w *Worktree) (*Worktree, error)
	GetWorktree(id int64) (*Worktree, error)
	ListWorktrees(taskID int64) ([]*Worktree, error)
	WorktreeByTodo(todoID int64) (*Worktree, error)
	BaseWorktree(taskID int64) (*Worktree, error)
	DeleteWorktree(id int64) error

	// Links and scraps.
	AddLink(taskID int64, url, title string) (*Link, error)
	ListLinks(taskID int64) ([]*Link, error)
	DeleteLink(id int64) error
	AddScrap(taskID int64, content string) (*Scrap, error)
	ListScraps(taskID int64) ([]*Scrap, error)

	// Revisions returns the change-detection snapshot.
	Revisions() (Revisions, error)

	// Close releases the underlying database handle.
	Close() error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
