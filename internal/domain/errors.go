package domain

import "errors"

// Domain errors.
var (
	ErrNoActiveTask       = errors.New("no active task (run 'track new' or 'track switch' first)")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskArchived       = errors.New("task is archived")
	ErrEmptyTaskName      = errors.New("task name cannot be empty")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrDuplicateTicket    = errors.New("ticket is already linked to another task")
	ErrInvalidTicket      = errors.New("invalid ticket ID format")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrWorktreeNotFound   = errors.New("worktree not found")
	ErrNotARepository     = errors.New("not a git repository")
	ErrBranchExists       = errors.New("branch already exists")
	ErrUncommittedChanges = errors.New("uncommitted changes exist")
	ErrBaseExists         = errors.New("task already has a base worktree")
	ErrTodoHasWorktree    = errors.New("todo already has an active worktree")
	ErrNoBaseTarget       = errors.New("no base worktree or base repository to merge into")
	ErrNoRepositories     = errors.New("no repositories registered for this task")
	ErrRepoExists         = errors.New("repository already registered for this task")
	ErrRepoNotFound       = errors.New("repository not found")
	ErrLinkNotFound       = errors.New("link not found")
)

// GitError is returned when the external git tool fails. Diagnostic
// preserves the tool's output verbatim.
type GitError struct {
	Op         string // failing git subcommand, e.g. "worktree add"
	Diagnostic string
}

func (e *GitError) Error() string {
	if e.Diagnostic == "" {
		return "git " + e.Op + " failed"
	}
	return "git " + e.Op + ": " + e.Diagnostic
}

// IsGitError reports whether err is (or wraps) a GitError.
func IsGitError(err error) bool {
	var ge *GitError
	return errors.As(err, &ge)
}
