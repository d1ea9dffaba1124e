package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// worktreeDirSuffix names the sibling directory that holds all worktrees
// created from a repository: <parent>/<repo>-worktrees/<branch>.
const worktreeDirSuffix = "-worktrees"

// ResolveBranchName maps worktree creation inputs to a branch name.
// A zero todoIndex means the worktree is not linked to a todo.
// Resolution order, first match wins:
//  1. explicit branch + ticket: <ticket>/<explicit>
//  2. explicit branch:          <explicit>
//  3. ticket + todo:            <ticket>-todo-<index>
//  4. todo only:                task-<taskID>-todo-<index>
//  5. ticket only:              task/<ticket>
//  6. none:                     task-<taskID>-<unix timestamp>
//
// Case 6 is the only non-deterministic one; it exists so anchor
// worktrees of unticketed tasks never collide on branch name.
func ResolveBranchName(explicit, ticketID string, taskID, todoIndex int64, now time.Time) string {
	switch {
	case explicit != "" && ticketID != "":
		return ticketID + "/" + explicit
	case explicit != "":
		return explicit
	case ticketID != "" && todoIndex > 0:
		return fmt.Sprintf("%s-todo-%d", ticketID, todoIndex)
	case todoIndex > 0:
		return fmt.Sprintf("task-%d-todo-%d", taskID, todoIndex)
	case ticketID != "":
		return "task/" + ticketID
	default:
		return fmt.Sprintf("task-%d-%d", taskID, now.Unix())
	}
}

// TaskBranchName returns the canonical branch a task's repositories are
// kept on by sync. Unlike ResolveBranchName case 6 this is deterministic
// for unticketed tasks, so repeated syncs converge on one branch.
func TaskBranchName(taskID int64, ticketID string) string {
	if ticketID != "" {
		return "task/" + ticketID
	}
	return fmt.Sprintf("task/task-%d", taskID)
}

// WorktreePath returns the on-disk path for a worktree of repoPath on
// branch. The mapping is deterministic so it can be reconstructed
// without a database lookup.
func WorktreePath(repoPath, branch string) string {
	parent := filepath.Dir(repoPath)
	return filepath.Join(parent, filepath.Base(repoPath)+worktreeDirSuffix, branch)
}
