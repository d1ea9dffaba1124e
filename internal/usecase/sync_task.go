package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// SyncTaskInput contains the parameters for syncing a task.
type SyncTaskInput struct {
	Ref string
}

// SyncRepoResult reports the outcome for one registered repository.
type SyncRepoResult struct {
	Path   string
	Note   string // reason when not synced
	Synced bool   // repo is on the task branch
}

// SyncTaskOutput summarizes what a sync did, repo by repo.
// Fields are ordered to minimize memory padding.
type SyncTaskOutput struct {
	Branch           string           // canonical task branch
	Repos            []SyncRepoResult // one entry per registered repo, in order
	Warnings         []string         // worktree problems that did not abort the sync
	ReposSynced      int              // repos left on the task branch
	WorktreesCreated int
}

// SyncTask is the use case for converging a task's repositories onto
// its branch and materializing the worktrees its todos requested. The
// operation is idempotent: repos already on the branch and todos that
// already have a worktree are left alone.
type SyncTask struct {
	store  domain.Store
	git    domain.Gateway
	clock  domain.Clock
	logger *slog.Logger
}

// NewSyncTask creates a new SyncTask use case.
func NewSyncTask(store domain.Store, git domain.Gateway, clock domain.Clock, logger *slog.Logger) *SyncTask {
	return &SyncTask{store: store, git: git, clock: clock, logger: logger}
}

// Execute syncs the referenced task. A repository missing from disk is
// skipped with a warning; uncommitted changes in a repository that
// needs a branch switch abort the whole sync. Failures on individual
// repo/todo pairs are reported as warnings and do not stop the rest.
func (uc *SyncTask) Execute(_ context.Context, in SyncTaskInput) (*SyncTaskOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}

	repos, err := uc.store.ListRepos(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	if len(repos) == 0 {
		return nil, domain.ErrNoRepositories
	}

	branch := domain.TaskBranchName(task.ID, task.TicketID)
	out := &SyncTaskOutput{Branch: branch}

	healthy := make([]*domain.Repo, 0, len(repos))
	for _, repo := range repos {
		if !uc.git.IsRepository(repo.Path) {
			uc.logger.Warn("repository missing, skipping", "repo", repo.Path)
			out.Repos = append(out.Repos, SyncRepoResult{Path: repo.Path, Note: "repository missing"})
			continue
		}
		result, err := uc.syncRepo(repo, branch)
		if err != nil {
			return nil, err
		}
		out.Repos = append(out.Repos, result)
		if result.Synced {
			out.ReposSynced++
		}
		healthy = append(healthy, repo)
	}

	todos, err := uc.store.ListTodos(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	for _, repo := range healthy {
		for _, todo := range todos {
			if !todo.Open() || !todo.WorktreeRequested {
				continue
			}
			existing, err := uc.store.WorktreeByTodo(todo.ID)
			if err != nil {
				return nil, fmt.Errorf("check todo worktree: %w", err)
			}
			if existing != nil {
				continue
			}
			if err := uc.createTodoWorktree(task, repo, todo, out); err != nil {
				uc.warn(out, "create worktree failed",
					"repo", repo.Path, "todo", todo.TaskIndex, "error", err)
			}
		}
	}

	return out, nil
}

// syncRepo brings one repository onto the task branch. It returns an
// error only for conditions that must abort the whole sync; any other
// failure is reported in the result's note.
func (uc *SyncTask) syncRepo(repo *domain.Repo, branch string) (SyncRepoResult, error) {
	result := SyncRepoResult{Path: repo.Path}
	fail := func(note string, err error) (SyncRepoResult, error) {
		uc.logger.Warn(note, "repo", repo.Path, "branch", branch, "error", err)
		result.Note = fmt.Sprintf("%s: %v", note, err)
		return result, nil
	}

	current, err := uc.git.CurrentBranch(repo.Path)
	if err != nil {
		return fail("read current branch failed", err)
	}
	if current == branch {
		result.Synced = true
		result.Note = "already on branch"
		return result, nil
	}

	// Switching branches under uncommitted changes would carry them
	// along or fail halfway; the user has to commit or stash first.
	dirty, err := uc.git.HasPendingChanges(repo.Path)
	if err != nil {
		return result, err
	}
	if dirty {
		return result, fmt.Errorf("%w in %s", domain.ErrUncommittedChanges, repo.Path)
	}

	exists, err := uc.git.BranchExists(repo.Path, branch)
	if err != nil {
		return fail("branch lookup failed", err)
	}
	if !exists {
		if err := uc.git.CreateBranch(repo.Path, branch, uc.branchBase(repo)); err != nil {
			return fail("create branch failed", err)
		}
	}

	if err := uc.git.Checkout(repo.Path, branch); err != nil {
		return fail("checkout failed", err)
	}
	result.Synced = true
	result.Note = "checked out"
	return result, nil
}

// branchBase resolves where the task branch forks from: the repo's
// base branch if it still exists, else its base commit if it still
// resolves, else the current HEAD.
func (uc *SyncTask) branchBase(repo *domain.Repo) string {
	if repo.BaseBranch != "" {
		if ok, err := uc.git.BranchExists(repo.Path, repo.BaseBranch); err == nil && ok {
			return repo.BaseBranch
		}
	}
	if repo.BaseCommit != "" {
		if _, err := uc.git.RevParse(repo.Path, repo.BaseCommit); err == nil {
			return repo.BaseCommit
		}
	}
	return ""
}

func (uc *SyncTask) createTodoWorktree(task *domain.Task, repo *domain.Repo, todo *domain.Todo, out *SyncTaskOutput) error {
	branch := domain.ResolveBranchName("", task.TicketID, task.ID, todo.TaskIndex, uc.clock.Now())
	path := domain.WorktreePath(repo.Path, branch)

	if err := uc.git.CreateWorktree(repo.Path, path, branch); err != nil {
		return err
	}
	if _, err := uc.store.AddWorktree(&domain.Worktree{
		TaskID:   task.ID,
		TodoID:   todo.ID,
		Path:     path,
		Branch:   branch,
		BaseRepo: repo.Path,
	}); err != nil {
		return fmt.Errorf("record worktree: %w", err)
	}
	out.WorktreesCreated++
	return nil
}

func (uc *SyncTask) warn(out *SyncTaskOutput, msg string, args ...any) {
	uc.logger.Warn(msg, args...)
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	out.Warnings = append(out.Warnings, b.String())
}
