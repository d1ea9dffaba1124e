package usecase

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// ExportTaskInput contains the parameters for exporting a task.
type ExportTaskInput struct {
	Ref string
}

// ExportTaskOutput contains the YAML rendering of the task bundle.
type ExportTaskOutput struct {
	YAML []byte
}

// taskBundle is the exported shape: the task and everything it owns.
type taskBundle struct {
	Task      *domain.Task       `yaml:"task"`
	Todos     []*domain.Todo     `yaml:"todos,omitempty"`
	Repos     []*domain.Repo     `yaml:"repos,omitempty"`
	Worktrees []*domain.Worktree `yaml:"worktrees,omitempty"`
	Links     []*domain.Link     `yaml:"links,omitempty"`
	Scraps    []*domain.Scrap    `yaml:"scraps,omitempty"`
}

// ExportTask is the use case for dumping a task and everything it owns
// as YAML.
type ExportTask struct {
	store domain.Store
}

// NewExportTask creates a new ExportTask use case.
func NewExportTask(store domain.Store) *ExportTask {
	return &ExportTask{store: store}
}

// Execute exports the referenced task as YAML.
func (uc *ExportTask) Execute(_ context.Context, in ExportTaskInput) (*ExportTaskOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}

	bundle := taskBundle{Task: task}
	if bundle.Todos, err = uc.store.ListTodos(task.ID); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if bundle.Repos, err = uc.store.ListRepos(task.ID); err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	if bundle.Worktrees, err = uc.store.ListWorktrees(task.ID); err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	if bundle.Links, err = uc.store.ListLinks(task.ID); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	if bundle.Scraps, err = uc.store.ListScraps(task.ID); err != nil {
		return nil, fmt.Errorf("list scraps: %w", err)
	}

	data, err := yaml.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}
	return &ExportTaskOutput{YAML: data}, nil
}
