// Package app provides the dependency injection container for the
// application.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"track/internal/domain"
	"track/internal/infra/config"
	"track/internal/infra/git"
	"track/internal/infra/sqlite"
	"track/internal/usecase"
)

// Container holds all port implementations and provides factory
// methods for use cases.
type Container struct {
	Store  domain.Store
	Git    domain.Gateway
	Clock  domain.Clock
	Logger *slog.Logger
	Config *domain.Config
	Handle *Handle
}

// New creates a Container from the on-disk configuration.
func New() (*Container, error) {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Container from an explicit configuration.
func NewWithConfig(cfg *domain.Config) (*Container, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	gitClient := git.NewClient()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	return &Container{
		Store:  store,
		Git:    gitClient,
		Clock:  domain.RealClock{},
		Logger: logger,
		Config: cfg,
		Handle: NewHandle(store, gitClient),
	}, nil
}

// NewWithDeps creates a Container with custom dependencies for testing.
func NewWithDeps(store domain.Store, gw domain.Gateway, clock domain.Clock, logger *slog.Logger, cfg *domain.Config) *Container {
	return &Container{
		Store:  store,
		Git:    gw,
		Clock:  clock,
		Logger: logger,
		Config: cfg,
		Handle: NewHandle(store, gw),
	}
}

// Close releases the container's resources.
func (c *Container) Close() error {
	return c.Store.Close()
}

// defaultDBPath returns $XDG_DATA_HOME/track/track.db, falling back
// to ~/.local/share/track/track.db.
func defaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "track.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "track", "track.db")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Store)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store)
}

// SwitchTaskUseCase returns a new SwitchTask use case.
func (c *Container) SwitchTaskUseCase() *usecase.SwitchTask {
	return usecase.NewSwitchTask(c.Store)
}

// ArchiveTaskUseCase returns a new ArchiveTask use case.
func (c *Container) ArchiveTaskUseCase() *usecase.ArchiveTask {
	return usecase.NewArchiveTask(c.Store)
}

// SetDescriptionUseCase returns a new SetDescription use case.
func (c *Container) SetDescriptionUseCase() *usecase.SetDescription {
	return usecase.NewSetDescription(c.Store)
}

// LinkTicketUseCase returns a new LinkTicket use case.
func (c *Container) LinkTicketUseCase() *usecase.LinkTicket {
	return usecase.NewLinkTicket(c.Store)
}

// AddTodoUseCase returns a new AddTodo use case.
func (c *Container) AddTodoUseCase() *usecase.AddTodo {
	return usecase.NewAddTodo(c.Store)
}

// ListTodosUseCase returns a new ListTodos use case.
func (c *Container) ListTodosUseCase() *usecase.ListTodos {
	return usecase.NewListTodos(c.Store)
}

// SetTodoStatusUseCase returns a new SetTodoStatus use case.
func (c *Container) SetTodoStatusUseCase() *usecase.SetTodoStatus {
	return usecase.NewSetTodoStatus(c.Store, c.Clock)
}

// CompleteTodoUseCase returns a new CompleteTodo use case.
func (c *Container) CompleteTodoUseCase() *usecase.CompleteTodo {
	return usecase.NewCompleteTodo(c.Store, c.Git, c.Clock)
}

// AddRepoUseCase returns a new AddRepo use case.
func (c *Container) AddRepoUseCase() *usecase.AddRepo {
	return usecase.NewAddRepo(c.Store, c.Git)
}

// ListReposUseCase returns a new ListRepos use case.
func (c *Container) ListReposUseCase() *usecase.ListRepos {
	return usecase.NewListRepos(c.Store)
}

// RemoveRepoUseCase returns a new RemoveRepo use case.
func (c *Container) RemoveRepoUseCase() *usecase.RemoveRepo {
	return usecase.NewRemoveRepo(c.Store)
}

// AddWorktreeUseCase returns a new AddWorktree use case.
func (c *Container) AddWorktreeUseCase() *usecase.AddWorktree {
	return usecase.NewAddWorktree(c.Store, c.Git, c.Clock)
}

// ListWorktreesUseCase returns a new ListWorktrees use case.
func (c *Container) ListWorktreesUseCase() *usecase.ListWorktrees {
	return usecase.NewListWorktrees(c.Store)
}

// RemoveWorktreeUseCase returns a new RemoveWorktree use case.
func (c *Container) RemoveWorktreeUseCase() *usecase.RemoveWorktree {
	return usecase.NewRemoveWorktree(c.Store, c.Git)
}

// SyncTaskUseCase returns a new SyncTask use case.
func (c *Container) SyncTaskUseCase() *usecase.SyncTask {
	return usecase.NewSyncTask(c.Store, c.Git, c.Clock, c.Logger)
}

// AddLinkUseCase returns a new AddLink use case.
func (c *Container) AddLinkUseCase() *usecase.AddLink {
	return usecase.NewAddLink(c.Store)
}

// ListLinksUseCase returns a new ListLinks use case.
func (c *Container) ListLinksUseCase() *usecase.ListLinks {
	return usecase.NewListLinks(c.Store)
}

// DeleteLinkUseCase returns a new DeleteLink use case.
func (c *Container) DeleteLinkUseCase() *usecase.DeleteLink {
	return usecase.NewDeleteLink(c.Store)
}

// AddScrapUseCase returns a new AddScrap use case.
func (c *Container) AddScrapUseCase() *usecase.AddScrap {
	return usecase.NewAddScrap(c.Store)
}

// ListScrapsUseCase returns a new ListScraps use case.
func (c *Container) ListScrapsUseCase() *usecase.ListScraps {
	return usecase.NewListScraps(c.Store)
}

// ExportTaskUseCase returns a new ExportTask use case.
func (c *Container) ExportTaskUseCase() *usecase.ExportTask {
	return usecase.NewExportTask(c.Store)
}
