// Package sqlite persists tasks and everything they own in a SQLite
// database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"track/internal/domain"
)

// Revision sections. Each mutating write bumps its section's counter in
// the same transaction, which is what the change detector polls.
const (
	sectionTask      = "task"
	sectionTodos     = "todos"
	sectionLinks     = "links"
	sectionScraps    = "scraps"
	sectionRepos     = "repos"
	sectionWorktrees = "worktrees"
)

const currentTaskKey = "current_task"

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	ticket_id   TEXT NOT NULL DEFAULT '',
	ticket_url  TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'active',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id            INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	task_index         INTEGER NOT NULL,
	content            TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'pending',
	worktree_requested INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL,
	completed_at       TEXT
);

CREATE TABLE IF NOT EXISTS repos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	path        TEXT NOT NULL,
	base_branch TEXT NOT NULL DEFAULT '',
	base_commit TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	UNIQUE(task_id, path)
);

CREATE TABLE IF NOT EXISTS worktrees (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	todo_id    INTEGER NOT NULL DEFAULT 0,
	path       TEXT NOT NULL,
	branch     TEXT NOT NULL,
	base_repo  TEXT NOT NULL,
	is_base    INTEGER NOT NULL DEFAULT 0,
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS links (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	url        TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scraps (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revisions (
	section TEXT PRIMARY KEY,
	rev     INTEGER NOT NULL DEFAULT 0
);
`

// Store implements domain.Store on a SQLite database.
type Store struct {
	db    *sql.DB
	clock domain.Clock
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at path.
func Open(path string) (*Store, error) {
	return open("file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
}

// OpenInMemory opens a fresh in-memory database, used by tests.
func OpenInMemory() (*Store, error) {
	return open("file::memory:?_pragma=foreign_keys(1)")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps the in-memory
	// database alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, clock: domain.RealClock{}}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock overrides the store's clock, used by tests.
func (s *Store) SetClock(c domain.Clock) {
	s.clock = c
}

// bump increments a section's revision counter inside tx.
func bump(tx *sql.Tx, section string) error {
	_, err := tx.Exec(
		`INSERT INTO revisions (section, rev) VALUES (?, 1)
		 ON CONFLICT(section) DO UPDATE SET rev = rev + 1`, section)
	return err
}

// inTx runs fn in a transaction and bumps section on success.
func (s *Store) inTx(section string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := bump(tx, section); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Tasks ---

// CreateTask inserts a new active task.
func (s *Store) CreateTask(name, description, ticketID, ticketURL string) (*domain.Task, error) {
	task := &domain.Task{
		Name:        name,
		Description: description,
		TicketID:    ticketID,
		TicketURL:   ticketURL,
		Status:      domain.TaskActive,
		Created:     s.clock.Now(),
	}
	err := s.inTx(sectionTask, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`INSERT INTO tasks (name, description, ticket_id, ticket_url, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			task.Name, task.Description, task.TicketID, task.TicketURL, task.Status, encodeTime(task.Created))
		if err != nil {
			return err
		}
		task.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

const taskColumns = `id, name, description, ticket_id, ticket_url, status, created_at`

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var t domain.Task
	var created string
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.TicketID, &t.TicketURL, &t.Status, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Created = decodeTime(created)
	return &t, nil
}

// GetTask returns the task with the given ID, or nil if absent.
func (s *Store) GetTask(id int64) (*domain.Task, error) {
	return scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
}

// FindTaskByTicket returns the task linked to ticketID, or nil.
func (s *Store) FindTaskByTicket(ticketID string) (*domain.Task, error) {
	return scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE ticket_id = ?`, ticketID))
}

// ListTasks returns tasks ordered by creation, newest first.
func (s *Store) ListTasks(includeArchived bool) ([]*domain.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeArchived {
		q += ` WHERE status != 'archived'`
	}
	q += ` ORDER BY id DESC`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTaskStatus updates a task's lifecycle status.
func (s *Store) SetTaskStatus(id int64, status domain.TaskStatus) error {
	return s.inTx(sectionTask, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
		return err
	})
}

// SetTaskDescription updates a task's description.
func (s *Store) SetTaskDescription(id int64, description string) error {
	return s.inTx(sectionTask, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE tasks SET description = ? WHERE id = ?`, description, id)
		return err
	})
}

// SetTaskTicket links a ticket to a task.
func (s *Store) SetTaskTicket(id int64, ticketID, ticketURL string) error {
	return s.inTx(sectionTask, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE tasks SET ticket_id = ?, ticket_url = ? WHERE id = ?`, ticketID, ticketURL, id)
		return err
	})
}

// --- Active task ---

// CurrentTaskID returns the active task ID, 0 if none is set.
func (s *Store) CurrentTaskID() (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, currentTaskKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

// SetCurrentTaskID records id as the active task.
func (s *Store) SetCurrentTaskID(id int64) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		currentTaskKey, id)
	return err
}

// ClearCurrentTaskID removes the active task marker.
func (s *Store) ClearCurrentTaskID() error {
	_, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, currentTaskKey)
	return err
}

// --- Todos ---

// AddTodo appends a todo to a task, assigning the next task-local index.
func (s *Store) AddTodo(taskID int64, content string, worktreeRequested bool) (*domain.Todo, error) {
	todo := &domain.Todo{
		TaskID:            taskID,
		Content:           content,
		Status:            domain.TodoPending,
		WorktreeRequested: worktreeRequested,
		Created:           s.clock.Now(),
	}
	err := s.inTx(sectionTodos, func(tx *sql.Tx) error {
		if err := tx.QueryRow(
			`SELECT COALESCE(MAX(task_index), 0) + 1 FROM todos WHERE task_id = ?`, taskID,
		).Scan(&todo.TaskIndex); err != nil {
			return err
		}
		res, err := tx.Exec(
			`INSERT INTO todos (task_id, task_index, content, status, worktree_requested, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			todo.TaskID, todo.TaskIndex, todo.Content, todo.Status, todo.WorktreeRequested, encodeTime(todo.Created))
		if err != nil {
			return err
		}
		todo.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

const todoColumns = `id, task_id, task_index, content, status, worktree_requested, created_at, completed_at`

func scanTodo(row interface{ Scan(...any) error }) (*domain.Todo, error) {
	var t domain.Todo
	var created string
	var completed sql.NullString
	err := row.Scan(&t.ID, &t.TaskID, &t.TaskIndex, &t.Content, &t.Status, &t.WorktreeRequested, &created, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Created = decodeTime(created)
	if completed.Valid {
		ts := decodeTime(completed.String)
		t.Completed = &ts
	}
	return &t, nil
}

// GetTodo returns the todo with the given ID, or nil if absent.
func (s *Store) GetTodo(id int64) (*domain.Todo, error) {
	return scanTodo(s.db.QueryRow(`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id))
}

// ListTodos returns a task's todos in index order.
func (s *Store) ListTodos(taskID int64) ([]*domain.Todo, error) {
	rows, err := s.db.Query(`SELECT `+todoColumns+` FROM todos WHERE task_id = ? ORDER BY task_index`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// SetTodoStatus updates a todo's status and completion time.
func (s *Store) SetTodoStatus(id int64, status domain.TodoStatus, completed *time.Time) error {
	var comp any
	if completed != nil {
		comp = encodeTime(*completed)
	}
	return s.inTx(sectionTodos, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE todos SET status = ?, completed_at = ? WHERE id = ?`, status, comp, id)
		return err
	})
}

// --- Repos ---

// AddRepo registers a repository clone with a task. Registering the
// same path twice for one task returns ErrRepoExists.
func (s *Store) AddRepo(taskID int64, path, baseBranch, baseCommit string) (*domain.Repo, error) {
	repo := &domain.Repo{
		TaskID:     taskID,
		Path:       path,
		BaseBranch: baseBranch,
		BaseCommit: baseCommit,
		Created:    s.clock.Now(),
	}
	err := s.inTx(sectionRepos, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM repos WHERE task_id = ? AND path = ?`, taskID, path,
		).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrRepoExists
		}
		res, err := tx.Exec(
			`INSERT INTO repos (task_id, path, base_branch, base_commit, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			repo.TaskID, repo.Path, repo.BaseBranch, repo.BaseCommit, encodeTime(repo.Created))
		if err != nil {
			return err
		}
		repo.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// ListRepos returns a task's registered repositories in registration order.
func (s *Store) ListRepos(taskID int64) ([]*domain.Repo, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, path, base_branch, base_commit, created_at
		 FROM repos WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*domain.Repo
	for rows.Next() {
		var r domain.Repo
		var created string
		if err := rows.Scan(&r.ID, &r.TaskID, &r.Path, &r.BaseBranch, &r.BaseCommit, &created); err != nil {
			return nil, err
		}
		r.Created = decodeTime(created)
		repos = append(repos, &r)
	}
	return repos, rows.Err()
}

// RemoveRepo deletes a repository registration.
func (s *Store) RemoveRepo(id int64) error {
	return s.inTx(sectionRepos, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM repos WHERE id = ?`, id)
		return err
	})
}

// --- Worktrees ---

// AddWorktree inserts a worktree record, assigning its ID and creation
// time.
func (s *Store) AddWorktree(w *domain.Worktree) (*domain.Worktree, error) {
	w.Created = s.clock.Now()
	w.Status = domain.WorktreeActive
	err := s.inTx(sectionWorktrees, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`INSERT INTO worktrees (task_id, todo_id, path, branch, base_repo, is_base, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			w.TaskID, w.TodoID, w.Path, w.Branch, w.BaseRepo, w.IsBase, w.Status, encodeTime(w.Created))
		if err != nil {
			return err
		}
		w.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

const worktreeColumns = `id, task_id, todo_id, path, branch, base_repo, is_base, status, created_at`

func scanWorktree(row interface{ Scan(...any) error }) (*domain.Worktree, error) {
	var w domain.Worktree
	var created string
	err := row.Scan(&w.ID, &w.TaskID, &w.TodoID, &w.Path, &w.Branch, &w.BaseRepo, &w.IsBase, &w.Status, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	w.Created = decodeTime(created)
	return &w, nil
}

// GetWorktree returns the worktree with the given ID, or nil if absent.
func (s *Store) GetWorktree(id int64) (*domain.Worktree, error) {
	return scanWorktree(s.db.QueryRow(`SELECT `+worktreeColumns+` FROM worktrees WHERE id = ?`, id))
}

// ListWorktrees returns a task's worktrees in creation order.
func (s *Store) ListWorktrees(taskID int64) ([]*domain.Worktree, error) {
	rows, err := s.db.Query(`SELECT `+worktreeColumns+` FROM worktrees WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wts []*domain.Worktree
	for rows.Next() {
		w, err := scanWorktree(rows)
		if err != nil {
			return nil, err
		}
		wts = append(wts, w)
	}
	return wts, rows.Err()
}

// WorktreeByTodo returns the active worktree linked to todoID, or nil.
func (s *Store) WorktreeByTodo(todoID int64) (*domain.Worktree, error) {
	return scanWorktree(s.db.QueryRow(
		`SELECT `+worktreeColumns+` FROM worktrees WHERE todo_id = ? AND todo_id != 0`, todoID))
}

// BaseWorktree returns the task's base worktree, or nil.
func (s *Store) BaseWorktree(taskID int64) (*domain.Worktree, error) {
	return scanWorktree(s.db.QueryRow(
		`SELECT `+worktreeColumns+` FROM worktrees WHERE task_id = ? AND is_base = 1`, taskID))
}

// DeleteWorktree removes a worktree record.
func (s *Store) DeleteWorktree(id int64) error {
	return s.inTx(sectionWorktrees, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM worktrees WHERE id = ?`, id)
		return err
	})
}

// --- Links and scraps ---

// AddLink attaches a URL to a task.
func (s *Store) AddLink(taskID int64, url, title string) (*domain.Link, error) {
	link := &domain.Link{TaskID: taskID, URL: url, Title: title, Created: s.clock.Now()}
	err := s.inTx(sectionLinks, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`INSERT INTO links (task_id, url, title, created_at) VALUES (?, ?, ?, ?)`,
			link.TaskID, link.URL, link.Title, encodeTime(link.Created))
		if err != nil {
			return err
		}
		link.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// ListLinks returns a task's links in creation order.
func (s *Store) ListLinks(taskID int64) ([]*domain.Link, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, url, title, created_at FROM links WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.Link
	for rows.Next() {
		var l domain.Link
		var created string
		if err := rows.Scan(&l.ID, &l.TaskID, &l.URL, &l.Title, &created); err != nil {
			return nil, err
		}
		l.Created = decodeTime(created)
		links = append(links, &l)
	}
	return links, rows.Err()
}

// DeleteLink removes a link.
func (s *Store) DeleteLink(id int64) error {
	return s.inTx(sectionLinks, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM links WHERE id = ?`, id)
		return err
	})
}

// AddScrap attaches a note to a task.
func (s *Store) AddScrap(taskID int64, content string) (*domain.Scrap, error) {
	scrap := &domain.Scrap{TaskID: taskID, Content: content, Created: s.clock.Now()}
	err := s.inTx(sectionScraps, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`INSERT INTO scraps (task_id, content, created_at) VALUES (?, ?, ?)`,
			scrap.TaskID, scrap.Content, encodeTime(scrap.Created))
		if err != nil {
			return err
		}
		scrap.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return scrap, nil
}

// ListScraps returns a task's scraps in creation order.
func (s *Store) ListScraps(taskID int64) ([]*domain.Scrap, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, content, created_at FROM scraps WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scraps []*domain.Scrap
	for rows.Next() {
		var sc domain.Scrap
		var created string
		if err := rows.Scan(&sc.ID, &sc.TaskID, &sc.Content, &created); err != nil {
			return nil, err
		}
		sc.Created = decodeTime(created)
		scraps = append(scraps, &sc)
	}
	return scraps, rows.Err()
}

// --- Revisions ---

// Revisions returns the per-section revision counters and the active
// task ID.
func (s *Store) Revisions() (domain.Revisions, error) {
	var rev domain.Revisions

	active, err := s.CurrentTaskID()
	if err != nil {
		return rev, err
	}
	rev.ActiveTask = active

	rows, err := s.db.Query(`SELECT section, rev FROM revisions`)
	if err != nil {
		return rev, err
	}
	defer rows.Close()

	for rows.Next() {
		var section string
		var n int64
		if err := rows.Scan(&section, &n); err != nil {
			return rev, err
		}
		switch section {
		case sectionTask:
			rev.Task = n
		case sectionTodos:
			rev.Todos = n
		case sectionLinks:
			rev.Links = n
		case sectionScraps:
			rev.Scraps = n
		case sectionRepos:
			rev.Repos = n
		case sectionWorktrees:
			rev.Worktrees = n
		}
	}
	return rev, rows.Err()
}
