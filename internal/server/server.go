// Package server exposes the read-only dashboard API: JSON state
// endpoints plus a server-sent-events stream of change notifications.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"track/internal/app"
	"track/internal/domain"
	"track/internal/notify"
)

const keepAliveInterval = 30 * time.Second

// Server serves the dashboard API. All state reads go through the
// shared handle, so they never observe a CLI mutation halfway.
type Server struct {
	handle *app.Handle
	broker *notify.Broker
	logger *slog.Logger
	addr   string
}

// New creates a dashboard server.
func New(addr string, handle *app.Handle, broker *notify.Broker, logger *slog.Logger) *Server {
	return &Server{
		handle: handle,
		broker: broker,
		logger: logger,
		addr:   addr,
	}
}

// taskState is the full bundle for the active task.
type taskState struct {
	Task      *domain.Task       `json:"task"`
	Todos     []*domain.Todo     `json:"todos"`
	Repos     []*domain.Repo     `json:"repos"`
	Worktrees []*domain.Worktree `json:"worktrees"`
	Links     []*domain.Link     `json:"links"`
	Scraps    []*domain.Scrap    `json:"scraps"`
}

// taskList is the response shape of /api/tasks.
type taskList struct {
	Tasks     []*domain.Task `json:"tasks"`
	CurrentID int64          `json:"currentID"`
}

// Handler returns the HTTP handler serving the dashboard routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/tasks", s.handleTasks)
	mux.HandleFunc("GET /events", s.handleEvents)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("dashboard listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var state taskState
	err := s.handle.Do(func(store domain.Store, _ domain.Gateway) error {
		id, err := store.CurrentTaskID()
		if err != nil {
			return err
		}
		if id == 0 {
			return nil
		}
		if state.Task, err = store.GetTask(id); err != nil {
			return err
		}
		if state.Task == nil {
			return nil
		}
		if state.Todos, err = store.ListTodos(id); err != nil {
			return err
		}
		if state.Repos, err = store.ListRepos(id); err != nil {
			return err
		}
		if state.Worktrees, err = store.ListWorktrees(id); err != nil {
			return err
		}
		if state.Links, err = store.ListLinks(id); err != nil {
			return err
		}
		state.Scraps, err = store.ListScraps(id)
		return err
	})
	if err != nil {
		s.serverError(w, "load state", err)
		return
	}
	s.writeJSON(w, state)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	var list taskList
	err := s.handle.Do(func(store domain.Store, _ domain.Gateway) error {
		var err error
		if list.Tasks, err = store.ListTasks(r.URL.Query().Get("archived") == "true"); err != nil {
			return err
		}
		list.CurrentID, err = store.CurrentTaskID()
		return err
	})
	if err != nil {
		s.serverError(w, "list tasks", err)
		return
	}
	s.writeJSON(w, list)
}

// handleEvents streams change notifications as server-sent events.
// Each event names the section that changed; the client re-fetches it.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.broker.Subscribe()
	defer cancel()

	// Tell the client it is connected before the first change.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: {}\n\n", ev)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
