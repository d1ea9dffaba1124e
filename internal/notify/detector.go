package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"track/internal/domain"
)

// SampleFunc returns the current revision snapshot. It is called under
// whatever locking the data owner requires.
type SampleFunc func() (domain.Revisions, error)

// Detector polls the revision counters and publishes an event for each
// section that changed since the previous poll. A change of the active
// task collapses everything into a single reload event, since every
// section's meaning changes with it.
type Detector struct {
	sample   SampleFunc
	broker   *Broker
	logger   *slog.Logger
	interval time.Duration
}

// NewDetector creates a detector polling sample every interval.
func NewDetector(sample SampleFunc, broker *Broker, interval time.Duration, logger *slog.Logger) *Detector {
	return &Detector{
		sample:   sample,
		broker:   broker,
		logger:   logger,
		interval: interval,
	}
}

// Run polls until ctx is cancelled. The first sample establishes the
// baseline and publishes nothing.
func (d *Detector) Run(ctx context.Context) error {
	prev, err := d.sample()
	if err != nil {
		return fmt.Errorf("initial sample: %w", err)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cur, err := d.sample()
			if err != nil {
				d.logger.Warn("revision sample failed", "error", err)
				continue
			}
			for _, ev := range Diff(prev, cur) {
				d.broker.Publish(ev)
			}
			prev = cur
		}
	}
}

// Diff maps a revision change to the events subscribers should see.
// Worktree changes also fire the todos event because the todo list
// renders worktree state inline.
func Diff(prev, cur domain.Revisions) []Event {
	if prev == cur {
		return nil
	}
	if cur.ActiveTask != prev.ActiveTask {
		return []Event{EventReload}
	}

	var events []Event
	if cur.Task != prev.Task {
		events = append(events, EventTask)
	}
	if cur.Todos != prev.Todos || cur.Worktrees != prev.Worktrees {
		events = append(events, EventTodos)
	}
	if cur.Links != prev.Links {
		events = append(events, EventLinks)
	}
	if cur.Scraps != prev.Scraps {
		events = append(events, EventScraps)
	}
	if cur.Repos != prev.Repos {
		events = append(events, EventRepos)
	}
	if cur.Worktrees != prev.Worktrees {
		events = append(events, EventWorktrees)
	}
	return events
}
