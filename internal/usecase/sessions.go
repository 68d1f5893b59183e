package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"screening-sync/internal/repository"
)

// Sessions hands out one workspace per session id. When a repository is
// given, workspaces are restored from it on first use and saved after every
// change, and idle ones may be evicted from memory.
type Sessions struct {
	mu       sync.Mutex
	items    map[string]*Workspace
	lastSeen map[string]time.Time
	deps     Deps
	repo     repository.WorkspaceRepository
}

func NewSessions(deps Deps, repo repository.WorkspaceRepository) *Sessions {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Sessions{
		items:    make(map[string]*Workspace),
		lastSeen: make(map[string]time.Time),
		deps:     deps,
		repo:     repo,
	}
}

// Get returns the workspace for sessionID, creating it when needed. A
// non-empty token replaces the one the workspace uses for remote calls.
func (s *Sessions) Get(ctx context.Context, sessionID, token string) *Workspace {
	s.mu.Lock()
	w, ok := s.items[sessionID]
	if !ok {
		w = NewWorkspace(sessionID, s.deps)
		if s.repo != nil {
			w.persist = s.persist
			s.restore(ctx, w)
		}
		s.items[sessionID] = w
	}
	s.lastSeen[sessionID] = s.deps.Now()
	s.mu.Unlock()

	if token != "" {
		w.SetToken(token)
	}
	return w
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evict saves and drops every workspace unused for longer than maxIdle. It
// does nothing without a repository, since the workspace could not be
// brought back.
func (s *Sessions) Evict(ctx context.Context, maxIdle time.Duration) int {
	if s.repo == nil || maxIdle <= 0 {
		return 0
	}
	cutoff := s.deps.Now().Add(-maxIdle)

	s.mu.Lock()
	idle := make([]*Workspace, 0)
	for id, seen := range s.lastSeen {
		if seen.Before(cutoff) {
			idle = append(idle, s.items[id])
			delete(s.items, id)
			delete(s.lastSeen, id)
		}
	}
	s.mu.Unlock()

	for _, w := range idle {
		s.persist(ctx, w)
	}
	if len(idle) > 0 {
		s.deps.Logger.WithFields(logrus.Fields{
			"component": "sessions",
			"step":      "evict",
			"status":    "ok",
			"count":     len(idle),
		}).Info("idle workspaces evicted")
	}
	return len(idle)
}

// RunEviction calls Evict every interval until ctx is done.
func (s *Sessions) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	if s.repo == nil || interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict(ctx, maxIdle)
		}
	}
}

func (s *Sessions) restore(ctx context.Context, w *Workspace) {
	snap, err := s.repo.Load(ctx, w.ID())
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			s.log(w.ID(), "restore", err)
		}
		return
	}
	w.Restore(snap)
}

func (s *Sessions) persist(ctx context.Context, w *Workspace) {
	if err := s.repo.Save(ctx, w.Snapshot()); err != nil {
		s.log(w.ID(), "persist", err)
	}
}

func (s *Sessions) log(sessionID, step string, err error) {
	s.deps.Logger.WithFields(logrus.Fields{
		"component": "sessions",
		"session":   sessionID,
		"step":      step,
		"status":    "error",
		"err":       err,
	}).Warn("workspace snapshot failed")
}
