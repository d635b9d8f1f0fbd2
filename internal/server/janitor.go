package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// pruner is implemented by caches that can drop expired entries.
type pruner interface {
	Prune(ctx context.Context) (int, error)
}

// StartJanitor schedules [Server.Sweep] on a cron spec such as "@every 15m"
// and starts the scheduler. Callers stop it with Stop.
func (s *Server) StartJanitor(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	}); err != nil {
		return nil, fmt.Errorf("janitor schedule %q: %w", spec, err)
	}
	c.Start()
	s.logger.Info("janitor started", "schedule", spec)
	return c, nil
}

// Sweep removes expired sessions and, for file caches, expired cache
// entries. It returns the number of sessions and cache entries removed.
func (s *Server) Sweep(ctx context.Context) (sessions, entries int) {
	n, err := s.cfg.Sessions.Cleanup(ctx)
	if err != nil {
		s.logger.Warn("session cleanup failed", "error", err)
	}
	sessions = n

	if p, ok := s.cfg.Runner.Cache.(pruner); ok {
		m, err := p.Prune(ctx)
		if err != nil {
			s.logger.Warn("cache prune failed", "error", err)
		}
		entries = m
	}
	if sessions > 0 || entries > 0 {
		s.logger.Info("swept", "sessions", sessions, "cache_entries", entries)
	}
	return sessions, entries
}
