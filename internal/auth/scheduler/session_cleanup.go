package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionPruner deletes refresh sessions past their expiry.
type SessionPruner interface {
	CleanupSessions(ctx context.Context) (int64, error)
}

// SessionCleanupScheduler periodically prunes expired refresh sessions
type SessionCleanupScheduler struct {
	pruner   SessionPruner
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	log      *zap.Logger
}

// NewSessionCleanupScheduler creates a scheduler for the given cron spec,
// e.g. "@every 1h" or "0 3 * * *".
func NewSessionCleanupScheduler(pruner SessionPruner, schedule string, log *zap.Logger) *SessionCleanupScheduler {
	return &SessionCleanupScheduler{
		pruner:   pruner,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		log:      log,
	}
}

// Start registers the job and starts the cron loop in its own goroutine.
func (s *SessionCleanupScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		return fmt.Errorf("invalid session cleanup schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info("session_cleanup_scheduler_started", zap.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running job to finish.
func (s *SessionCleanupScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("session_cleanup_scheduler_stopped")
}

func (s *SessionCleanupScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.pruner.CleanupSessions(ctx)
	if err != nil {
		s.log.Error("session_cleanup_failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("expired_sessions_deleted", zap.Int64("count", n))
	}
}
