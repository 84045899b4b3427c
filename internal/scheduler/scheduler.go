// Package scheduler runs the periodic pending-todo digest.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/dkovalev/todo-service/internal/repository"
)

// DigestSender delivers a pending-todo digest to one user.
type DigestSender interface {
	SendPendingDigest(to, username string, pending int) error
}

// Scheduler drives the digest job on a cron schedule
type Scheduler struct {
	store  repository.Store
	sender DigestSender
	log    *logrus.Logger
	cron   *cron.Cron
	spec   string
}

// New creates a scheduler; spec is a cron expression ("@daily" by default
// via config)
func New(store repository.Store, sender DigestSender, log *logrus.Logger, spec string) *Scheduler {
	return &Scheduler{
		store:  store,
		sender: sender,
		log:    log,
		cron:   cron.New(),
		spec:   spec,
	}
}

// Start registers the digest job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunDigest(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Digest scheduled: %s", s.spec)
	return nil
}

// Stop halts the cron loop; a digest already running is not interrupted
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunDigest emails every active user who has pending todos. Per-user
// failures are logged and skipped so one bad address cannot stall the run.
func (s *Scheduler) RunDigest(ctx context.Context) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		s.log.Errorf("Digest aborted: %v", err)
		return
	}

	sent := 0
	for _, u := range users {
		pending, err := s.store.CountPendingTodos(ctx, u.ID)
		if err != nil {
			s.log.Errorf("Digest count for user %d failed: %v", u.ID, err)
			continue
		}
		if pending == 0 {
			continue
		}
		if err := s.sender.SendPendingDigest(u.Email, u.Username, pending); err != nil {
			s.log.Errorf("Digest to %s failed: %v", u.Email, err)
			continue
		}
		sent++
	}

	s.log.Infof("Digest run complete: %d email(s) sent for %d user(s)", sent, len(users))
}
