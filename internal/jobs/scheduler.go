// Package jobs runs the periodic housekeeping tasks of the server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Expirer closes assignments whose end date has passed.
type Expirer interface {
	ExpireFinished(ctx context.Context) (int64, error)
}

// Scheduler wraps a cron instance with the assignment sweep registered.
type Scheduler struct {
	c       *cron.Cron
	timeout time.Duration
}

// NewScheduler registers the sweep under spec. An empty spec yields a
// scheduler with no jobs.
func NewScheduler(spec string, loc *time.Location, expirer Expirer) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s := &Scheduler{
		c:       cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		timeout: time.Minute,
	}
	if spec == "" {
		logrus.Info("assignment sweep disabled")
		return s, nil
	}
	if _, err := s.c.AddFunc(spec, func() { s.sweep(expirer) }); err != nil {
		return nil, fmt.Errorf("invalid ASSIGNMENT_SWEEP_CRON %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) sweep(expirer Expirer) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := expirer.ExpireFinished(ctx); err != nil {
		logrus.WithError(err).Error("assignment sweep failed")
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int { return len(s.c.Entries()) }

func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
