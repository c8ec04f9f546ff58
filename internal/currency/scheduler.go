package currency

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Refresher is the refresh entry point the scheduler drives.
type Refresher interface {
	RefreshRates(ctx context.Context, force bool) error
}

// Refreshing at half the TTL keeps rates from ever going fully stale
// under normal operation; the floor stops a tiny TTL from hammering the
// provider.
const defaultRefreshFloor = 5 * time.Minute

// Scheduler periodically runs a non-forced rate refresh in the
// background, independent of request traffic.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	// -----
	sched gocron.Scheduler
}

func NewScheduler(refresher Refresher, ttl time.Duration, floor time.Duration) *Scheduler {
	if floor <= 0 {
		floor = defaultRefreshFloor
	}
	interval := ttl / 2
	if interval < floor {
		interval = floor
	}
	return &Scheduler{refresher: refresher, interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("Rate refresh job %s panicked: %v", execID, r)
			}
		}()
		if refreshErr := s.refresher.RefreshRates(jobCtx, false); refreshErr != nil {
			logrus.Errorf("Rate refresh job %s failed: %v", execID, refreshErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	logrus.Infof("Rate refresh scheduled every %s", s.interval)

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}
