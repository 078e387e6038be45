// Package scheduler drives the engine's periodic flush and history-bucket
// GC tasks (§4.7) on github.com/robfig/cron/v3, the pack's cron library
// of choice for cadence-driven background jobs. Each task refuses to
// overlap itself: if a run is still in flight when the next tick fires,
// that tick is skipped and a backlog warning is logged, instead of
// piling up concurrent runs.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler wraps a cron.Cron configured with seconds resolution so that
// the 5s flush cadence and 300s bucket-GC cadence can both be expressed
// as "@every" specs.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Entry
}

// New constructs a Scheduler. Register jobs with AddJob, then call Run.
func New(log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log,
	}
}

// AddJob registers fn to run every interval, skipping overlapping runs
// and logging a backlog warning (with name) when that happens.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(now time.Time)) error {
	var busy atomic.Bool
	_, err := s.cron.AddFunc(everySpec(interval), func() {
		if !busy.CompareAndSwap(false, true) {
			s.log.Warnf("%s: previous run still in flight, skipping this tick", name)
			return
		}
		defer busy.Store(false)
		fn(time.Now())
	})
	return err
}

// Run starts the scheduler's goroutines. It returns immediately; jobs
// run on cron's own goroutines until Stop is called.
func (s *Scheduler) Run() {
	s.cron.Start()
}

// Stop requests a graceful stop and waits (bounded by ctx) for any
// in-flight job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}

func everySpec(d time.Duration) string {
	return "@every " + d.String()
}
