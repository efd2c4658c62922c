package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScheduledTask runs a function on a cron schedule. A tick is skipped while
// the previous run is still going and a panicking run is recovered.
type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel context.CancelFunc
	once   sync.Once
}

// NewScheduledTask starts the schedule. taskFunc receives a context that is
// cancelled by Cancel.
func NewScheduledTask(cronSpec string, logger *logrus.Logger, taskFunc func(ctx context.Context)) (*ScheduledTask, error) {
	cronLogger := cron.PrintfLogger(logger.WithField("component", "scheduler"))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-ctx.Done():
			return
		default:
			taskFunc(ctx)
		}
	})
	if err != nil {
		cancel()
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

// Next is the time of the next scheduled run.
func (s *ScheduledTask) Next() time.Time {
	return s.cron.Entry(s.cronID).Next
}

// Cancel stops the schedule and cancels a run in progress. It waits for the
// running job to return.
func (s *ScheduledTask) Cancel() {
	s.once.Do(func() {
		s.cron.Remove(s.cronID)
		s.cancel()
		<-s.cron.Stop().Done()
	})
}
