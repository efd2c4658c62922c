package controllers

import (
	"context"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/scheduler"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/sirupsen/logrus"
)

const RecomputeSchedule = "depreciation-recompute"

// RunRecompute runs the recompute job unless a run is already in progress.
func (c *Controller) RunRecompute(ctx context.Context) (*schemas.RecomputeSummary, error) {
	if !c.runMutex.TryLock() {
		return nil, apperrors.Conflict("a recompute run is already in progress")
	}
	defer c.runMutex.Unlock()

	return c.Recompute.Run(ctx)
}

func (c *Controller) LastRun(ctx context.Context) (*schemas.RecomputeSummary, error) {
	return c.Recompute.LastRun(ctx)
}

// ScheduleRecompute (re)installs the cron schedule of the recompute job.
func (c *Controller) ScheduleRecompute(cronSpec string) error {
	c.SchedulerMutex.Lock()
	if existingTask, exists := c.Schedulers[RecomputeSchedule]; exists {
		existingTask.Cancel()
		delete(c.Schedulers, RecomputeSchedule)
	}
	c.SchedulerMutex.Unlock()

	newTask, err := scheduler.NewScheduledTask(cronSpec, c.Logger, func(ctx context.Context) {
		_, err := c.RunRecompute(utils.WithLogger(ctx, c.Logger))
		switch {
		case apperrors.Is(err, apperrors.KindConflict):
			c.Logger.Warn("Skipping scheduled recompute, a run is already in progress")
		case err != nil:
			c.Logger.WithError(err).Error("Scheduled recompute failed")
		}
	})
	if err != nil {
		return err
	}

	c.SchedulerMutex.Lock()
	c.Schedulers[RecomputeSchedule] = newTask
	c.SchedulerMutex.Unlock()

	c.Logger.WithFields(logrus.Fields{
		"cron": cronSpec,
		"next": newTask.Next(),
	}).Info("Scheduled depreciation recompute")
	return nil
}
