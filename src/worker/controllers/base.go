package controllers

import (
	"sync"

	"github.com/Jshatto/asset-tracker/src/scheduler"
	"github.com/Jshatto/asset-tracker/src/services"

	"github.com/sirupsen/logrus"
)

type Controller struct {
	Recompute      services.RecomputeServiceI
	Logger         *logrus.Logger
	SchedulerMutex sync.Mutex
	Schedulers     map[string]*scheduler.ScheduledTask
	// runMutex keeps recompute runs from overlapping.
	runMutex sync.Mutex
}

func NewController(recompute services.RecomputeServiceI, logger *logrus.Logger) *Controller {
	return &Controller{
		Recompute:  recompute,
		Logger:     logger,
		Schedulers: map[string]*scheduler.ScheduledTask{},
	}
}

func (c *Controller) GetSchedulers() map[string]*scheduler.ScheduledTask {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	schedulers := make(map[string]*scheduler.ScheduledTask, len(c.Schedulers))
	for name, task := range c.Schedulers {
		schedulers[name] = task
	}
	return schedulers
}

// Stop cancels every schedule and waits for running jobs to return.
func (c *Controller) Stop() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	for name, task := range c.Schedulers {
		task.Cancel()
		delete(c.Schedulers, name)
	}
}
