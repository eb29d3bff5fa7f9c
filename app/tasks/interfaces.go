package tasks

import (
	"github.com/lysyi3m/potus-tracker/app/source"
)

// TaskSchedulerInterface is what the API layer needs from the scheduler:
// lifecycle control plus the ability to queue ad hoc work such as a source
// reload.
//
//	scheduler := NewScheduler(configCache, sourceRepo, orderRepo, eventRepo, httpClient)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueSource(sourceConfig)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueSource(sourceConfig *source.Config) error
}
