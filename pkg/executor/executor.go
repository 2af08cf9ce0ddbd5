// Package executor provides the execution contexts timer callbacks run on.
//
// A Queue runs its tasks one at a time in submission order, so callbacks bound to it never
// overlap. A Pool hands tasks to an ants worker pool and may run them in parallel: periodic
// firings of a timer bound to a Pool can overlap when a callback outlives the interval.
//
// Timers never create a Pool themselves; their default context is Main(). A Pool is only used
// when a caller builds one and passes it to timer.New. Submit on every executor must return
// without waiting, since firings are submitted from the shared timed event queue goroutine: a
// saturated Pool refuses the task and that firing is dropped.
package executor

import (
	"sync"

	"github.com/nm-morais/go-timer/pkg/errors"
)

const (
	mainQueueLabel = "main"

	closedErrCode = 503
)

type Executor interface {
	Submit(task func()) errors.Error
}

var (
	mainQueue     *Queue
	mainQueueOnce sync.Once
)

// Main returns the process-wide serial queue used when no executor is given.
func Main() *Queue {
	mainQueueOnce.Do(func() {
		mainQueue = NewQueue(mainQueueLabel, 0)
	})
	return mainQueue
}
