package dispatch

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nm-morais/go-timer/pkg/dataStructures/timedEventQueue"
	"github.com/nm-morais/go-timer/pkg/executor"
	"github.com/nm-morais/go-timer/pkg/logs"
)

const afterCaller = "dispatchAfter"

var (
	afterIDs    uint64
	afterLogger = logs.NewLogger(afterCaller)
)

type afterItem struct {
	id   string
	exec executor.Executor
	fn   func()
}

func (ai *afterItem) ID() string {
	return ai.id
}

func (ai *afterItem) OnTrigger() (bool, *time.Time) {
	if err := ai.exec.Submit(ai.fn); err != nil {
		err.Log(afterLogger)
	}
	return false, nil
}

// After runs fn once on exec after delay. A non-positive delay submits fn right away.
func After(exec executor.Executor, delay time.Duration, fn func()) {
	after(timedEventQueue.Default(), exec, delay, fn)
}

func after(teq timedEventQueue.TimedEventQueue, exec executor.Executor, delay time.Duration, fn func()) {
	if delay <= 0 {
		if err := exec.Submit(fn); err != nil {
			err.Log(afterLogger)
		}
		return
	}
	teq.Add(&afterItem{
		id:   fmt.Sprintf("after-%d", atomic.AddUint64(&afterIDs, 1)),
		exec: exec,
		fn:   fn,
	}, time.Now().Add(delay))
}
