package executor

import (
	"fmt"
	"runtime/debug"

	"github.com/nm-morais/go-timer/pkg/errors"
	"github.com/nm-morais/go-timer/pkg/logs"
	"github.com/panjf2000/ants"
	"github.com/sirupsen/logrus"
)

const (
	poolCaller = "pool"

	overloadErrCode = 429
)

// Pool is a concurrent executor backed by a non-blocking ants goroutine pool. Submit never
// waits for a worker: when every worker is busy the task is refused with a temporary error.
type Pool struct {
	pool   *ants.Pool
	logger *logrus.Logger
}

func NewPool(size int) (*Pool, error) {
	logger := logs.NewLogger(poolCaller)
	p, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(r interface{}) {
			errors.FatalError(500, fmt.Sprintf("task panicked: %v\n%s", r, debug.Stack()), poolCaller).Log(logger)
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{
		pool:   p,
		logger: logger,
	}, nil
}

func (p *Pool) Submit(task func()) errors.Error {
	err := p.pool.Submit(task)
	switch {
	case err == nil:
		return nil
	case err == ants.ErrPoolOverload:
		return errors.TemporaryError(overloadErrCode,
			fmt.Sprintf("pool saturated, %d/%d workers busy", p.Running(), p.Cap()), poolCaller)
	default:
		return errors.NonFatalError(closedErrCode, err.Error(), poolCaller)
	}
}

// Running returns the number of workers currently executing tasks.
func (p *Pool) Running() int {
	return p.pool.Running()
}

func (p *Pool) Cap() int {
	return p.pool.Cap()
}

func (p *Pool) Close() {
	p.pool.Release()
}
