package executor

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/nm-morais/go-timer/pkg/errors"
	"github.com/nm-morais/go-timer/pkg/logs"
	"github.com/sirupsen/logrus"
)

const queueCaller = "queue"

// Queue is a serial executor backed by a single goroutine. Submit never blocks.
type Queue struct {
	label  string
	mu     sync.Mutex
	tasks  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
	logger *logrus.Logger
}

// NewQueue starts a serial queue. size is only a capacity hint for the task buffer.
func NewQueue(label string, size int) *Queue {
	q := &Queue{
		label:  label,
		tasks:  make([]func(), 0, size),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logs.NewLogger(queueCaller),
	}
	go q.run()
	return q
}

func (q *Queue) Label() string {
	return q.label
}

func (q *Queue) Submit(task func()) errors.Error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errors.NonFatalError(closedErrCode, "queue closed", q.label)
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops accepting tasks. Tasks already submitted still run; Done is closed after the last.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) run() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				close(q.done)
				return
			}
			<-q.wake
			continue
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.runTask(task)
	}
}

func (q *Queue) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			errors.FatalError(500, fmt.Sprintf("task panicked: %v\n%s", r, debug.Stack()), q.label).Log(q.logger)
		}
	}()
	task()
}
