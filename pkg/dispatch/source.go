// Package dispatch implements a suspendable, cancellable timer source bound to an executor,
// driven by the shared timed event queue.
package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nm-morais/go-timer/pkg/dataStructures/timedEventQueue"
	"github.com/nm-morais/go-timer/pkg/executor"
	"github.com/nm-morais/go-timer/pkg/logs"
	"github.com/sirupsen/logrus"
)

const sourceCaller = "dispatchSource"

var (
	sourceIDs    uint64
	sourceLogger = logs.NewLogger(sourceCaller)
)

// Source is a timer primitive. It starts suspended and unarmed: SetTimer arms it and one
// Resume activates it. Suspend and Resume calls must balance; resuming a source that is not
// suspended panics. Cancel is permanent.
type Source struct {
	id     string
	exec   executor.Executor
	teq    timedEventQueue.TimedEventQueue
	logger *logrus.Logger

	mu           sync.Mutex
	handler      func()
	next         time.Time
	interval     time.Duration
	armed        bool
	scheduled    bool
	pending      bool
	suspendCount int
	cancelled    bool
}

func NewSource(exec executor.Executor) *Source {
	return newSource(exec, timedEventQueue.Default())
}

func newSource(exec executor.Executor, teq timedEventQueue.TimedEventQueue) *Source {
	return &Source{
		id:           fmt.Sprintf("source-%d", atomic.AddUint64(&sourceIDs, 1)),
		exec:         exec,
		teq:          teq,
		logger:       sourceLogger,
		suspendCount: 1,
	}
}

func (s *Source) ID() string {
	return s.id
}

// SetEventHandler replaces the function submitted to the executor on every firing.
func (s *Source) SetEventHandler(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.handler = handler
}

// SetTimer fires the source at start and then every interval. A non-positive interval
// makes it fire once. Any previous schedule is replaced, including a pending coalesced firing.
func (s *Source) SetTimer(start time.Time, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.next = start
	s.interval = interval
	s.armed = true
	s.pending = false
	if s.suspendCount == 0 {
		s.teq.Add(s, s.next)
		s.scheduled = true
	} else if s.scheduled {
		s.teq.Remove(s.id)
		s.scheduled = false
	}
}

func (s *Source) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.suspendCount++
	if s.suspendCount == 1 && s.scheduled {
		s.teq.Remove(s.id)
		s.scheduled = false
	}
}

func (s *Source) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspendCount == 0 {
		s.logger.Panicf("%s: over-resume of a source that is not suspended", s.id)
	}
	s.suspendCount--
	if s.suspendCount > 0 || s.cancelled || !s.armed {
		return
	}
	if s.pending {
		s.next = time.Now()
		s.pending = false
	}
	s.teq.Add(s, s.next)
	s.scheduled = true
}

// Cancel stops all future firings. A firing already handed to the executor still runs.
func (s *Source) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.handler = nil
	if s.scheduled {
		s.teq.Remove(s.id)
		s.scheduled = false
	}
	s.logger.Debugf("%s cancelled", s.id)
}

func (s *Source) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Source) IsSuspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspendCount > 0
}

// OnTrigger is called by the timed event queue when the source comes due.
func (s *Source) OnTrigger() (bool, *time.Time) {
	s.mu.Lock()
	if s.cancelled || !s.armed {
		s.scheduled = false
		s.mu.Unlock()
		return false, nil
	}
	if s.suspendCount > 0 {
		s.pending = true
		s.scheduled = false
		s.mu.Unlock()
		return false, nil
	}

	handler := s.handler
	var next *time.Time
	if s.interval > 0 {
		now := time.Now()
		s.next = s.next.Add(s.interval)
		for !s.next.After(now) {
			s.next = s.next.Add(s.interval)
		}
		nextDeadline := s.next
		next = &nextDeadline
	} else {
		s.armed = false
		s.scheduled = false
	}
	s.mu.Unlock()

	if handler != nil {
		if err := s.exec.Submit(handler); err != nil {
			if err.Temporary() {
				s.logger.Debugf("%s: dropping firing: %s", s.id, err.Reason())
			} else {
				s.logger.Warnf("%s: dropping firing: %s", s.id, err.Reason())
			}
		}
	}
	return next != nil, next
}
