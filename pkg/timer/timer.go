// Package timer offers a controllable periodic timer, a bounded countdown and one-shot
// delayed execution on top of a single dispatch source.
//
// A Timer moves through Idle, Running, Paused and Stopped. Stopped is terminal: once the
// underlying source is cancelled, by Stop or by an exhausted countdown, every scheduling call
// on that Timer is a no-op. After is independent of that state machine.
//
// Callbacks run on the Timer's executor. With a serial executor firings never overlap; with
// an executor.Pool a slow handler can overlap the next firing and the handler must be safe
// for concurrent use.
package timer

import (
	"math"
	"runtime"
	"sync"
	"time"
	"weak"

	"github.com/nm-morais/go-timer/pkg/dispatch"
	"github.com/nm-morais/go-timer/pkg/errors"
	"github.com/nm-morais/go-timer/pkg/executor"
	"github.com/nm-morais/go-timer/pkg/logs"
)

const (
	timerCaller = "timer"

	invalidArgCode = 400
)

type State int

const (
	Idle State = iota
	Running
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	}
	return "Unknown"
}

var logger = logs.NewLogger(timerCaller)

type Timer struct {
	exec executor.Executor

	mu        sync.Mutex
	source    *dispatch.Source
	state     State
	handler   func()
	gen       uint64
	counting  bool
	remaining time.Duration
	repeating time.Duration
}

// New binds a Timer to exec, or to executor.Main() when exec is nil. The dispatch source is
// created on the first Start or Countdown.
func New(exec executor.Executor) *Timer {
	if exec == nil {
		exec = executor.Main()
	}
	return &Timer{exec: exec}
}

// Start fires handler now and then every interval until Pause or Stop. Calling it again
// replaces the schedule and handler in place.
func (t *Timer) Start(interval time.Duration, handler func()) {
	if interval <= 0 {
		rejectArg("start: interval must be positive")
		return
	}
	t.schedule(interval, handler, false, 0)
}

// StartSeconds is Start with the interval given in (possibly fractional) seconds.
func (t *Timer) StartSeconds(seconds float64, handler func()) {
	interval, ok := fromSeconds(seconds)
	if !ok {
		rejectArg("start: interval is not a representable duration")
		return
	}
	t.Start(interval, handler)
}

// Countdown fires handler now and then every repeating, subtracting repeating from total on
// each firing. The firing that takes the budget to zero or below cancels the timer and still
// calls handler.
func (t *Timer) Countdown(total, repeating time.Duration, handler func()) {
	if total <= 0 || repeating <= 0 {
		rejectArg("countdown: total and repeating must be positive")
		return
	}
	t.schedule(repeating, handler, true, total)
}

// CountdownSeconds is Countdown with durations given in seconds.
func (t *Timer) CountdownSeconds(total, repeating float64, handler func()) {
	totalDuration, okTotal := fromSeconds(total)
	repeatDuration, okRepeat := fromSeconds(repeating)
	if !okTotal || !okRepeat {
		rejectArg("countdown: total or repeating is not a representable duration")
		return
	}
	t.Countdown(totalDuration, repeatDuration, handler)
}

// After runs handler once on the Timer's executor after delay. It cannot be cancelled and
// does not interact with Start, Countdown, Pause, Restart or Stop.
func (t *Timer) After(delay time.Duration, handler func()) {
	dispatch.After(t.exec, delay, handler)
}

func (t *Timer) AfterSeconds(seconds float64, handler func()) {
	delay, ok := fromSeconds(seconds)
	if !ok {
		rejectArg("after: delay is not a representable duration")
		return
	}
	t.After(delay, handler)
}

// Pause suspends firing without cancelling. Only a running timer is affected.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Running {
		logger.Debugf("pause ignored in state %s", t.state)
		return
	}
	t.source.Suspend()
	t.state = Paused
	logger.Debug("paused")
}

// Restart resumes a paused timer on its existing schedule. It does not reset progress.
func (t *Timer) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Paused {
		logger.Debugf("restart ignored in state %s", t.state)
		return
	}
	t.source.Resume()
	t.state = Running
	logger.Debug("restarted")
}

// Stop permanently cancels the timer. A Timer cannot be started again after Stop.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Stopped {
		return
	}
	t.stopLocked()
	logger.Debug("stopped")
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining is the countdown budget left; zero or negative once a countdown has run out.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) schedule(interval time.Duration, handler func(), counting bool, total time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Stopped {
		logger.Debug("schedule ignored on a stopped timer")
		return
	}

	src := t.ensureSourceLocked()
	t.gen++
	t.handler = handler
	t.counting = counting
	t.remaining = total
	t.repeating = interval

	gen := t.gen
	self := weak.Make(t)
	src.SetEventHandler(func() {
		if owner := self.Value(); owner != nil {
			owner.fire(gen)
		}
	})
	src.SetTimer(time.Now(), interval)
	if t.state != Running {
		src.Resume()
	}
	t.state = Running
	logger.Debugf("scheduled every %s (countdown: %t, budget: %s)", interval, counting, total)
}

func (t *Timer) ensureSourceLocked() *dispatch.Source {
	if t.source == nil {
		t.source = dispatch.NewSource(t.exec)
		runtime.AddCleanup(t, func(src *dispatch.Source) { src.Cancel() }, t.source)
	}
	return t.source
}

// fire runs on the executor. Firings from a previous schedule, or delivered after a pause
// or stop, are dropped.
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return
	}
	handler := t.handler
	if t.counting {
		t.remaining -= t.repeating
		if t.remaining <= 0 {
			t.stopLocked()
			logger.Debug("countdown finished")
		}
	}
	t.mu.Unlock()

	if handler != nil {
		handler()
	}
}

func (t *Timer) stopLocked() {
	t.state = Stopped
	t.gen++
	if t.source != nil {
		t.source.Cancel()
	}
}

func rejectArg(reason string) {
	errors.NonFatalError(invalidArgCode, reason, timerCaller).Log(logger)
}

// fromSeconds converts seconds to a Duration, reporting false for NaN, infinities and values
// outside the Duration range.
func fromSeconds(seconds float64) (time.Duration, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, false
	}
	ns := math.Round(seconds * float64(time.Second))
	if ns >= math.MaxInt64 || ns < math.MinInt64 {
		return 0, false
	}
	return time.Duration(ns), true
}
