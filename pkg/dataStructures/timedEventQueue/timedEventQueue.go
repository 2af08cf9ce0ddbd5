package timedEventQueue

import (
	"container/heap"
	"sync"
	"time"

	priorityqueue "github.com/nm-morais/go-timer/pkg/dataStructures/priorityQueue"
	"github.com/nm-morais/go-timer/pkg/logs"
	"github.com/sirupsen/logrus"
)

const timedEventQueueCaller = "timedEventQueue"

type TimedEventQueue interface {
	Add(item Item, deadline time.Time)
	Remove(string) bool
	Len() int
}

// Item is triggered by the queue once its deadline passes. OnTrigger runs on the queue's
// goroutine and must not block; returning true re-inserts the item at nextDeadline.
type Item interface {
	ID() string
	OnTrigger() (reAdd bool, nextDeadline *time.Time)
}

type timedEventQueue struct {
	mu     sync.Mutex
	pq     *priorityqueue.PriorityQueue
	live   map[string]*priorityqueue.Item
	wake   chan struct{}
	logger *logrus.Logger
}

var (
	defaultQueue     TimedEventQueue
	defaultQueueOnce sync.Once
)

// Default returns the process-wide queue, starting it on first use.
func Default() TimedEventQueue {
	defaultQueueOnce.Do(func() {
		defaultQueue = NewTimedEventQueue(logs.NewLogger(timedEventQueueCaller))
	})
	return defaultQueue
}

func NewTimedEventQueue(logger *logrus.Logger) TimedEventQueue {
	tq := &timedEventQueue{
		pq:     &priorityqueue.PriorityQueue{},
		live:   make(map[string]*priorityqueue.Item),
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
	go tq.run()
	return tq
}

// Add schedules item at deadline, replacing any entry with the same ID.
func (tq *timedEventQueue) Add(item Item, deadline time.Time) {
	tq.mu.Lock()
	tq.removeLocked(item.ID())
	aux := &priorityqueue.Item{
		Value:    item,
		Key:      item.ID(),
		Priority: deadline.UnixNano(),
	}
	heap.Push(tq.pq, aux)
	tq.live[aux.Key] = aux
	tq.mu.Unlock()
	tq.signal()
}

func (tq *timedEventQueue) Remove(itemID string) bool {
	tq.mu.Lock()
	found := tq.removeLocked(itemID)
	if !found && tq.logger.IsLevelEnabled(logrus.DebugLevel) {
		tq.logger.Debugf("Removing item %s: not found", itemID)
		tq.pq.LogEntries(tq.logger)
	}
	tq.mu.Unlock()
	if found {
		tq.signal()
	}
	return found
}

func (tq *timedEventQueue) Len() int {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	return tq.pq.Len()
}

func (tq *timedEventQueue) removeLocked(itemID string) bool {
	entry, ok := tq.live[itemID]
	if !ok {
		return false
	}
	delete(tq.live, itemID)
	if entry.Index >= 0 {
		heap.Remove(tq.pq, entry.Index)
	}
	return true
}

func (tq *timedEventQueue) signal() {
	select {
	case tq.wake <- struct{}{}:
	default:
	}
}

// popDue takes every entry whose deadline is not after now. Popped entries stay in live
// so a trigger in progress can still be cancelled by Remove or superseded by Add.
func (tq *timedEventQueue) popDue(now time.Time) (due []*priorityqueue.Item, wait time.Duration) {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	for {
		next := tq.pq.Peek()
		if next == nil {
			return due, -1
		}
		if next.Priority > now.UnixNano() {
			return due, time.Until(time.Unix(0, next.Priority))
		}
		due = append(due, heap.Pop(tq.pq).(*priorityqueue.Item))
	}
}

func (tq *timedEventQueue) reAdd(entry *priorityqueue.Item, deadline *time.Time) {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	if tq.live[entry.Key] != entry {
		return
	}
	if deadline == nil {
		delete(tq.live, entry.Key)
		return
	}
	entry.Priority = deadline.UnixNano()
	heap.Push(tq.pq, entry)
}

func (tq *timedEventQueue) run() {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		due, wait := tq.popDue(time.Now())
		for _, entry := range due {
			item := entry.Value.(Item)
			if ok, nextDeadline := item.OnTrigger(); ok && nextDeadline != nil {
				tq.reAdd(entry, nextDeadline)
			} else {
				tq.reAdd(entry, nil)
			}
		}
		if len(due) > 0 {
			continue
		}

		if wait < 0 {
			<-tq.wake
			continue
		}
		timer.Reset(wait)
		select {
		case <-tq.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}
