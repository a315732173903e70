package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/nhle/mail-agent/internal/model"
)

// Entry is a queued message paired with its computed send time. The send
// time is fixed at enqueue and the queue owns the entry until it is
// drained.
type Entry struct {
	// ID identifies the entry itself (used as the persistence key).
	ID string

	// ScheduledAt is when the reply becomes eligible to send.
	ScheduledAt time.Time

	Message model.Message
}

// Queue is the in-memory dispatch queue. Intake and dispatch run on
// separate goroutines, so all access is mutex-guarded.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	byMsgID map[string]struct{}
}

// NewQueue returns an empty dispatch queue.
func NewQueue() *Queue {
	return &Queue{byMsgID: make(map[string]struct{})}
}

// Enqueue appends an entry, unless the queue already holds an entry for
// the same message id. Returns false on a duplicate.
func (q *Queue) Enqueue(e Entry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, dup := q.byMsgID[e.Message.ID]; dup {
		return false
	}
	q.entries = append(q.entries, e)
	q.byMsgID[e.Message.ID] = struct{}{}
	return true
}

// DrainReady atomically removes and returns every entry whose scheduled
// time has arrived, provided now falls inside the sending window. Entries
// past their scheduled time but outside the window stay queued for a
// later pass; they are deferred, never dropped. Returned entries are in
// scheduled-time order.
func (q *Queue) DrainReady(now time.Time, inWindow func(time.Time) bool) []Entry {
	if !inWindow(now) {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var ready, remaining []Entry
	for _, e := range q.entries {
		if !now.Before(e.ScheduledAt) {
			ready = append(ready, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	if len(ready) == 0 {
		return nil
	}

	q.entries = remaining
	for _, e := range ready {
		delete(q.byMsgID, e.Message.ID)
	}

	sort.Slice(ready, func(i, j int) bool {
		return ready[i].ScheduledAt.Before(ready[j].ScheduledAt)
	})
	return ready
}

// Requeue puts a drained entry back, keeping its original scheduled time.
// Used when generation or send fails so the entry retries on a later
// tick instead of being dropped.
func (q *Queue) Requeue(e Entry) bool {
	return q.Enqueue(e)
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Pending returns a copy of the queued entries in scheduled-time order,
// for status reporting.
func (q *Queue) Pending() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}
