// Package state holds the request lifecycle shared by the session, catalog and
// cart containers.
package state

import (
	"sync"
)

type Status string

const (
	Idle      Status = "idle"
	Pending   Status = "pending"
	Fulfilled Status = "fulfilled"
	Rejected  Status = "rejected"
)

// Listener is called after every transition with the new status. It runs on
// the goroutine that caused the transition, outside the container lock.
type Listener func(Status)

// Tracker sequences the requests of one container. The owning container holds
// mu while calling Begin, Accept, Fulfill and Reject.
type Tracker struct {
	status  Status
	err     string
	strict  bool
	closed  bool
	issued  uint64
	applied uint64
	floor   uint64

	lmu       sync.Mutex
	listeners []Listener
}

func NewTracker(strict bool) *Tracker {
	return &Tracker{status: Idle, strict: strict}
}

func (t *Tracker) Status() Status { return t.status }
func (t *Tracker) Err() string    { return t.err }
func (t *Tracker) Strict() bool   { return t.strict }
func (t *Tracker) Closed() bool   { return t.closed }

// Begin marks a new request Pending, clears the error and returns its
// sequence number.
func (t *Tracker) Begin() uint64 {
	t.issued++
	t.status = Pending
	t.err = ""
	return t.issued
}

// Accept reports whether the result of request seq may be applied. Results
// are dropped after Close and, in strict mode, when a newer request has
// already been applied. The default is last write wins.
func (t *Tracker) Accept(seq uint64) bool {
	if !t.Live(seq) {
		return false
	}
	t.applied = seq
	return true
}

// Live reports whether Accept would take seq right now, without recording it.
func (t *Tracker) Live(seq uint64) bool {
	if t.closed || seq <= t.floor {
		return false
	}
	return !t.strict || seq >= t.applied
}

func (t *Tracker) Fulfill() {
	t.status = Fulfilled
	t.err = ""
}

func (t *Tracker) Reject(msg string) {
	t.status = Rejected
	t.err = msg
}

func (t *Tracker) ClearError() {
	t.err = ""
}

// Reset returns to Idle without touching the sequence counters.
func (t *Tracker) Reset() {
	t.status = Idle
	t.err = ""
}

// Invalidate drops the results of every request issued so far, whatever the
// ordering mode.
func (t *Tracker) Invalidate() {
	t.floor = t.issued
}

func (t *Tracker) Close() {
	t.closed = true
}

func (t *Tracker) Subscribe(l Listener) {
	t.lmu.Lock()
	t.listeners = append(t.listeners, l)
	t.lmu.Unlock()
}

// Notify calls the listeners. Call it after releasing the container lock.
func (t *Tracker) Notify(s Status) {
	t.lmu.Lock()
	ls := make([]Listener, len(t.listeners))
	copy(ls, t.listeners)
	t.lmu.Unlock()

	for _, l := range ls {
		l(s)
	}
}
