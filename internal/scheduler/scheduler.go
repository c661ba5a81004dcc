// Package scheduler runs deferred work on a single cooperative update loop.
package scheduler

import (
	"time"
)

// Scheduler queues tasks that run on a later call to Update.
//
// It is not safe for concurrent use: Schedule, Cancel and Update must all be
// called from the goroutine that owns the update loop.
type Scheduler struct {
	now     func() time.Time
	pending []*Delegate
	running bool
}

// New creates a scheduler driven by the wall clock.
func New() *Scheduler {
	return &Scheduler{now: time.Now}
}

// NewWithClock creates a scheduler that reads time from now.
func NewWithClock(now func() time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// Schedule queues fn to run on the next Update.
func (s *Scheduler) Schedule(fn func()) *Delegate {
	return s.add(fn, time.Time{})
}

// AddDelayed queues fn to run on the first Update at or after now+delay.
func (s *Scheduler) AddDelayed(fn func(), delay time.Duration) *Delegate {
	if delay <= 0 {
		return s.Schedule(fn)
	}
	return s.add(fn, s.now().Add(delay))
}

func (s *Scheduler) add(fn func(), due time.Time) *Delegate {
	d := &Delegate{fn: fn, due: due}
	s.pending = append(s.pending, d)
	return d
}

// Update runs every due task in scheduling order. Tasks scheduled while
// Update is running are deferred to the next call. It returns the number of
// tasks that ran.
func (s *Scheduler) Update() int {
	if s.running {
		return 0
	}
	s.running = true
	defer func() { s.running = false }()

	now := s.now()
	batch := s.pending
	s.pending = nil

	ran := 0
	var later []*Delegate
	for _, d := range batch {
		if d.state == Cancelled {
			continue
		}
		if !d.due.IsZero() && now.Before(d.due) {
			later = append(later, d)
			continue
		}
		// A task cancelled by an earlier task in this batch is skipped by run.
		if d.run() {
			ran++
		}
	}
	// Delayed tasks keep their place ahead of anything scheduled during this update.
	s.pending = append(later, s.pending...)
	return ran
}

// Pending returns the number of tasks still waiting to run.
func (s *Scheduler) Pending() int {
	n := 0
	for _, d := range s.pending {
		if d.state == Waiting {
			n++
		}
	}
	return n
}

// CancelAll cancels every waiting task.
func (s *Scheduler) CancelAll() {
	for _, d := range s.pending {
		d.Cancel()
	}
	s.pending = nil
}
