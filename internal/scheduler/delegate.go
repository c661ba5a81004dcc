package scheduler

import "time"

// State is the lifecycle of a scheduled task.
type State int

const (
	Waiting State = iota
	Running
	Completed
	Cancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Delegate is a handle to a scheduled task.
type Delegate struct {
	fn    func()
	due   time.Time
	state State
}

// Cancel prevents the task from running. Cancelling a task that already ran
// or was already cancelled does nothing.
func (d *Delegate) Cancel() {
	if d == nil || d.state != Waiting {
		return
	}
	d.state = Cancelled
	d.fn = nil
}

// State returns the task's current state.
func (d *Delegate) State() State { return d.state }

// Completed reports whether the task has run.
func (d *Delegate) Completed() bool { return d.state == Completed }

// Cancelled reports whether the task was cancelled before running.
func (d *Delegate) Cancelled() bool { return d.state == Cancelled }

func (d *Delegate) run() bool {
	if d.state != Waiting {
		return false
	}
	d.state = Running
	fn := d.fn
	d.fn = nil
	defer func() { d.state = Completed }()
	if fn != nil {
		fn()
	}
	return true
}
