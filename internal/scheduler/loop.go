package scheduler

import (
	"context"
	"time"
)

// DefaultTickRate is the update rate used when Run is given a non-positive rate.
const DefaultTickRate = 60

// Run drives s.Update at rate ticks per second until ctx is done. Each tick
// runs the scheduler, then calls frame (if non-nil) with the time since the
// previous tick. frame and every scheduled task share the caller's goroutine.
func Run(ctx context.Context, s *Scheduler, rate int, frame func(dt time.Duration)) error {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := s.now()
			s.Update()
			if frame != nil {
				frame(now.Sub(last))
			}
			last = now
		}
	}
}
