// Package schedule runs periodic callbacks on their own goroutine.
package schedule

import (
	"sync"
	"time"

	"github.com/stefanpenner/trackline/pkg/clock"
)

// Task is a running periodic callback.
type Task struct {
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// Every calls fn with clk.Now() every interval until Stop is called. The
// first call happens one interval after Every returns.
func Every(clk clock.Clock, interval time.Duration, fn func(now time.Time)) *Task {
	t := &Task{
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(t.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				// Stop may race with a pending tick
				select {
				case <-t.done:
					return
				default:
				}
				fn(clk.Now())
			}
		}
	}()

	return t
}

// Stop halts the task and waits for its goroutine to exit. Safe to call
// more than once.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.done) })
	<-t.stopped
}
