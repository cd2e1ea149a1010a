package alertengine

import (
	"context"
	"errors"
	"sync"
)

// RunController keeps at most one pipeline run current. Triggering while a
// run is in flight cancels it first. A superseded run's outcome (including
// its ErrCancelled rejection) is discarded silently, so rapid re-triggers
// converge on the last-started run.
type RunController struct {
	run      func(ctx context.Context) (*RunResult, error)
	onResult func(*RunResult)
	onError  func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

func NewRunController(run func(ctx context.Context) (*RunResult, error), onResult func(*RunResult), onError func(error)) *RunController {
	return &RunController{run: run, onResult: onResult, onError: onError}
}

// Trigger starts a new run, cancelling any run still in flight.
func (c *RunController) Trigger() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go func() {
		defer cancel()
		res, err := c.run(ctx)

		c.mu.Lock()
		latest := gen == c.gen
		c.mu.Unlock()
		if !latest {
			// A newer run took over; whatever happened here is routine.
			return
		}

		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return
			}
			if c.onError != nil {
				c.onError(err)
			}
			return
		}
		if c.onResult != nil {
			c.onResult(res)
		}
	}()
}

// Cancel aborts the current run, if any, without starting a new one.
func (c *RunController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
