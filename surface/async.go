package surface

import (
	"errors"
	"sync/atomic"

	"github.com/katalvlaran/voxelmesh/mesh"
	"github.com/katalvlaran/voxelmesh/voxel"
)

// Generation is the asynchronous variant's handle: a future that resolves
// with the finished mesh on a background goroutine. Cancellation resolves
// the future successfully with an empty mesh; callers distinguish through
// IsCancelled.
type Generation struct {
	done      chan struct{}
	mesh      *mesh.Mesh
	err       error
	cancelled atomic.Bool
	stop      atomic.Bool
}

// Wait blocks until the run finishes and returns the mesh. A cancelled
// run returns an empty mesh with a nil error.
func (g *Generation) Wait() (*mesh.Mesh, error) {
	<-g.done

	return g.mesh, g.err
}

// Done reports completion without blocking.
func (g *Generation) Done() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Cancel requests a stop; the worker observes it at the next progress
// poll, bounded by one iteration of whichever loop is running.
func (g *Generation) Cancel() { g.stop.Store(true) }

// IsCancelled reports whether the run ended by cancellation.
func (g *Generation) IsCancelled() bool { return g.cancelled.Load() }

// GenerateAsync starts the pipeline on a background worker and returns
// immediately. The handle's Cancel composes with the caller's progress
// callback: either can stop the run.
func (c *Coordinator) GenerateAsync(g voxel.Grid, s Settings, progress ProgressFunc) *Generation {
	gen := &Generation{done: make(chan struct{})}

	c.track(gen)
	go func() {
		defer close(gen.done)
		defer c.untrack(gen)

		wrapped := func(fraction float32, status string) bool {
			if gen.stop.Load() {
				return false
			}
			if progress == nil {
				return true
			}

			return progress(fraction, status)
		}

		m, err := c.Generate(g, s, wrapped)
		if errors.Is(err, ErrCancelled) {
			gen.cancelled.Store(true)
			gen.mesh = mesh.New()

			return
		}
		gen.mesh, gen.err = m, err
	}()

	return gen
}

// Active returns the number of in-flight asynchronous generations.
func (c *Coordinator) Active() int {
	c.genMu.Lock()
	defer c.genMu.Unlock()

	return len(c.active)
}

func (c *Coordinator) track(g *Generation) {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	c.active = append(c.active, g)
}

func (c *Coordinator) untrack(g *Generation) {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	for i, cur := range c.active {
		if cur == g {
			c.active = append(c.active[:i], c.active[i+1:]...)

			break
		}
	}
}
