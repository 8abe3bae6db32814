package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/suntools/pkg/scene"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs longer than the engine's
	// timeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

// evalResult carries the outcome of a sandbox run back to the caller.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// wait blocks until ch delivers, the timeout fires or ctx ends. A result
// whose generation is no longer current is discarded.
//
// On timeout or cancellation the sandbox goroutine may still be running;
// its result lands in the buffered channel and is dropped.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	limit := e.Timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		stale := gen != e.generation
		e.mu.Unlock()
		if stale {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)

	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}
