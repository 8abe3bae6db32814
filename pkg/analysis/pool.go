package analysis

import (
	"context"
	"sync"
)

// run evaluates specs and returns cells in spec order. Cancelling ctx stops
// new cells from starting; cells already running finish.
func (r *Runner) run(ctx context.Context, specs []cellSpec) ([]Cell, error) {
	cells := make([]Cell, len(specs))
	if r.Workers <= 1 {
		for i, s := range specs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c, err := r.evalCell(s)
			if err != nil {
				return nil, err
			}
			cells[i] = c
		}
		return cells, nil
	}

	inner, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	jobs := make(chan int)
	for w := 0; w < r.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c, err := r.evalCell(specs[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
						cancel()
					}
					mu.Unlock()
					continue
				}
				cells[i] = c
			}
		}()
	}

feed:
	for i := range specs {
		select {
		case <-inner.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cells, nil
}
