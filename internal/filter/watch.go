package filter

import (
	"context"
	"time"

	"github.com/Zachkp/sheetfolio/internal/page"
)

// Watch waits for the project grid to settle and rebuilds.
//
// When done is non-nil the engine rebuilds as soon as it is closed. Cards
// already present are built immediately and built again on done, since the
// producer may still be appending. When done is nil the engine rebuilds at
// once if cards are present, else observes the grid and rebuilds after Settle
// passes with no further child-list changes. In both modes Fallback forces a
// rebuild if nothing arrives; with a completion signal the engine then keeps
// waiting for it. Watch returns after the final rebuild or when ctx ends.
func (e *Engine) Watch(ctx context.Context, done <-chan struct{}) error {
	var mutations <-chan page.Mutation
	if done == nil {
		events, stop := e.grid.Observe(16)
		defer stop()
		mutations = events
	} else {
		select {
		case <-done:
			e.Rebuild()
			return nil
		default:
		}
	}

	if e.grid.Count(e.opts.Card) > 0 {
		e.Rebuild()
		if done == nil {
			return nil
		}
	}

	fallback := time.NewTimer(e.opts.Fallback)
	defer fallback.Stop()
	expired := fallback.C

	var settle *time.Timer
	var settled <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			e.Rebuild()
			return nil
		case <-mutations:
			if settle == nil {
				settle = time.NewTimer(e.opts.Settle)
				settled = settle.C
			} else {
				settle.Reset(e.opts.Settle)
			}
		case <-settled:
			e.Rebuild()
			return nil
		case <-expired:
			e.logger.Debug("no completion observed; rebuilding on fallback timer")
			e.Rebuild()
			if done == nil {
				return nil
			}
			expired = nil
		}
	}
}
