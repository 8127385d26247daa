// Convergence runner (C8): drives ExecuteTick to a fixed point,
// grounded on
// _examples/original_source/src/kgcl/hybrid/application/convergence_runner.py's
// ConvergenceRunner.run: loop up to max_ticks, stop on the first
// converged tick, raise ConvergenceError if the bound is exhausted
// first.
package engine

import (
	"context"

	"eve.evalgo.org/kgcl/errs"
)

// RunToCompletion ticks the engine until a tick reports zero delta, or
// returns a *errs.ConvergenceError if maxTicks is exhausted first. It
// drives the runner-owned tick_count forward via RunSingleTick rather
// than numbering ticks itself.
func (e *Engine) RunToCompletion(ctx context.Context, maxTicks int) ([]TickResult, error) {
	results := make([]TickResult, 0, maxTicks)
	var lastDelta int
	for i := 0; i < maxTicks; i++ {
		result, err := e.RunSingleTick(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		lastDelta = result.Delta
		if result.Converged {
			return results, nil
		}
	}
	return results, &errs.ConvergenceError{MaxTicks: maxTicks, FinalDelta: lastDelta}
}

// RunSingleTick increments the runner-owned tick counter and executes
// exactly one tick with it, mirroring convergence_runner.py's
// run_single_tick, which increments self.tick_count before delegating
// to the executor.
func (e *Engine) RunSingleTick(ctx context.Context) (TickResult, error) {
	e.mu.Lock()
	e.tickCount++
	n := e.tickCount
	e.mu.Unlock()
	return e.ExecuteTick(ctx, n)
}

// TickCount reports the number of ticks this engine's convergence
// runner has executed since construction or the last ResetTickCount.
func (e *Engine) TickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}

// ResetTickCount resets the convergence runner's tick counter to zero,
// mirroring convergence_runner.py's reset_tick_count: useful for
// restarting an execution sequence against a fresh store state.
func (e *Engine) ResetTickCount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCount = 0
}
