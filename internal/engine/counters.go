package engine

import (
	"context"

	"shiftlog/internal/domain"
	"shiftlog/internal/events"
)

// Counter returns the named tally on the current shift, 0 without one.
func (e *Engine) Counter(name domain.CounterName) int {
	return e.state.CurrentShift.Counter(name)
}

// SetCounter stores max(0, value) while a shift is running.
func (e *Engine) SetCounter(ctx context.Context, name domain.CounterName, value int) bool {
	if !e.state.CanAdjustCounters() {
		return false
	}
	s := e.state.CurrentShift
	if !s.SetCounter(name, value) {
		return false
	}
	e.commit(ctx, events.CounterSet, "shift", s.ID, events.EventPayload{
		"counter": string(name),
		"value":   s.Counter(name),
	})
	return true
}

func (e *Engine) Increment(ctx context.Context, name domain.CounterName) bool {
	if !e.state.CanAdjustCounters() {
		return false
	}
	return e.SetCounter(ctx, name, e.Counter(name)+1)
}

// Decrement is a no-op at zero.
func (e *Engine) Decrement(ctx context.Context, name domain.CounterName) bool {
	if !e.state.CanDecrement(name) {
		return false
	}
	return e.SetCounter(ctx, name, e.Counter(name)-1)
}
