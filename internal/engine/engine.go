package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shiftlog/internal/clock"
	"shiftlog/internal/domain"
	"shiftlog/internal/events"
	"shiftlog/internal/persist"
	"shiftlog/internal/summary"
)

// Journal records successful mutations. Failures are logged, never fatal.
type Journal interface {
	Append(ctx context.Context, evtType, entityKind, entityID string, payload events.EventPayload) error
}

// Confirmer asks the user before destructive operations.
type Confirmer func(ctx context.Context, st domain.State) bool

// Engine owns the state and applies the shift/patrol rules to it. Refused
// operations are silent no-ops reported by a false return; storage failures
// are logged and the in-memory state carries on. Not safe for concurrent use.
type Engine struct {
	Store    persist.Persister
	Journal  Journal
	Clock    clock.Clock
	Log      *zap.Logger
	OnChange func(domain.State)
	NewID    func() string

	state domain.State
}

func New(store persist.Persister, log *zap.Logger) *Engine {
	return &Engine{
		Store: store,
		Clock: clock.NewMonotonic(clock.System),
		Log:   log,
	}
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock.Now()
	}
	return time.Now()
}

func (e *Engine) log() *zap.Logger {
	if e.Log != nil {
		return e.Log
	}
	return zap.NewNop()
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load replaces the in-memory state with the persisted one. Failures leave
// the empty default state in place.
func (e *Engine) Load(ctx context.Context) {
	e.state = domain.State{}
	if e.Store == nil {
		return
	}
	st, err := e.Store.Load(ctx)
	if err != nil {
		e.log().Warn("load state failed; starting empty", zap.Error(err))
		return
	}
	e.state = st
	e.log().Debug("state loaded", zap.String("shift_state", string(st.ShiftState())))
}

// State returns a copy of the current state.
func (e *Engine) State() domain.State {
	return e.state.Clone()
}

// Replace installs an externally supplied state after normalizing it.
func (e *Engine) Replace(ctx context.Context, st domain.State) {
	e.state = persist.Normalize(st)
	e.commit(ctx, events.StateImport, "state", "", events.EventPayload{
		"current":        e.state.CurrentShift != nil,
		"last_completed": e.state.LastCompletedShift != nil,
	})
}

// StartShift opens a new shift unless one is already running.
func (e *Engine) StartShift(ctx context.Context) bool {
	if !e.state.CanStartShift() {
		return false
	}
	if prev := e.state.CurrentShift; prev != nil {
		// an ended shift still in the current slot is archived, not lost
		last := e.state.LastCompletedShift
		if last == nil || last.EndTime == nil || !prev.EndTime.Before(*last.EndTime) {
			e.state.LastCompletedShift = prev
		}
	}
	now := e.now()
	s := domain.NewShift(e.newID(), now)
	e.state.CurrentShift = s
	e.commit(ctx, events.ShiftStart, "shift", s.ID, events.EventPayload{"date": s.Date})
	return true
}

// EndShift closes any running patrol, stamps the shift end and archives it
// as the last completed shift.
func (e *Engine) EndShift(ctx context.Context) bool {
	if !e.state.CanEndShift() {
		return false
	}
	s := e.state.CurrentShift
	now := e.now()
	payload := events.EventPayload{}
	if pos, ok := s.ActivePatrol(); ok {
		end := now
		s.Patrols[pos].EndTime = &end
		payload["auto_closed_patrol"] = pos + 1
	}
	s.EndTime = &now
	e.state.LastCompletedShift = s
	e.state.CurrentShift = nil
	payload["duration_ms"] = summary.Summarize(s).ShiftDurationMs
	e.commit(ctx, events.ShiftEnd, "shift", s.ID, payload)
	return true
}

// StartPatrol starts the patrol at zero-based position pos.
func (e *Engine) StartPatrol(ctx context.Context, pos int) bool {
	if !e.state.CanStartPatrol(pos) {
		return false
	}
	s := e.state.CurrentShift
	now := e.now()
	s.Patrols[pos].StartTime = &now
	e.commit(ctx, events.PatrolStart, "patrol", patrolEntity(s, pos), events.EventPayload{"index": pos + 1})
	return true
}

// EndPatrol ends the running patrol at zero-based position pos.
func (e *Engine) EndPatrol(ctx context.Context, pos int) bool {
	if !e.state.CanEndPatrol(pos) {
		return false
	}
	s := e.state.CurrentShift
	now := e.now()
	p := &s.Patrols[pos]
	p.EndTime = &now
	e.commit(ctx, events.PatrolEnd, "patrol", patrolEntity(s, pos), events.EventPayload{
		"index":       pos + 1,
		"duration_ms": clock.Millis(clock.DurationOf(p.StartTime, p.EndTime)),
	})
	return true
}

// ResetAllData clears both slots after confirmation. When the blob cannot be
// cleared the empty state is saved over it instead.
func (e *Engine) ResetAllData(ctx context.Context, confirm Confirmer) bool {
	if !e.state.CanReset() {
		return false
	}
	if confirm != nil && !confirm(ctx, e.state.Clone()) {
		return false
	}
	e.state = domain.State{}
	if e.Store != nil {
		if err := e.Store.Clear(ctx); err != nil {
			e.log().Warn("clear state failed; saving empty state", zap.Error(err))
			if err := e.Store.Save(ctx, e.state); err != nil {
				e.log().Error("save empty state failed", zap.Error(err))
			}
		}
	}
	e.record(ctx, events.DataReset, "state", "", nil)
	e.notify()
	return true
}

// commit persists the whole state, journals the change and asks
// collaborators to rebuild their views.
func (e *Engine) commit(ctx context.Context, evtType, entityKind, entityID string, payload events.EventPayload) {
	if e.Store != nil {
		if err := e.Store.Save(ctx, e.state); err != nil {
			e.log().Error("save state failed; continuing unsynced", zap.String("event", evtType), zap.Error(err))
		}
	}
	e.record(ctx, evtType, entityKind, entityID, payload)
	e.notify()
}

func (e *Engine) record(ctx context.Context, evtType, entityKind, entityID string, payload events.EventPayload) {
	e.log().Debug("state changed", zap.String("event", evtType), zap.String("entity_id", entityID))
	if e.Journal == nil {
		return
	}
	if err := e.Journal.Append(ctx, evtType, entityKind, entityID, payload); err != nil {
		e.log().Warn("journal append failed", zap.String("event", evtType), zap.Error(err))
	}
}

func (e *Engine) notify() {
	if e.OnChange != nil {
		e.OnChange(e.state.Clone())
	}
}

func patrolEntity(s *domain.Shift, pos int) string {
	return fmt.Sprintf("%s/%d", s.ID, pos+1)
}
