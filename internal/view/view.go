// Package view builds the read model handed to the CLI and the local API:
// the state plus what the operator may do next.
package view

import (
	"time"

	"shiftlog/internal/clock"
	"shiftlog/internal/domain"
	"shiftlog/internal/summary"
)

type Patrol struct {
	Index      int                `json:"index"`
	State      domain.PatrolState `json:"state"`
	StartTime  *time.Time         `json:"startTime" format:"date-time"`
	EndTime    *time.Time         `json:"endTime" format:"date-time"`
	DurationMs int64              `json:"durationMs"`
	CanStart   bool               `json:"canStart"`
	CanEnd     bool               `json:"canEnd"`
}

type Counter struct {
	Name         domain.CounterName `json:"name"`
	Label        string             `json:"label"`
	Value        int                `json:"value"`
	CanIncrement bool               `json:"canIncrement"`
	CanDecrement bool               `json:"canDecrement"`
}

type Shift struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	State       domain.ShiftState `json:"state"`
	StartTime   time.Time         `json:"startTime" format:"date-time"`
	EndTime     *time.Time        `json:"endTime" format:"date-time"`
	ElapsedMs   int64             `json:"elapsedMs"`
	Patrols     []Patrol          `json:"patrols"`
	Counters    []Counter         `json:"counters"`
	Notes       []domain.Note     `json:"notes"`
	NotesLocked bool              `json:"notesLocked"`
}

type View struct {
	ShiftState     domain.ShiftState `json:"shiftState"`
	Current        *Shift            `json:"currentShift"`
	LastCompleted  summary.Summary   `json:"lastCompleted"`
	CanStartShift  bool              `json:"canStartShift"`
	CanEndShift    bool              `json:"canEndShift"`
	CanAddNote     bool              `json:"canAddNote"`
	CanEditNotes   bool              `json:"canEditNotes"`
	CanDeleteNotes bool              `json:"canDeleteNotes"`
	CanToggleLock  bool              `json:"canToggleLock"`
	CanReset       bool              `json:"canReset"`
}

// Build derives the read model. Running spans are measured up to now.
func Build(st domain.State, now time.Time) View {
	v := View{
		ShiftState:     st.ShiftState(),
		LastCompleted:  summary.Summarize(st.LastCompletedShift),
		CanStartShift:  st.CanStartShift(),
		CanEndShift:    st.CanEndShift(),
		CanAddNote:     st.CanAddNote(),
		CanEditNotes:   st.CanEditNotes(),
		CanDeleteNotes: st.CanEditNotes(),
		CanToggleLock:  st.CanToggleLock(),
		CanReset:       st.CanReset(),
	}
	if s := st.CurrentShift; s != nil {
		v.Current = buildShift(st, s, now)
	}
	return v
}

func buildShift(st domain.State, s *domain.Shift, now time.Time) *Shift {
	out := &Shift{
		ID:          s.ID,
		Date:        s.Date,
		State:       s.State(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		ElapsedMs:   clock.Millis(clock.DurationOf(&s.StartTime, upTo(s.EndTime, now))),
		Patrols:     make([]Patrol, 0, domain.PatrolCount),
		Counters:    make([]Counter, 0, len(domain.Counters)),
		Notes:       append([]domain.Note{}, s.Notes...),
		NotesLocked: s.NotesLocked,
	}
	for i, p := range s.Patrols {
		out.Patrols = append(out.Patrols, Patrol{
			Index:      p.Index,
			State:      p.State(),
			StartTime:  p.StartTime,
			EndTime:    p.EndTime,
			DurationMs: clock.Millis(clock.DurationOf(p.StartTime, upTo(p.EndTime, now))),
			CanStart:   st.CanStartPatrol(i),
			CanEnd:     st.CanEndPatrol(i),
		})
	}
	for _, c := range domain.Counters {
		out.Counters = append(out.Counters, Counter{
			Name:         c,
			Label:        c.Label(),
			Value:        s.Counter(c),
			CanIncrement: st.CanAdjustCounters(),
			CanDecrement: st.CanDecrement(c),
		})
	}
	return out
}

func upTo(end *time.Time, now time.Time) *time.Time {
	if end != nil {
		return end
	}
	return &now
}
