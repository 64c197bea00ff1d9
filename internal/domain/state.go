package domain

import (
	"fmt"
	"strings"
)

// PatrolState is the lifecycle position of one patrol.
type PatrolState string

const (
	PatrolPending   PatrolState = "pending"
	PatrolActive    PatrolState = "active"
	PatrolCompleted PatrolState = "completed"
)

// State derives the patrol's variant from its instants.
func (p Patrol) State() PatrolState {
	switch {
	case p.StartTime == nil:
		return PatrolPending
	case p.EndTime == nil:
		return PatrolActive
	default:
		return PatrolCompleted
	}
}

// Touched reports whether the patrol carries any instant.
func (p Patrol) Touched() bool {
	return p.StartTime != nil || p.EndTime != nil
}

// ShiftState is the lifecycle position of the current-shift slot.
type ShiftState string

const (
	NoShift     ShiftState = "none"
	ActiveShift ShiftState = "active"
	EndedShift  ShiftState = "ended"
)

func (s *Shift) State() ShiftState {
	switch {
	case s == nil:
		return NoShift
	case s.EndTime == nil:
		return ActiveShift
	default:
		return EndedShift
	}
}

func (st State) ShiftState() ShiftState {
	return st.CurrentShift.State()
}

// active returns the current shift only while it is running.
func (st State) active() *Shift {
	if st.ShiftState() != ActiveShift {
		return nil
	}
	return st.CurrentShift
}

// ActivePatrol returns the zero-based position of the running patrol.
func (s *Shift) ActivePatrol() (int, bool) {
	if s == nil {
		return 0, false
	}
	for i, p := range s.Patrols {
		if p.State() == PatrolActive {
			return i, true
		}
	}
	return 0, false
}

func (st State) CanStartShift() bool {
	return st.ShiftState() != ActiveShift
}

func (st State) CanEndShift() bool {
	return st.ShiftState() == ActiveShift
}

// CanStartPatrol checks the slot is pending, no other patrol is running, and
// the previous patrol (if any) has completed.
func (st State) CanStartPatrol(pos int) bool {
	s := st.active()
	if s == nil || !validPosition(pos) {
		return false
	}
	if s.Patrols[pos].State() != PatrolPending {
		return false
	}
	if _, running := s.ActivePatrol(); running {
		return false
	}
	if pos > 0 && s.Patrols[pos-1].State() != PatrolCompleted {
		return false
	}
	return true
}

func (st State) CanEndPatrol(pos int) bool {
	s := st.active()
	if s == nil || !validPosition(pos) {
		return false
	}
	return s.Patrols[pos].State() == PatrolActive
}

// CanAdjustCounters is true only while a shift is running.
func (st State) CanAdjustCounters() bool {
	return st.active() != nil
}

func (st State) CanDecrement(name CounterName) bool {
	s := st.active()
	return s != nil && s.Counter(name) > 0
}

// CanAddNote allows capture whatever the lock says.
func (st State) CanAddNote() bool {
	return st.CurrentShift != nil
}

// CanEditNotes gates revision of existing notes behind the lock.
func (st State) CanEditNotes() bool {
	return st.CurrentShift != nil && !st.CurrentShift.NotesLocked
}

func (st State) CanToggleLock() bool {
	return st.CurrentShift != nil
}

func (st State) CanReset() bool {
	return !st.IsEmpty()
}

func validPosition(pos int) bool {
	return pos >= 0 && pos < PatrolCount
}

// ParsePatrolNumber converts a 1-based patrol number to a position.
func ParsePatrolNumber(n int) (int, error) {
	if n < 1 || n > PatrolCount {
		return 0, fmt.Errorf("invalid patrol number %d: must be 1-%d", n, PatrolCount)
	}
	return n - 1, nil
}

// CounterName identifies one of the shift tallies.
type CounterName string

const (
	Engagements    CounterName = "engagements"
	StreetDrinkers CounterName = "streetDrinkers"
	ASBIncidents   CounterName = "asbIncidents"
)

// Counters lists every counter in display order.
var Counters = []CounterName{Engagements, StreetDrinkers, ASBIncidents}

var counterAliases = map[string]CounterName{
	"engagements":     Engagements,
	"engagement":      Engagements,
	"streetdrinkers":  StreetDrinkers,
	"street-drinkers": StreetDrinkers,
	"street_drinkers": StreetDrinkers,
	"drinkers":        StreetDrinkers,
	"asbincidents":    ASBIncidents,
	"asb-incidents":   ASBIncidents,
	"asb_incidents":   ASBIncidents,
	"asb":             ASBIncidents,
}

// ParseCounterName accepts the canonical names and the CLI aliases.
func ParseCounterName(s string) (CounterName, error) {
	if c, ok := counterAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("invalid counter %q: expected engagements, street-drinkers or asb", s)
}

// Label is the human-facing counter title.
func (c CounterName) Label() string {
	switch c {
	case Engagements:
		return "Engagements"
	case StreetDrinkers:
		return "Street drinkers"
	case ASBIncidents:
		return "ASB incidents"
	}
	return string(c)
}

func (s *Shift) Counter(name CounterName) int {
	if s == nil {
		return 0
	}
	switch name {
	case Engagements:
		return s.Engagements
	case StreetDrinkers:
		return s.StreetDrinkers
	case ASBIncidents:
		return s.ASBIncidents
	}
	return 0
}

// SetCounter stores max(0, v); it reports false for an unknown name.
func (s *Shift) SetCounter(name CounterName, v int) bool {
	if v < 0 {
		v = 0
	}
	switch name {
	case Engagements:
		s.Engagements = v
	case StreetDrinkers:
		s.StreetDrinkers = v
	case ASBIncidents:
		s.ASBIncidents = v
	default:
		return false
	}
	return true
}
