package domain

import "time"

// PatrolCount is the fixed number of patrol slots on every shift.
const PatrolCount = 5

// DateLayout is the calendar-date form stored in Shift.Date.
const DateLayout = "2006-01-02"

type Shift struct {
	ID             string              `json:"id"`
	Date           string              `json:"date"`
	StartTime      time.Time           `json:"startTime" format:"date-time"`
	EndTime        *time.Time          `json:"endTime" format:"date-time"`
	Engagements    int                 `json:"engagements" minimum:"0"`
	StreetDrinkers int                 `json:"streetDrinkers" minimum:"0"`
	ASBIncidents   int                 `json:"asbIncidents" minimum:"0"`
	Notes          []Note              `json:"notes"`
	NotesLocked    bool                `json:"notesLocked"`
	Patrols        [PatrolCount]Patrol `json:"patrols"`
}

type Patrol struct {
	Index     int        `json:"index" minimum:"1" maximum:"5"`
	StartTime *time.Time `json:"startTime" format:"date-time"`
	EndTime   *time.Time `json:"endTime" format:"date-time"`
}

type Note struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp" format:"date-time"`
	Text      string    `json:"text"`
}

// State is the whole persisted blob.
type State struct {
	CurrentShift       *Shift `json:"currentShift"`
	LastCompletedShift *Shift `json:"lastCompletedShift"`
}

// NewShift builds a fresh active shift: counters zero, notes empty and
// locked, five pending patrols.
func NewShift(id string, now time.Time) *Shift {
	s := &Shift{
		ID:          id,
		Date:        now.Format(DateLayout),
		StartTime:   now,
		Notes:       []Note{},
		NotesLocked: true,
	}
	for i := range s.Patrols {
		s.Patrols[i] = Patrol{Index: i + 1}
	}
	return s
}

// Clone returns a deep copy so archived snapshots never alias live data.
func (s *Shift) Clone() *Shift {
	if s == nil {
		return nil
	}
	c := *s
	c.EndTime = cloneTime(s.EndTime)
	c.Notes = append([]Note{}, s.Notes...)
	for i, p := range s.Patrols {
		c.Patrols[i] = Patrol{Index: p.Index, StartTime: cloneTime(p.StartTime), EndTime: cloneTime(p.EndTime)}
	}
	return &c
}

// Clone deep-copies both slots.
func (st State) Clone() State {
	return State{
		CurrentShift:       st.CurrentShift.Clone(),
		LastCompletedShift: st.LastCompletedShift.Clone(),
	}
}

// IsEmpty reports whether neither slot holds a shift.
func (st State) IsEmpty() bool {
	return st.CurrentShift == nil && st.LastCompletedShift == nil
}

// NoteIndex returns the position of the note with id, or -1.
func (s *Shift) NoteIndex(id string) int {
	for i, n := range s.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
