package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 4, 22, 30, 0, 0, time.UTC)

func at(min int) *time.Time {
	v := t0.Add(time.Duration(min) * time.Minute)
	return &v
}

func TestNewShiftDefaults(t *testing.T) {
	s := NewShift("s-1", t0)
	assert.Equal(t, "2024-05-04", s.Date)
	assert.Equal(t, t0, s.StartTime)
	assert.Nil(t, s.EndTime)
	assert.True(t, s.NotesLocked)
	assert.NotNil(t, s.Notes)
	assert.Empty(t, s.Notes)
	for i, p := range s.Patrols {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, PatrolPending, p.State())
	}
	assert.Equal(t, ActiveShift, s.State())
}

func TestPatrolState(t *testing.T) {
	assert.Equal(t, PatrolPending, Patrol{Index: 1}.State())
	assert.Equal(t, PatrolActive, Patrol{Index: 1, StartTime: at(0)}.State())
	assert.Equal(t, PatrolCompleted, Patrol{Index: 1, StartTime: at(0), EndTime: at(5)}.State())
	assert.False(t, Patrol{Index: 1}.Touched())
	assert.True(t, Patrol{Index: 1, StartTime: at(0)}.Touched())
}

func TestShiftStateVariants(t *testing.T) {
	var st State
	assert.Equal(t, NoShift, st.ShiftState())
	assert.True(t, st.CanStartShift())
	assert.False(t, st.CanEndShift())
	assert.False(t, st.CanReset())

	st.CurrentShift = NewShift("s-1", t0)
	assert.Equal(t, ActiveShift, st.ShiftState())
	assert.False(t, st.CanStartShift())
	assert.True(t, st.CanEndShift())

	st.CurrentShift.EndTime = at(60)
	assert.Equal(t, EndedShift, st.ShiftState())
	assert.True(t, st.CanStartShift())
	assert.False(t, st.CanEndShift())
	assert.False(t, st.CanAdjustCounters())
	assert.False(t, st.CanStartPatrol(0))
}

func TestPatrolGuards(t *testing.T) {
	st := State{CurrentShift: NewShift("s-1", t0)}

	assert.True(t, st.CanStartPatrol(0))
	assert.False(t, st.CanStartPatrol(1), "patrol 2 needs patrol 1 completed")
	assert.False(t, st.CanStartPatrol(-1))
	assert.False(t, st.CanStartPatrol(PatrolCount))
	assert.False(t, st.CanEndPatrol(0))

	st.CurrentShift.Patrols[0].StartTime = at(1)
	assert.False(t, st.CanStartPatrol(0), "already active")
	assert.False(t, st.CanStartPatrol(1), "another patrol is running")
	assert.True(t, st.CanEndPatrol(0))
	pos, ok := st.CurrentShift.ActivePatrol()
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	st.CurrentShift.Patrols[0].EndTime = at(2)
	assert.False(t, st.CanStartPatrol(0), "completed is terminal")
	assert.True(t, st.CanStartPatrol(1))
	assert.False(t, st.CanStartPatrol(2))
	_, ok = st.CurrentShift.ActivePatrol()
	assert.False(t, ok)
}

func TestCounterAccess(t *testing.T) {
	s := NewShift("s-1", t0)
	require.True(t, s.SetCounter(Engagements, 3))
	require.True(t, s.SetCounter(StreetDrinkers, -4))
	assert.False(t, s.SetCounter(CounterName("bogus"), 1))
	assert.Equal(t, 3, s.Counter(Engagements))
	assert.Equal(t, 0, s.Counter(StreetDrinkers))
	assert.Equal(t, 0, (*Shift)(nil).Counter(Engagements))

	st := State{CurrentShift: s}
	assert.True(t, st.CanDecrement(Engagements))
	assert.False(t, st.CanDecrement(ASBIncidents))
}

func TestParseCounterName(t *testing.T) {
	for in, want := range map[string]CounterName{
		"engagements":     Engagements,
		"Street-Drinkers": StreetDrinkers,
		"streetDrinkers":  StreetDrinkers,
		" asb ":           ASBIncidents,
	} {
		got, err := ParseCounterName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseCounterName("coffees")
	assert.Error(t, err)
}

func TestParsePatrolNumber(t *testing.T) {
	pos, err := ParsePatrolNumber(1)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	pos, err = ParsePatrolNumber(5)
	require.NoError(t, err)
	assert.Equal(t, 4, pos)
	_, err = ParsePatrolNumber(0)
	assert.Error(t, err)
	_, err = ParsePatrolNumber(6)
	assert.Error(t, err)
}

func TestNotesGuards(t *testing.T) {
	st := State{CurrentShift: NewShift("s-1", t0)}
	assert.True(t, st.CanAddNote())
	assert.False(t, st.CanEditNotes(), "locked by default")
	st.CurrentShift.NotesLocked = false
	assert.True(t, st.CanEditNotes())
}

func TestCloneIsDeep(t *testing.T) {
	s := NewShift("s-1", t0)
	s.Patrols[0].StartTime = at(1)
	s.Notes = append(s.Notes, Note{ID: "n-1", Timestamp: t0, Text: "hello"})

	c := s.Clone()
	*c.Patrols[0].StartTime = t0.Add(time.Hour)
	c.Notes[0].Text = "changed"

	assert.Equal(t, *at(1), *s.Patrols[0].StartTime)
	assert.Equal(t, "hello", s.Notes[0].Text)
	assert.Equal(t, 0, s.NoteIndex("n-1"))
	assert.Equal(t, -1, s.NoteIndex("missing"))
}
