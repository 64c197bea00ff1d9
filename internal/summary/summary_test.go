package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftlog/internal/domain"
)

var t0 = time.Date(2024, 5, 4, 22, 0, 0, 0, time.UTC)

func at(min int) *time.Time {
	v := t0.Add(time.Duration(min) * time.Minute)
	return &v
}

func TestSummarizeNil(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Empty)
	assert.Equal(t, EmptySentence, s.Sentence)
	assert.Empty(t, s.Patrols)
}

func TestSummarizeOnlyTouchedPatrolsListed(t *testing.T) {
	sh := domain.NewShift("s-1", t0)
	sh.Patrols[0].StartTime = at(10)
	sh.Patrols[0].EndTime = at(55)
	sh.Patrols[1].StartTime = at(60)
	sh.Patrols[1].EndTime = at(80)
	sh.EndTime = at(480)
	sh.Engagements = 3
	sh.StreetDrinkers = 1

	s := Summarize(sh)
	require.False(t, s.Empty)
	assert.Equal(t, "s-1", s.ShiftID)
	assert.Equal(t, (8 * time.Hour).Milliseconds(), s.ShiftDurationMs)
	assert.Equal(t, 8*time.Hour, s.ShiftDuration())
	require.Len(t, s.Patrols, 2)
	assert.Equal(t, 1, s.Patrols[0].Index)
	assert.Equal(t, (45 * time.Minute).Milliseconds(), s.Patrols[0].DurationMs)
	assert.Equal(t, 2, s.Patrols[1].Index)
	assert.Equal(t, domain.PatrolCompleted, s.Patrols[1].State)
	assert.Equal(t, 65*time.Minute, s.TotalPatrol())
	assert.Equal(t, "Total patrol time 1h 05m with 3 engagements, 1 street drinker contact and 0 ASB incidents.", s.Sentence)
}

func TestSummarizeMissingStartUsesEnd(t *testing.T) {
	sh := &domain.Shift{ID: "s-2", EndTime: at(30)}
	s := Summarize(sh)
	assert.Zero(t, s.ShiftDurationMs)
	assert.Zero(t, s.TotalPatrolMs)
}

func TestSummarizeRunningPatrolContributesZero(t *testing.T) {
	sh := domain.NewShift("s-3", t0)
	sh.Patrols[0].StartTime = at(5)
	s := Summarize(sh)
	require.Len(t, s.Patrols, 1)
	assert.Equal(t, domain.PatrolActive, s.Patrols[0].State)
	assert.Zero(t, s.TotalPatrolMs)
	assert.Zero(t, s.ShiftDurationMs, "no end yet")
}

func TestSentencePlurals(t *testing.T) {
	assert.Equal(t, "Total patrol time 0s with 1 engagement, 2 street drinker contacts and 1 ASB incident.",
		Sentence(0, 1, 2, 1))
}
