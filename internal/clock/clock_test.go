package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationOf(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(90 * time.Minute)

	assert.Equal(t, 90*time.Minute, DurationOf(&t0, &t1))
	assert.Zero(t, DurationOf(nil, &t1))
	assert.Zero(t, DurationOf(&t0, nil))
	assert.Zero(t, DurationOf(nil, nil))
	assert.Zero(t, DurationOf(&t1, &t0), "backwards span clamps to zero")
	assert.Equal(t, int64(5400000), Millis(DurationOf(&t0, &t1)))
}

func TestMonotonicNeverGoesBack(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	readings := []time.Time{base, base.Add(-time.Minute), base.Add(time.Minute)}
	i := 0
	m := NewMonotonic(Func(func() time.Time {
		r := readings[i]
		i++
		return r
	}))

	assert.Equal(t, base, m.Now())
	assert.Equal(t, base, m.Now())
	assert.Equal(t, base.Add(time.Minute), m.Now())
}

func TestStepping(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewStepping(start, time.Minute)
	assert.Equal(t, start, s.Now())
	assert.Equal(t, start.Add(time.Minute), s.Now())
	s.Set(start)
	assert.Equal(t, start, s.Now())
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{12*time.Minute + 30*time.Second, "12m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 05m"},
		{-time.Minute, "0s"},
		{time.Hour + 59*time.Second + 600*time.Millisecond, "1h 01m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.d), tc.d.String())
	}
}
