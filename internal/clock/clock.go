package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies instants to the engine.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// System reads the wall clock.
var System Clock = Func(time.Now)

// Monotonic never returns an instant earlier than one it already returned,
// so a wall clock stepping backwards cannot reorder captured instants.
type Monotonic struct {
	mu   sync.Mutex
	src  Clock
	last time.Time
}

func NewMonotonic(src Clock) *Monotonic {
	if src == nil {
		src = System
	}
	return &Monotonic{src: src}
}

func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.src.Now()
	if t.Before(m.last) {
		return m.last
	}
	m.last = t
	return t
}

// Stepping returns Start, then Start+Step, Start+2*Step, ... Used by tests.
type Stepping struct {
	mu   sync.Mutex
	next time.Time
	Step time.Duration
}

func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{next: start, Step: step}
}

func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.next
	s.next = s.next.Add(s.Step)
	return t
}

// Set moves the next returned instant.
func (s *Stepping) Set(t time.Time) {
	s.mu.Lock()
	s.next = t
	s.mu.Unlock()
}

// DurationOf returns end-start when both are present, else 0. A negative
// span (clock stepped back between captures) is clamped to 0.
func DurationOf(start, end *time.Time) time.Duration {
	if start == nil || end == nil {
		return 0
	}
	d := end.Sub(*start)
	if d < 0 {
		return 0
	}
	return d
}

// Millis is the millisecond form used in persisted and API figures.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// FormatDuration renders "2h 05m", "12m 30s" or "45s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
