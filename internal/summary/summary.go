// Package summary derives the read-only figures shown for a completed shift.
package summary

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"

	"shiftlog/internal/clock"
	"shiftlog/internal/domain"
)

// EmptySentence is shown when no shift has been completed yet.
const EmptySentence = "No completed shift yet."

type PatrolLine struct {
	Index      int                `json:"index"`
	State      domain.PatrolState `json:"state"`
	StartTime  *time.Time         `json:"startTime" format:"date-time"`
	EndTime    *time.Time         `json:"endTime" format:"date-time"`
	DurationMs int64              `json:"durationMs"`
}

type Summary struct {
	Empty           bool         `json:"empty"`
	ShiftID         string       `json:"shiftId,omitempty"`
	Date            string       `json:"date,omitempty"`
	StartTime       *time.Time   `json:"startTime,omitempty" format:"date-time"`
	EndTime         *time.Time   `json:"endTime,omitempty" format:"date-time"`
	ShiftDurationMs int64        `json:"shiftDurationMs"`
	TotalPatrolMs   int64        `json:"totalPatrolMs"`
	Patrols         []PatrolLine `json:"patrols"`
	Engagements     int          `json:"engagements"`
	StreetDrinkers  int          `json:"streetDrinkers"`
	ASBIncidents    int          `json:"asbIncidents"`
	Sentence        string       `json:"sentence"`
}

func (s Summary) ShiftDuration() time.Duration {
	return time.Duration(s.ShiftDurationMs) * time.Millisecond
}

func (s Summary) TotalPatrol() time.Duration {
	return time.Duration(s.TotalPatrolMs) * time.Millisecond
}

// Summarize computes the figures for a shift; nil yields the empty marker.
// Untouched patrols are left out of Patrols but count as zero in the total.
func Summarize(s *domain.Shift) Summary {
	if s == nil {
		return Summary{Empty: true, Patrols: []PatrolLine{}, Sentence: EmptySentence}
	}
	start := s.StartTime
	if start.IsZero() && s.EndTime != nil {
		start = *s.EndTime
	}
	out := Summary{
		ShiftID:         s.ID,
		Date:            s.Date,
		StartTime:       &start,
		EndTime:         s.EndTime,
		ShiftDurationMs: clock.Millis(clock.DurationOf(&start, s.EndTime)),
		Patrols:         []PatrolLine{},
		Engagements:     s.Engagements,
		StreetDrinkers:  s.StreetDrinkers,
		ASBIncidents:    s.ASBIncidents,
	}
	var total time.Duration
	for _, p := range s.Patrols {
		d := clock.DurationOf(p.StartTime, p.EndTime)
		total += d
		if !p.Touched() {
			continue
		}
		out.Patrols = append(out.Patrols, PatrolLine{
			Index:      p.Index,
			State:      p.State(),
			StartTime:  p.StartTime,
			EndTime:    p.EndTime,
			DurationMs: clock.Millis(d),
		})
	}
	out.TotalPatrolMs = clock.Millis(total)
	out.Sentence = Sentence(total, s.Engagements, s.StreetDrinkers, s.ASBIncidents)
	return out
}

// Sentence is the one-line description of patrol time and tallies.
func Sentence(totalPatrol time.Duration, engagements, streetDrinkers, asbIncidents int) string {
	return fmt.Sprintf("Total patrol time %s with %s.", clock.FormatDuration(totalPatrol), english.WordSeries([]string{
		english.Plural(engagements, "engagement", ""),
		english.Plural(streetDrinkers, "street drinker contact", ""),
		english.Plural(asbIncidents, "ASB incident", ""),
	}, "and"))
}
