package persist

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shiftlog/internal/domain"
)

// Normalize enforces the data-model invariants on an already typed state:
// non-negative counters, a non-nil notes slice, five indexed patrols with no
// end lacking a start, at most one running patrol, and none on an ended
// shift. Internal code can then rely on well-formed data.
func Normalize(st domain.State) domain.State {
	return domain.State{
		CurrentShift:       normalizeShift(st.CurrentShift.Clone()),
		LastCompletedShift: normalizeShift(st.LastCompletedShift.Clone()),
	}
}

func normalizeShift(s *domain.Shift) *domain.Shift {
	if s == nil {
		return nil
	}
	if s.StartTime.IsZero() {
		if s.EndTime == nil {
			return nil
		}
		s.StartTime = *s.EndTime
	}
	if s.ID == "" {
		s.ID = s.StartTime.UTC().Format(time.RFC3339Nano)
	}
	if _, err := time.Parse(domain.DateLayout, s.Date); err != nil {
		s.Date = s.StartTime.Format(domain.DateLayout)
	}
	for _, c := range domain.Counters {
		s.SetCounter(c, s.Counter(c))
	}
	if s.Notes == nil {
		s.Notes = []domain.Note{}
	}
	running := false
	for i := range s.Patrols {
		p := &s.Patrols[i]
		p.Index = i + 1
		if p.StartTime == nil {
			p.EndTime = nil
			continue
		}
		if p.EndTime != nil {
			continue
		}
		switch {
		case s.EndTime != nil:
			end := *s.EndTime
			p.EndTime = &end
		case running:
			end := *p.StartTime
			p.EndTime = &end
		default:
			running = true
		}
	}
	return s
}

// decodeShift coerces an arbitrary decoded JSON value into a shift. Values
// that are not objects, or carry neither a start nor an end instant, yield nil.
func decodeShift(v any) *domain.Shift {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	s := &domain.Shift{
		ID:             coerceID(m["id"]),
		Date:           coerceString(m["date"]),
		EndTime:        coerceInstant(m["endTime"]),
		Engagements:    coerceCount(m["engagements"]),
		StreetDrinkers: coerceCount(m["streetDrinkers"]),
		ASBIncidents:   coerceCount(m["asbIncidents"]),
		Notes:          decodeNotes(m["notes"]),
		NotesLocked:    true,
	}
	if start := coerceInstant(m["startTime"]); start != nil {
		s.StartTime = *start
	}
	if locked, ok := m["notesLocked"].(bool); ok {
		s.NotesLocked = locked
	}
	if list, ok := m["patrols"].([]any); ok {
		for i, item := range list {
			pm, ok := item.(map[string]any)
			if !ok {
				continue
			}
			pos := i
			if idx, ok := pm["index"].(float64); ok && idx >= 1 && idx <= domain.PatrolCount && idx == math.Trunc(idx) {
				pos = int(idx) - 1
			}
			if pos < 0 || pos >= domain.PatrolCount {
				continue
			}
			s.Patrols[pos].StartTime = coerceInstant(pm["startTime"])
			s.Patrols[pos].EndTime = coerceInstant(pm["endTime"])
		}
	}
	return normalizeShift(s)
}

func decodeNotes(v any) []domain.Note {
	list, ok := v.([]any)
	if !ok {
		return []domain.Note{}
	}
	notes := make([]domain.Note, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		n := domain.Note{ID: coerceID(m["id"]), Text: coerceString(m["text"])}
		if ts := coerceInstant(m["timestamp"]); ts != nil {
			n.Timestamp = *ts
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		notes = append(notes, n)
	}
	return notes
}

// coerceCount yields the value for finite non-negative numbers, else 0.
func coerceCount(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceInstant accepts RFC 3339 strings and epoch milliseconds.
func coerceInstant(v any) *time.Time {
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &parsed
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return nil
		}
		parsed := time.UnixMilli(int64(t))
		return &parsed
	}
	return nil
}
