package server

import (
	"encoding/json"
	"time"

	"shiftlog/internal/domain"
	"shiftlog/internal/engine"
	"shiftlog/internal/view"
)

// Request payloads

type SetCounterRequest struct {
	Value int `json:"value"`
}

type NoteTextRequest struct {
	Text string `json:"text" minLength:"1"`
}

// Response payloads

type ViewResponse = view.View

// Result is returned by every mutation. Applied is false when the operation
// was not allowed in the current state; the view is fresh either way.
type Result struct {
	Applied bool         `json:"applied"`
	Note    *domain.Note `json:"note,omitempty"`
	View    ViewResponse `json:"view"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	Payload    map[string]any `json:"payload"`
}

type eventList struct {
	Items []EventResponse `json:"items"`
}

// Conversion helpers

func buildView(e *engine.Engine, now time.Time) ViewResponse {
	return view.Build(e.State(), now)
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Payload:    decodeJSONMap(e.Payload),
	}
}

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return map[string]any{}
	}
	return obj
}
