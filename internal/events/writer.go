package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shiftlog/internal/domain"
	"shiftlog/internal/repo"
)

// Event types appended by the engine.
const (
	ShiftStart  = "shift.start"
	ShiftEnd    = "shift.end"
	PatrolStart = "patrol.start"
	PatrolEnd   = "patrol.end"
	CounterSet  = "counter.set"
	NoteAdd     = "note.add"
	NoteUpdate  = "note.update"
	NoteDelete  = "note.delete"
	NotesLock   = "notes.lock"
	DataReset   = "data.reset"
	StateImport = "state.import"
)

type Writer struct {
	Repo repo.Repo
	Now  func() time.Time
}

type EventPayload map[string]any

func (w Writer) Append(ctx context.Context, evtType, entityKind, entityID string, payload EventPayload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.Repo.InsertEvent(ctx, domain.Event{
		TS:         w.Now().UTC().Format(time.RFC3339),
		Type:       evtType,
		EntityKind: entityKind,
		EntityID:   entityID,
		Payload:    string(data),
	})
	return err
}
