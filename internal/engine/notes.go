package engine

import (
	"context"
	"strings"

	"shiftlog/internal/domain"
	"shiftlog/internal/events"
)

// AddNote appends a note to the current shift. Capture ignores the lock.
func (e *Engine) AddNote(ctx context.Context, text string) (domain.Note, bool) {
	text = strings.TrimSpace(text)
	if !e.state.CanAddNote() || text == "" {
		return domain.Note{}, false
	}
	s := e.state.CurrentShift
	n := domain.Note{ID: e.newID(), Timestamp: e.now(), Text: text}
	s.Notes = append(s.Notes, n)
	e.commit(ctx, events.NoteAdd, "note", n.ID, events.EventPayload{"shift_id": s.ID})
	return n, true
}

func (e *Engine) ToggleNotesLock(ctx context.Context) bool {
	s := e.state.CurrentShift
	if s == nil {
		return false
	}
	s.NotesLocked = !s.NotesLocked
	e.commit(ctx, events.NotesLock, "shift", s.ID, events.EventPayload{"locked": s.NotesLocked})
	return true
}

// UpdateNote overwrites the text of an existing note. Callers only offer it
// while notes are unlocked.
func (e *Engine) UpdateNote(ctx context.Context, id, text string) bool {
	s := e.state.CurrentShift
	if s == nil {
		return false
	}
	i := s.NoteIndex(id)
	if i < 0 {
		return false
	}
	s.Notes[i].Text = text
	e.commit(ctx, events.NoteUpdate, "note", id, events.EventPayload{"shift_id": s.ID})
	return true
}

func (e *Engine) DeleteNote(ctx context.Context, id string) bool {
	s := e.state.CurrentShift
	if s == nil {
		return false
	}
	i := s.NoteIndex(id)
	if i < 0 {
		return false
	}
	s.Notes = append(s.Notes[:i], s.Notes[i+1:]...)
	e.commit(ctx, events.NoteDelete, "note", id, events.EventPayload{"shift_id": s.ID})
	return true
}
