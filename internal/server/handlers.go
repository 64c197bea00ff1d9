package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"shiftlog/internal/domain"
	"shiftlog/internal/engine"
	"shiftlog/internal/summary"
)

type resultOutput struct {
	Body Result `json:"body"`
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerView(api huma.API, s *service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-view",
		Method:      http.MethodGet,
		Path:        "/view",
		Summary:     "Current state and allowed operations",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body ViewResponse `json:"body"`
	}, error) {
		return &struct {
			Body ViewResponse `json:"body"`
		}{Body: s.read()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/summary",
		Summary:     "Summary of the last completed shift",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body summary.Summary `json:"body"`
	}, error) {
		s.mu.Lock()
		sum := summary.Summarize(s.eng.State().LastCompletedShift)
		s.mu.Unlock()
		return &struct {
			Body summary.Summary `json:"body"`
		}{Body: sum}, nil
	})
}

func registerShift(api huma.API, s *service) {
	huma.Register(api, huma.Operation{
		OperationID: "start-shift",
		Method:      http.MethodPost,
		Path:        "/shift/start",
		Summary:     "Start a shift",
	}, func(ctx context.Context, _ *struct{}) (*resultOutput, error) {
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool { return e.StartShift(ctx) })}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "end-shift",
		Method:      http.MethodPost,
		Path:        "/shift/end",
		Summary:     "End the running shift",
	}, func(ctx context.Context, _ *struct{}) (*resultOutput, error) {
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool { return e.EndShift(ctx) })}, nil
	})
}

func registerPatrols(api huma.API, s *service) {
	type patrolPath struct {
		Number int `path:"number" doc:"Patrol number, 1-5"`
	}
	for _, action := range []struct {
		verb string
		do   func(*engine.Engine, context.Context, int) bool
	}{
		{"start", (*engine.Engine).StartPatrol},
		{"end", (*engine.Engine).EndPatrol},
	} {
		do := action.do
		huma.Register(api, huma.Operation{
			OperationID: action.verb + "-patrol",
			Method:      http.MethodPost,
			Path:        "/patrols/{number}/" + action.verb,
			Summary:     strings.ToUpper(action.verb[:1]) + action.verb[1:] + " a patrol",
			Errors:      []int{http.StatusBadRequest},
		}, func(ctx context.Context, input *patrolPath) (*resultOutput, error) {
			pos, err := domain.ParsePatrolNumber(input.Number)
			if err != nil {
				return nil, badRequest(err)
			}
			return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool {
				return do(e, ctx, pos)
			})}, nil
		})
	}
}

func registerCounters(api huma.API, s *service) {
	type counterPath struct {
		Name string `path:"name" doc:"engagements, street-drinkers or asb"`
	}
	for _, action := range []struct {
		verb string
		do   func(*engine.Engine, context.Context, domain.CounterName) bool
	}{
		{"increment", (*engine.Engine).Increment},
		{"decrement", (*engine.Engine).Decrement},
	} {
		do := action.do
		huma.Register(api, huma.Operation{
			OperationID: action.verb + "-counter",
			Method:      http.MethodPost,
			Path:        "/counters/{name}/" + action.verb,
			Summary:     strings.ToUpper(action.verb[:1]) + action.verb[1:] + " a counter",
			Errors:      []int{http.StatusBadRequest},
		}, func(ctx context.Context, input *counterPath) (*resultOutput, error) {
			name, err := domain.ParseCounterName(input.Name)
			if err != nil {
				return nil, badRequest(err)
			}
			return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool {
				return do(e, ctx, name)
			})}, nil
		})
	}

	huma.Register(api, huma.Operation{
		OperationID: "set-counter",
		Method:      http.MethodPut,
		Path:        "/counters/{name}",
		Summary:     "Set a counter; negative values store 0",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Name string `path:"name"`
		Body SetCounterRequest
	}) (*resultOutput, error) {
		name, err := domain.ParseCounterName(input.Name)
		if err != nil {
			return nil, badRequest(err)
		}
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool {
			return e.SetCounter(ctx, name, input.Body.Value)
		})}, nil
	})
}

func registerNotes(api huma.API, s *service) {
	huma.Register(api, huma.Operation{
		OperationID: "add-note",
		Method:      http.MethodPost,
		Path:        "/notes",
		Summary:     "Add a note to the current shift",
	}, func(ctx context.Context, input *struct {
		Body NoteTextRequest
	}) (*resultOutput, error) {
		var added *domain.Note
		res := s.mutate(func(e *engine.Engine) bool {
			n, ok := e.AddNote(ctx, input.Body.Text)
			if ok {
				added = &n
			}
			return ok
		})
		res.Note = added
		return &resultOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "edit-note",
		Method:      http.MethodPatch,
		Path:        "/notes/{id}",
		Summary:     "Edit a note; refused while notes are locked",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body NoteTextRequest
	}) (*resultOutput, error) {
		text := strings.TrimSpace(input.Body.Text)
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool {
			if text == "" || !e.State().CanEditNotes() {
				return false
			}
			return e.UpdateNote(ctx, input.ID, text)
		})}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-note",
		Method:      http.MethodDelete,
		Path:        "/notes/{id}",
		Summary:     "Delete a note; refused while notes are locked",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*resultOutput, error) {
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool {
			if !e.State().CanEditNotes() {
				return false
			}
			return e.DeleteNote(ctx, input.ID)
		})}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-notes-lock",
		Method:      http.MethodPost,
		Path:        "/notes/lock",
		Summary:     "Toggle the notes lock",
	}, func(ctx context.Context, _ *struct{}) (*resultOutput, error) {
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool { return e.ToggleNotesLock(ctx) })}, nil
	})
}

func registerReset(api huma.API, s *service) {
	huma.Register(api, huma.Operation{
		OperationID: "reset",
		Method:      http.MethodPost,
		Path:        "/reset",
		Summary:     "Clear all shift data; requires confirm=true",
	}, func(ctx context.Context, input *struct {
		Confirm bool `query:"confirm"`
	}) (*resultOutput, error) {
		confirm := func(context.Context, domain.State) bool { return input.Confirm }
		return &resultOutput{Body: s.mutate(func(e *engine.Engine) bool {
			return e.ResetAllData(ctx, confirm)
		})}, nil
	})
}

func registerEvents(api huma.API, s *service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent journal events",
	}, func(ctx context.Context, input *struct {
		Type       string `query:"type"`
		EntityKind string `query:"entity_kind" enum:"shift,patrol,note,state"`
		Limit      int    `query:"limit" default:"50"`
	}) (*struct {
		Body eventList `json:"body"`
	}, error) {
		if s.repo.DB == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "event journal not available", nil)
		}
		items, err := s.repo.LatestEvents(ctx, normalizeLimit(input.Limit), input.Type, input.EntityKind)
		if err != nil {
			return nil, internalError(err)
		}
		resp := eventList{Items: []EventResponse{}}
		for _, evt := range items {
			resp.Items = append(resp.Items, eventResponse(evt))
		}
		return &struct {
			Body eventList `json:"body"`
		}{Body: resp}, nil
	})
}
