package shiftlogsdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method, path, query string
	body                map[string]any
}

func newFakeAPI(t *testing.T, status int, reply string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL), &calls
}

func TestMutationsHitExpectedRoutes(t *testing.T) {
	c, calls := newFakeAPI(t, http.StatusOK, `{"applied":true,"view":{"shiftState":"active","currentShift":{"id":"s1","patrols":[],"counters":[],"notes":[]},"lastCompleted":{"empty":true,"patrols":[],"sentence":"No completed shift yet."}}}`)
	ctx := context.Background()

	res, err := c.StartShift(ctx)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "s1", res.View.Current.ID)
	assert.True(t, res.View.LastCompleted.Empty)

	_, err = c.StartPatrol(ctx, 2)
	require.NoError(t, err)
	_, err = c.SetCounter(ctx, "asb", 3)
	require.NoError(t, err)
	_, err = c.EditNote(ctx, "n 1", "fixed")
	require.NoError(t, err)
	_, err = c.Reset(ctx, true)
	require.NoError(t, err)

	got := *calls
	require.Len(t, got, 5)
	assert.Equal(t, recorded{method: http.MethodPost, path: "/v0/shift/start"}, got[0])
	assert.Equal(t, "/v0/patrols/2/start", got[1].path)
	assert.Equal(t, http.MethodPut, got[2].method)
	assert.Equal(t, "/v0/counters/asb", got[2].path)
	assert.EqualValues(t, 3, got[2].body["value"])
	assert.Equal(t, http.MethodPatch, got[3].method)
	assert.Equal(t, "/v0/notes/n 1", got[3].path)
	assert.Equal(t, "fixed", got[3].body["text"])
	assert.Equal(t, "confirm=true", got[4].query)
}

func TestEventsQuery(t *testing.T) {
	c, calls := newFakeAPI(t, http.StatusOK, `{"items":[{"id":7,"type":"shift.end","entity_kind":"shift","payload":{"duration_ms":1000}}]}`)
	items, err := c.Events(context.Background(), 10, "shift.end")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, "limit=10&type=shift.end", (*calls)[0].query)
}

func TestAPIError(t *testing.T) {
	c, _ := newFakeAPI(t, http.StatusBadRequest, `{"error":{"code":"bad_request","message":"invalid patrol number 9: must be 1-5"}}`)
	_, err := c.StartPatrol(context.Background(), 9)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "must be 1-5")
}

func TestBasePathJoin(t *testing.T) {
	c := &Client{BaseURL: "http://localhost:8765/", BasePath: "/api/v0/"}
	assert.Equal(t, "http://localhost:8765/api/v0", c.base())
	c.BasePath = ""
	assert.Equal(t, "http://localhost:8765", c.base())
}
