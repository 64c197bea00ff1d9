package shiftlogsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal shiftlog HTTP API client.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/v0",
		Timeout:  10 * time.Second,
	}
}

// Note is a free-text entry on a shift.
type Note struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// Patrol is one of the five patrol slots with its capability flags.
type Patrol struct {
	Index      int        `json:"index"`
	State      string     `json:"state"`
	StartTime  *time.Time `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	DurationMs int64      `json:"durationMs"`
	CanStart   bool       `json:"canStart"`
	CanEnd     bool       `json:"canEnd"`
}

type Counter struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Value        int    `json:"value"`
	CanIncrement bool   `json:"canIncrement"`
	CanDecrement bool   `json:"canDecrement"`
}

// Shift is the current shift as seen by the read model.
type Shift struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	State       string     `json:"state"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	ElapsedMs   int64      `json:"elapsedMs"`
	Patrols     []Patrol   `json:"patrols"`
	Counters    []Counter  `json:"counters"`
	Notes       []Note     `json:"notes"`
	NotesLocked bool       `json:"notesLocked"`
}

type PatrolLine struct {
	Index      int        `json:"index"`
	State      string     `json:"state"`
	StartTime  *time.Time `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	DurationMs int64      `json:"durationMs"`
}

// Summary describes the last completed shift. Empty is set when there is none.
type Summary struct {
	Empty           bool         `json:"empty"`
	ShiftID         string       `json:"shiftId"`
	Date            string       `json:"date"`
	StartTime       *time.Time   `json:"startTime"`
	EndTime         *time.Time   `json:"endTime"`
	ShiftDurationMs int64        `json:"shiftDurationMs"`
	TotalPatrolMs   int64        `json:"totalPatrolMs"`
	Patrols         []PatrolLine `json:"patrols"`
	Engagements     int          `json:"engagements"`
	StreetDrinkers  int          `json:"streetDrinkers"`
	ASBIncidents    int          `json:"asbIncidents"`
	Sentence        string       `json:"sentence"`
}

type View struct {
	ShiftState     string  `json:"shiftState"`
	Current        *Shift  `json:"currentShift"`
	LastCompleted  Summary `json:"lastCompleted"`
	CanStartShift  bool    `json:"canStartShift"`
	CanEndShift    bool    `json:"canEndShift"`
	CanAddNote     bool    `json:"canAddNote"`
	CanEditNotes   bool    `json:"canEditNotes"`
	CanDeleteNotes bool    `json:"canDeleteNotes"`
	CanToggleLock  bool    `json:"canToggleLock"`
	CanReset       bool    `json:"canReset"`
}

// Result is returned by every mutation.
type Result struct {
	Applied bool  `json:"applied"`
	Note    *Note `json:"note,omitempty"`
	View    View  `json:"view"`
}

// Event represents a journal entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

func (c *Client) View(ctx context.Context) (View, error) {
	var resp View
	err := c.do(ctx, http.MethodGet, "view", nil, &resp)
	return resp, err
}

func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var resp Summary
	err := c.do(ctx, http.MethodGet, "summary", nil, &resp)
	return resp, err
}

func (c *Client) StartShift(ctx context.Context) (Result, error) {
	return c.mutate(ctx, http.MethodPost, "shift/start", nil)
}

func (c *Client) EndShift(ctx context.Context) (Result, error) {
	return c.mutate(ctx, http.MethodPost, "shift/end", nil)
}

// StartPatrol starts patrol number (1-5).
func (c *Client) StartPatrol(ctx context.Context, number int) (Result, error) {
	return c.mutate(ctx, http.MethodPost, fmt.Sprintf("patrols/%d/start", number), nil)
}

// EndPatrol ends patrol number (1-5).
func (c *Client) EndPatrol(ctx context.Context, number int) (Result, error) {
	return c.mutate(ctx, http.MethodPost, fmt.Sprintf("patrols/%d/end", number), nil)
}

func (c *Client) Increment(ctx context.Context, counter string) (Result, error) {
	return c.mutate(ctx, http.MethodPost, "counters/"+url.PathEscape(counter)+"/increment", nil)
}

func (c *Client) Decrement(ctx context.Context, counter string) (Result, error) {
	return c.mutate(ctx, http.MethodPost, "counters/"+url.PathEscape(counter)+"/decrement", nil)
}

func (c *Client) SetCounter(ctx context.Context, counter string, value int) (Result, error) {
	return c.mutate(ctx, http.MethodPut, "counters/"+url.PathEscape(counter), map[string]any{"value": value})
}

func (c *Client) AddNote(ctx context.Context, text string) (Result, error) {
	return c.mutate(ctx, http.MethodPost, "notes", map[string]any{"text": text})
}

func (c *Client) EditNote(ctx context.Context, id, text string) (Result, error) {
	return c.mutate(ctx, http.MethodPatch, "notes/"+url.PathEscape(id), map[string]any{"text": text})
}

func (c *Client) DeleteNote(ctx context.Context, id string) (Result, error) {
	return c.mutate(ctx, http.MethodDelete, "notes/"+url.PathEscape(id), nil)
}

func (c *Client) ToggleNotesLock(ctx context.Context) (Result, error) {
	return c.mutate(ctx, http.MethodPost, "notes/lock", nil)
}

// Reset clears all shift data. The server refuses unless confirm is true.
func (c *Client) Reset(ctx context.Context, confirm bool) (Result, error) {
	return c.mutate(ctx, http.MethodPost, fmt.Sprintf("reset?confirm=%t", confirm), nil)
}

// Events returns recent journal events, newest first.
func (c *Client) Events(ctx context.Context, limit int, evtType string) ([]Event, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if evtType != "" {
		q.Set("type", evtType)
	}
	endpoint := "events"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp struct {
		Items []Event `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Items, err
}

func (c *Client) mutate(ctx context.Context, method, endpoint string, body any) (Result, error) {
	var resp Result
	err := c.do(ctx, method, endpoint, body, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	u := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var reader io.Reader = http.NoBody
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
		reader = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if p := strings.Trim(c.BasePath, "/"); p != "" {
		base += "/" + p
	}
	return base
}
