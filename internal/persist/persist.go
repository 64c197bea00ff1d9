package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shiftlog/internal/domain"
	"shiftlog/internal/store"
)

// DefaultKey is the fixed key the state blob lives under.
const DefaultKey = "shiftlog.state"

// Persister loads and stores the whole state blob.
type Persister interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, st domain.State) error
	Clear(ctx context.Context) error
}

// Adapter persists the state as JSON under one key of a KV store.
type Adapter struct {
	KV  store.KV
	Key string
}

func New(kv store.KV, key string) Adapter {
	if key == "" {
		key = DefaultKey
	}
	return Adapter{KV: kv, Key: key}
}

func (a Adapter) key() string {
	if a.Key == "" {
		return DefaultKey
	}
	return a.Key
}

// Load returns the empty state when nothing has been stored yet.
func (a Adapter) Load(ctx context.Context) (domain.State, error) {
	data, err := a.KV.Get(ctx, a.key())
	if errors.Is(err, store.ErrNotFound) {
		return domain.State{}, nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("read state: %w", err)
	}
	return Decode(data)
}

func (a Adapter) Save(ctx context.Context, st domain.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := a.KV.Set(ctx, a.key(), data); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (a Adapter) Clear(ctx context.Context) error {
	if err := a.KV.Delete(ctx, a.key()); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// Encode serializes the whole state.
func Encode(st domain.State) ([]byte, error) {
	data, err := json.Marshal(Normalize(st))
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob leniently and normalizes every shift in it.
// Only a blob that is not a JSON object is an error.
func Decode(data []byte) (domain.State, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.State{}, fmt.Errorf("parse state: %w", err)
	}
	if raw == nil {
		return domain.State{}, errors.New("parse state: not an object")
	}
	return domain.State{
		CurrentShift:       decodeShift(raw["currentShift"]),
		LastCompletedShift: decodeShift(raw["lastCompletedShift"]),
	}, nil
}
