// Package entries owns the load/append cycle over the persisted envelope.
//
// The whole envelope lives under one key and is rewritten on every append.
// Append is a plain read-modify-write: two overlapping calls can both read
// the same state and the later write drops the other's item. AppendAtomic
// closes that gap on stores that implement store.Versioned.
package entries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/idilsaglam/suru/internal/model"
	"github.com/idilsaglam/suru/internal/store"
)

// StorageKey is the one key the envelope is kept under.
const StorageKey = "suru"

// MaxAttempts bounds AppendAtomic's retry loop.
const MaxAttempts = 8

// ErrNotVersioned means the store cannot compare-and-swap.
var ErrNotVersioned = errors.New("entries: store does not support versioned writes")

// LoadStatus tells apart the cases Load folds into "empty".
type LoadStatus int

const (
	StatusFound LoadStatus = iota
	StatusMissing
	StatusCorrupt
	StatusUnreadable
)

func (s LoadStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusMissing:
		return "missing"
	case StatusCorrupt:
		return "corrupt"
	case StatusUnreadable:
		return "unreadable"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// Controller is safe to share; it keeps no state between calls.
type Controller struct {
	kv  store.KV
	key string
	now func() time.Time
}

type Option func(*Controller)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithKey stores the envelope under a different key.
func WithKey(key string) Option {
	return func(c *Controller) { c.key = key }
}

func New(kv store.KV, opts ...Option) *Controller {
	c := &Controller{kv: kv, key: StorageKey, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key returns the storage key in use.
func (c *Controller) Key() string { return c.key }

// Load returns the stored envelope. A missing, unreadable or unparsable
// value all come back as an empty envelope.
func (c *Controller) Load(ctx context.Context) model.Envelope {
	env, _, _ := c.Inspect(ctx)
	return env
}

// Inspect is Load with the outcome kept. The envelope is always usable;
// err carries the cause for StatusCorrupt and StatusUnreadable.
func (c *Controller) Inspect(ctx context.Context) (model.Envelope, LoadStatus, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, store.ErrNotFound) {
		return model.Empty(), StatusMissing, nil
	}
	if err != nil {
		return model.Empty(), StatusUnreadable, fmt.Errorf("read %s: %w", c.key, err)
	}
	env, err := Decode(raw)
	if err != nil {
		return model.Empty(), StatusCorrupt, err
	}
	return env, StatusFound, nil
}

// Append adds text with the current time and writes the whole envelope
// back. Text is not validated. Write errors are returned as-is (wrapped);
// on success the written envelope is returned.
func (c *Controller) Append(ctx context.Context, text string) (model.Envelope, error) {
	env := c.Load(ctx)
	env = c.push(env, text)
	raw, err := Encode(env)
	if err != nil {
		return model.Envelope{}, err
	}
	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		return model.Envelope{}, fmt.Errorf("write %s: %w", c.key, err)
	}
	return env, nil
}

// AppendAtomic is Append guarded by compare-and-swap. On a conflict it
// reloads and tries again, up to MaxAttempts times. An unparsable stored
// value is treated as empty and replaced, same as Append.
func (c *Controller) AppendAtomic(ctx context.Context, text string) (model.Envelope, error) {
	vkv, ok := c.kv.(store.Versioned)
	if !ok {
		return model.Envelope{}, ErrNotVersioned
	}
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		raw, version, err := vkv.GetVersioned(ctx, c.key)
		env := model.Empty()
		switch {
		case errors.Is(err, store.ErrNotFound):
			version = 0
		case err != nil:
			return model.Envelope{}, fmt.Errorf("read %s: %w", c.key, err)
		default:
			if decoded, derr := Decode(raw); derr == nil {
				env = decoded
			}
		}

		env = c.push(env, text)
		out, err := Encode(env)
		if err != nil {
			return model.Envelope{}, err
		}
		err = vkv.CompareAndSwap(ctx, c.key, out, version)
		if err == nil {
			return env, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return model.Envelope{}, fmt.Errorf("write %s: %w", c.key, err)
		}
		lastErr = err
	}
	return model.Envelope{}, fmt.Errorf("write %s after %d attempts: %w", c.key, MaxAttempts, lastErr)
}

func (c *Controller) push(env model.Envelope, text string) model.Envelope {
	items := make([]model.Item, 0, len(env.Items)+1)
	items = append(items, env.Items...)
	items = append(items, model.Item{Text: text, DateCreated: c.now().UnixMilli()})
	return model.Envelope{Items: items}
}

// Decode parses a stored envelope. JSON null and a missing or null items
// field decode to an empty envelope.
func Decode(raw string) (model.Envelope, error) {
	var env model.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return model.Empty(), fmt.Errorf("json unmarshal: %w", err)
	}
	if env.Items == nil {
		env.Items = []model.Item{}
	}
	return env, nil
}

// Encode serializes env in the stored format.
func Encode(env model.Envelope) (string, error) {
	if env.Items == nil {
		env.Items = []model.Item{}
	}
	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}
