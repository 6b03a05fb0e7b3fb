// Package records keeps haul's five collections in memory and mirrors every
// change to the key-value store.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/haul/internal/common"
	"github.com/Veraticus/haul/internal/service"
	"github.com/Veraticus/haul/internal/storage"
)

// Record is anything stored in a collection.
type Record interface {
	RecordID() string
}

// Collection holds one record type. Mutations update memory first and then
// write the whole collection. A failed write is logged and returned but the
// in-memory change stays.
type Collection[T Record] struct {
	store  service.KeyValueStore
	logger *slog.Logger
	key    string
	items  []T
	subs   map[int]func([]T)
	nextID int
	mu     sync.RWMutex
}

func newCollection[T Record](store service.KeyValueStore, key string, opts Options) *Collection[T] {
	return &Collection[T]{
		store:  store,
		key:    key,
		logger: opts.Logger.With("collection", key),
		subs:   make(map[int]func([]T)),
	}
}

// Load replaces the in-memory collection with what the store holds. A missing
// key is an empty collection. Any other failure is logged and also leaves the
// collection empty; the returned error wraps common.ErrLoadFailed.
func (c *Collection[T]) Load(ctx context.Context) error {
	items, err := c.read(ctx)

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	return err
}

func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		c.logger.Debug("collection not stored yet")
		return nil, nil
	}
	if err != nil {
		c.logger.Error("failed to load collection", "error", err)
		return nil, fmt.Errorf("%w: %s: %w", common.ErrLoadFailed, c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Error("failed to decode collection", "error", err)
		return nil, fmt.Errorf("%w: %s: %w", common.ErrLoadFailed, c.key, err)
	}

	c.logger.Debug("loaded collection", "count", len(items))
	return items, nil
}

// All returns a copy of every record in stored order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Subscribe registers fn to be called with a snapshot after every change. The
// returned function removes the subscription.
func (c *Collection[T]) Subscribe(fn func([]T)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Collection[T]) insert(ctx context.Context, item T) error {
	c.mu.Lock()
	for _, existing := range c.items {
		if existing.RecordID() == item.RecordID() {
			c.mu.Unlock()
			return fmt.Errorf("%w: %s", common.ErrDuplicateEntry, item.RecordID())
		}
	}
	c.items = append(c.items, item)
	c.mu.Unlock()

	return c.commit(ctx)
}

// replace swaps the record with the given id for fn's result.
func (c *Collection[T]) replace(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return zero, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	updated, err := fn(c.items[idx])
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}
	c.items[idx] = updated
	c.mu.Unlock()

	return updated, c.commit(ctx)
}

func (c *Collection[T]) remove(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	c.mu.Unlock()

	return c.commit(ctx)
}

// indexOf must be called with mu held.
func (c *Collection[T]) indexOf(id string) int {
	for i, item := range c.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

// commit notifies subscribers and writes the collection through.
func (c *Collection[T]) commit(ctx context.Context) error {
	snapshot := c.All()

	c.mu.RLock()
	subs := make([]func([]T), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}

	return c.save(ctx, snapshot)
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("failed to encode collection", "error", err)
		return fmt.Errorf("%w: %s: %w", common.ErrPersistFailed, c.key, err)
	}

	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.logger.Error("failed to save collection", "error", err, "count", len(items))
		return fmt.Errorf("%w: %s: %w", common.ErrPersistFailed, c.key, err)
	}

	return nil
}
