package storage

import (
	"context"
	"sync"
)

// UpdateFunc derives the next value from the current one. Returning
// changed=false or a non-nil error leaves the cell untouched.
type UpdateFunc[T any] func(current T) (next T, changed bool, err error)

// Cell is an observable value persisted under a single key. Every change is
// written through to the store and then announced to subscribers.
type Cell[T any] struct {
	store *Store
	key   string

	mu        sync.Mutex
	value     T
	persisted bool
	subs      []subscription[T]
	nextID    int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewCell hydrates a cell from the store, falling back to defaultValue.
func NewCell[T any](ctx context.Context, store *Store, key string, defaultValue T) *Cell[T] {
	return &Cell[T]{
		store:     store,
		key:       key,
		value:     Read(ctx, store, key, defaultValue),
		persisted: true,
	}
}

// Key returns the storage key of the cell.
func (c *Cell[T]) Key() string {
	return c.key
}

// Get returns the current value. Callers must treat it as read-only.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Persisted reports whether the last change was written to the store. It is
// true until the first change.
func (c *Cell[T]) Persisted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persisted
}

// Set replaces the value, writes it through and notifies subscribers.
func (c *Cell[T]) Set(v T) {
	_ = c.Update(func(T) (T, bool, error) { return v, true, nil })
}

// Update runs fn under the cell lock, so concurrent read-modify-write cycles
// are serialized. Subscribers are called after the lock is released.
func (c *Cell[T]) Update(fn UpdateFunc[T]) error {
	c.mu.Lock()
	next, changed, err := fn(c.value)
	if err != nil || !changed {
		c.mu.Unlock()
		return err
	}
	c.value = next
	c.persisted = c.store.Write(context.Background(), c.key, next)
	subs := make([]subscription[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
	return nil
}

// Subscribe registers fn for future changes. The returned func cancels it.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}
