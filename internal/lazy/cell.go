// Package lazy provides a value that is built on first use.
package lazy

import (
	"context"
	"sync"
)

// Cell holds a value produced by its init function. The first successful
// init is kept for the life of the Cell; a failed init leaves the Cell empty
// so a later Get can try again. Concurrent callers serialize on the init.
type Cell[T any] struct {
	mu    sync.Mutex
	init  func(ctx context.Context) (T, error)
	value T
	ready bool
}

// New creates a Cell around init.
func New[T any](init func(ctx context.Context) (T, error)) *Cell[T] {
	return &Cell[T]{init: init}
}

// Get returns the cached value, running init if none is cached yet.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return c.value, nil
	}

	v, err := c.init(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.ready = true
	return v, nil
}

// Peek returns the cached value without initializing.
func (c *Cell[T]) Peek() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.ready
}
