package portal

import (
	"context"
	"fmt"
	"sync"
)

// Keyed is an item with a server-assigned id
type Keyed interface {
	Key() string
}

// UnknownActionError is returned for an action the queue cannot perform
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

// Queue is a work-list snapshot. An item leaves the local list only after
// the server accepted the action on it; failures leave the list untouched
// and nothing is retried.
type Queue[T Keyed] struct {
	fetch func(ctx context.Context) ([]T, error)
	act   func(ctx context.Context, id, action string) error

	mu    sync.RWMutex
	items []T
}

func NewQueue[T Keyed](
	fetch func(ctx context.Context) ([]T, error),
	act func(ctx context.Context, id, action string) error,
) *Queue[T] {
	return &Queue[T]{fetch: fetch, act: act}
}

// Refresh replaces the snapshot. On error the previous snapshot is kept.
func (q *Queue[T]) Refresh(ctx context.Context) error {
	items, err := q.fetch(ctx)
	if err != nil {
		return err
	}

	q.mu.Lock()
	q.items = items
	q.mu.Unlock()
	return nil
}

// Items returns a copy of the snapshot
func (q *Queue[T]) Items() []T {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]T(nil), q.items...)
}

func (q *Queue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Act performs action on id and drops the item once the server succeeds
func (q *Queue[T]) Act(ctx context.Context, id, action string) error {
	if err := q.act(ctx, id, action); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i, item := range q.items {
		if item.Key() == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			break
		}
	}
	return nil
}
