package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iudanet/shopfront/internal/storage"
)

var (
	// ErrNotFound is returned when no record has the requested id
	ErrNotFound = errors.New("record not found")

	// ErrIndexOutOfRange is returned when a display position does not exist
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Entity is a record addressable by a stable id
type Entity interface {
	GetID() string
	GetName() string
}

// Repository stores an ordered list of records under a single key.
// Every mutation reads the current list, applies the change and
// persists the whole list.
type Repository[T Entity] struct {
	json *storage.JSON
	key  string
	mu   sync.Mutex
}

// NewRepository creates a repository over key
func NewRepository[T Entity](json *storage.JSON, key string) *Repository[T] {
	return &Repository[T]{json: json, key: key}
}

// List returns all records in insertion order
func (r *Repository[T]) List(ctx context.Context) []T {
	items := []T{}
	r.json.Read(ctx, r.key, &items)
	return items
}

// Get returns the record with id
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	for _, item := range r.List(ctx) {
		if item.GetID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", r.key, id, ErrNotFound)
}

// Create appends rec to the end of the list
func (r *Repository[T]) Create(ctx context.Context, rec T) error {
	return r.Mutate(ctx, func(items []T) ([]T, error) {
		return append(items, rec), nil
	})
}

// Update replaces the record with id
func (r *Repository[T]) Update(ctx context.Context, id string, rec T) error {
	return r.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].GetID() == id {
				items[i] = rec
				return items, nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", r.key, id, ErrNotFound)
	})
}

// Delete removes the record with id
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].GetID() == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", r.key, id, ErrNotFound)
	})
}

// Replace overwrites the whole list
func (r *Repository[T]) Replace(ctx context.Context, items []T) error {
	return r.Mutate(ctx, func([]T) ([]T, error) {
		return items, nil
	})
}

// Mutate applies fn to the current list and persists the result.
// fn always receives the latest stored list.
func (r *Repository[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated, err := fn(r.List(ctx))
	if err != nil {
		return err
	}

	return r.json.Write(ctx, r.key, updated)
}

// IDAt resolves a position in a displayed list to the record id
func IDAt[T Entity](view []T, index int) (string, error) {
	if index < 0 || index >= len(view) {
		return "", fmt.Errorf("%d: %w", index, ErrIndexOutOfRange)
	}
	return view[index].GetID(), nil
}
