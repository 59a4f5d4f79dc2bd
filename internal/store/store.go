// Package store provides a generic persistence layer over a single entity
// type, backed either by MySQL or by process memory.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")
)

// Store is the persistence contract shared by every entity type.
//
// Update semantics differ per entity, so there is no Update here: domain
// repositories stamp their own fields and call Save.
type Store[T any] interface {
	// Create persists a new entity. The schema's BeforeCreate hook may assign
	// an identifier and creation timestamp on the passed value.
	Create(ctx context.Context, entity *T) error

	// Get returns the entity with the given primary key or ErrNotFound.
	Get(ctx context.Context, id string, opts ...QueryOption) (T, error)

	// GetOne returns the first entity matching filter, in creation order, or
	// ErrNotFound. A nil filter matches everything.
	GetOne(ctx context.Context, filter Filter[T], opts ...QueryOption) (T, error)

	// GetAll returns a snapshot of all entities matching filter, in creation
	// order. The result is never nil.
	GetAll(ctx context.Context, filter Filter[T]) ([]T, error)

	// Save overwrites the stored entity that has the same primary key.
	Save(ctx context.Context, entity T) error

	// Remove deletes the entity physically. Returns ErrNotFound if absent.
	Remove(ctx context.Context, entity T) error
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Schema describes how an entity type maps onto storage.
type Schema[T any] struct {
	// Table is the relational table name.
	Table string
	// Columns lists the table columns; Columns[0] is the primary key.
	Columns []string
	// ID returns the primary key of an entity.
	ID func(T) string
	// Values returns column values in Columns order.
	Values func(T) ([]any, error)
	// Scan reads one row selected in Columns order.
	Scan func(Scanner) (T, error)
	// BeforeCreate runs before an insert with the store's current time.
	BeforeCreate func(entity *T, now time.Time)
	// Clone deep-copies an entity. Needed by the memory backend for types
	// holding slices or pointers.
	Clone func(T) T
	// UniqueKeys lists values that must be unique across the store. The
	// memory backend enforces them; MySQL relies on table indexes.
	UniqueKeys func(T) []string
}

type queryOptions struct {
	tracked bool
}

// QueryOption tunes a single read.
type QueryOption func(*queryOptions)

// NoTracking marks a read whose result will not be written back through the
// same handle. MySQL serves it from a read-only transaction.
func NoTracking() QueryOption {
	return func(o *queryOptions) {
		o.tracked = false
	}
}

func applyOptions(opts []QueryOption) queryOptions {
	o := queryOptions{tracked: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
