package repository

import (
	"context"
)

// BaseRepository implements Repository over a Table for model M. The
// conversion functions are the only per-resource customisation: toModel
// builds the stored record from caller input and toOutput shapes a stored
// record for callers.
type BaseRepository[M, In, Out any] struct {
	entity   string
	table    Table[M]
	toModel  func(context.Context, In) (M, error)
	toOutput func(M) Out
}

// NewBaseRepository creates a new generic repository
func NewBaseRepository[M, In, Out any](
	entity string,
	table Table[M],
	toModel func(context.Context, In) (M, error),
	toOutput func(M) Out,
) *BaseRepository[M, In, Out] {
	return &BaseRepository[M, In, Out]{
		entity:   entity,
		table:    table,
		toModel:  toModel,
		toOutput: toOutput,
	}
}

// PassThrough is the toModel function for resources stored as supplied
func PassThrough[T any](_ context.Context, in T) (T, error) {
	return in, nil
}

// Same is the toOutput function for resources returned as stored
func Same[T any](m T) T {
	return m
}

// Entity returns the entity name used in errors
func (r *BaseRepository[M, In, Out]) Entity() string {
	return r.entity
}

// Create persists a new entity. Conversion errors are returned unchanged;
// storage failures are wrapped in a StorageError.
func (r *BaseRepository[M, In, Out]) Create(ctx context.Context, in In) (Out, error) {
	var zero Out
	m, err := r.toModel(ctx, in)
	if err != nil {
		return zero, err
	}
	stored, err := r.table.Insert(ctx, m)
	if err != nil {
		return zero, &StorageError{Op: "create", Entity: r.entity, Err: err}
	}
	return r.toOutput(stored), nil
}

// Get retrieves an entity by its ID
func (r *BaseRepository[M, In, Out]) Get(ctx context.Context, id int64) (Out, bool, error) {
	var zero Out
	m, found, err := r.table.FindByID(ctx, id)
	if err != nil {
		return zero, false, &StorageError{Op: "get", Entity: r.entity, Err: err}
	}
	if !found {
		return zero, false, nil
	}
	return r.toOutput(m), true, nil
}

// GetAll retrieves all entities
func (r *BaseRepository[M, In, Out]) GetAll(ctx context.Context) ([]Out, error) {
	rows, err := r.table.ScanAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Entity: r.entity, Err: err}
	}
	out := make([]Out, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.toOutput(m))
	}
	return out, nil
}

// Exists checks if an entity exists by its ID
func (r *BaseRepository[M, In, Out]) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.table.ExistsByID(ctx, id)
	if err != nil {
		return false, &StorageError{Op: "check", Entity: r.entity, Err: err}
	}
	return exists, nil
}

// Update replaces the entity at id
func (r *BaseRepository[M, In, Out]) Update(ctx context.Context, in In, id int64) (Out, error) {
	var zero Out
	m, err := r.toModel(ctx, in)
	if err != nil {
		return zero, err
	}
	stored, found, err := r.table.ReplaceByID(ctx, id, m)
	if err != nil {
		return zero, &StorageError{Op: "update", Entity: r.entity, Err: err}
	}
	if !found {
		return zero, &NotFoundError{Entity: r.entity, ID: id}
	}
	return r.toOutput(stored), nil
}

// Delete removes an entity by its ID. Deleting an absent entity is not an error.
func (r *BaseRepository[M, In, Out]) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := r.table.DeleteByID(ctx, id)
	if err != nil {
		return false, &StorageError{Op: "delete", Entity: r.entity, Err: err}
	}
	return removed, nil
}
