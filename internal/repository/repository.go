package repository

import "context"

// Repository defines the CRUD operations shared by every resource.
// In is the shape callers supply and Out the shape handed back to them.
type Repository[In, Out any] interface {
	// Create persists a new entity built from in
	Create(ctx context.Context, in In) (Out, error)

	// Get retrieves an entity by its ID
	// found is false (with a nil error) when the entity doesn't exist
	Get(ctx context.Context, id int64) (out Out, found bool, err error)

	// GetAll retrieves all entities ordered by ID
	GetAll(ctx context.Context) ([]Out, error)

	// Exists checks if an entity exists by its ID
	Exists(ctx context.Context, id int64) (bool, error)

	// Update replaces the whole entity at id with in
	// Returns a NotFoundError if the entity doesn't exist
	Update(ctx context.Context, in In, id int64) (Out, error)

	// Delete removes an entity and reports whether one was removed
	Delete(ctx context.Context, id int64) (bool, error)
}

// Table is the storage contract a repository is built on. The database
// assigns identifiers; the id field carried by M is ignored on writes.
type Table[M any] interface {
	Insert(ctx context.Context, m M) (M, error)
	FindByID(ctx context.Context, id int64) (M, bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ReplaceByID(ctx context.Context, id int64, m M) (M, bool, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	ScanAll(ctx context.Context) ([]M, error)
}
