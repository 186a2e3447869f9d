package repository

import (
	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/domain"
)

// PokeTypeSchema maps domain.PokeType onto the poke_types table
var PokeTypeSchema = datastore.Schema{
	Name:    "poke_types",
	Columns: []string{"name"},
}

// PokeTypeRepository handles the PokeType CRUD
type PokeTypeRepository struct {
	*BaseRepository[domain.PokeType, domain.PokeType, domain.PokeType]
}

// NewPokeTypeRepository creates a new type repository
func NewPokeTypeRepository(ds *datastore.Datastore) *PokeTypeRepository {
	table := datastore.NewTable[domain.PokeType](ds, PokeTypeSchema)
	return &PokeTypeRepository{
		BaseRepository: NewBaseRepository("PokeType", Table[domain.PokeType](table),
			PassThrough[domain.PokeType], Same[domain.PokeType]),
	}
}
