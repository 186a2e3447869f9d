package repository

import (
	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/domain"
)

// PokeMoveSchema maps domain.PokeMove onto the poke_moves table
var PokeMoveSchema = datastore.Schema{
	Name:    "poke_moves",
	Columns: []string{"name", "effect", "type_id", "category"},
}

// PokeMoveRepository handles the PokeMove CRUD. Moves are stored and
// returned exactly as supplied; the type_id reference is not checked here.
type PokeMoveRepository struct {
	*BaseRepository[domain.PokeMove, domain.PokeMove, domain.PokeMove]
}

// NewPokeMoveRepository creates a new move repository
func NewPokeMoveRepository(ds *datastore.Datastore) *PokeMoveRepository {
	table := datastore.NewTable[domain.PokeMove](ds, PokeMoveSchema)
	return &PokeMoveRepository{
		BaseRepository: NewBaseRepository("PokeMove", Table[domain.PokeMove](table),
			PassThrough[domain.PokeMove], Same[domain.PokeMove]),
	}
}
