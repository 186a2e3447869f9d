package api

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/domain"
	"github.com/jbweber/homelab/poke/internal/repository"
	"github.com/jbweber/homelab/poke/internal/security"
)

// PokeAPI serves moves and types
type PokeAPI struct {
	moves repository.Repository[domain.PokeMove, domain.PokeMove]
	types repository.Repository[domain.PokeType, domain.PokeType]
}

// NewPokeAPI creates the move and type repositories over ds
func NewPokeAPI(ds *datastore.Datastore) *PokeAPI {
	return &PokeAPI{
		moves: repository.NewPokeMoveRepository(ds),
		types: repository.NewPokeTypeRepository(ds),
	}
}

// RegisterRoutes registers the /pokemove and /poketype endpoints
func (a *PokeAPI) RegisterRoutes(r chi.Router) {
	// A move's type must exist before the move is written
	typeExists := Check[domain.PokeMove]{
		Exists: func(ctx context.Context, m domain.PokeMove) (bool, error) {
			return a.types.Exists(ctx, m.TypeID)
		},
		Message: "Invalid type_id (PokeType).",
	}

	r.Route("/pokemove", NewResource("PokeMove", a.moves, typeExists).Routes)
	r.Route("/poketype", NewResource("PokeType", a.types).Routes)
}

// UsersAPI serves user accounts
type UsersAPI struct {
	users *repository.UserRepository
}

// NewUsersAPI creates the user repository over ds, hashing with hasher
func NewUsersAPI(ds *datastore.Datastore, hasher security.Hasher) *UsersAPI {
	return &UsersAPI{
		users: repository.NewUserRepository(ds, hasher),
	}
}

// RegisterRoutes registers the /user endpoints
func (a *UsersAPI) RegisterRoutes(r chi.Router) {
	login := NewLogin(a.users)
	users := NewResource[domain.UserIn, domain.UserOut]("User", a.users)

	r.Route("/user", func(r chi.Router) {
		r.Post("/login", login.LoginHandler)
		users.Routes(r)
	})
}
