//go:build !test

// Code coverage for main is ignored; the command itself is tested in internal/server.
package main

import (
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/poke/internal/api"
	"github.com/jbweber/homelab/poke/internal/config"
	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/migrations"
	"github.com/jbweber/homelab/poke/internal/security"
	"github.com/jbweber/homelab/poke/internal/server"
)

func main() {
	os.Exit(server.Execute(server.Service{
		Name:       "pokeusers",
		Port:       "8081",
		Migrations: migrations.GetPokeUsersMigrations,
		Mount: func(r chi.Router, ds *datastore.Datastore, cfg *config.Config) {
			hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
			api.NewUsersAPI(ds, hasher).RegisterRoutes(r)
		},
	}))
}
