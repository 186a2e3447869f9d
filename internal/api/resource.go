package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/jbweber/homelab/poke/internal/repository"
)

// Check guards create and update against references to records that do
// not exist. Message is returned with a 422 when Exists reports false.
type Check[In any] struct {
	Exists  func(ctx context.Context, in In) (bool, error)
	Message string
}

// Resource groups the CRUD handlers for one repository
type Resource[In, Out any] struct {
	entity string
	store  repository.Repository[In, Out]
	checks []Check[In]
}

// NewResource creates the handlers for store. entity names the record in
// error messages.
func NewResource[In, Out any](entity string, store repository.Repository[In, Out], checks ...Check[In]) *Resource[In, Out] {
	return &Resource[In, Out]{
		entity: entity,
		store:  store,
		checks: checks,
	}
}

// Routes registers the handlers on r, normally a subrouter under the
// resource prefix
func (res *Resource[In, Out]) Routes(r chi.Router) {
	r.Get("/", res.ListHandler)
	r.Get("/{id}", res.GetHandler)
	r.Post("/create", res.CreateHandler)
	r.Put("/update/{id}", res.UpdateHandler)
	r.Delete("/delete/{id}", res.DeleteHandler)
}

// ListHandler handles GET /.
func (res *Resource[In, Out]) ListHandler(w http.ResponseWriter, r *http.Request) {
	items, err := res.store.GetAll(r.Context())
	if err != nil {
		writeRepositoryError(w, r, res.entity, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

// GetHandler handles GET /{id}. Returns 404 when no record has the id.
func (res *Resource[In, Out]) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, found, err := res.store.Get(r.Context(), id)
	if err != nil {
		writeRepositoryError(w, r, res.entity, err)
		return
	}
	if !found {
		writeRepositoryError(w, r, res.entity, repository.ErrNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, item)
}

// CreateHandler handles POST /create.
//
// Request: JSON body for In, validated by its struct tags.
// Returns 400 for an invalid body, 422 when a reference check fails and
// 409 on a uniqueness conflict.
func (res *Resource[In, Out]) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in In
	if !decode(w, r, &in) {
		return
	}
	if !res.runChecks(w, r, in) {
		return
	}

	created, err := res.store.Create(r.Context(), in)
	if err != nil {
		writeRepositoryError(w, r, res.entity, err)
		return
	}

	hlog.FromRequest(r).Debug().Str("entity", res.entity).Msg("created")
	writeJSON(w, r, http.StatusOK, created)
}

// UpdateHandler handles PUT /update/{id}. The record must exist (404)
// before the reference checks run (422).
func (res *Resource[In, Out]) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in In
	if !decode(w, r, &in) {
		return
	}

	exists, err := res.store.Exists(r.Context(), id)
	if err != nil {
		writeRepositoryError(w, r, res.entity, err)
		return
	}
	if !exists {
		writeRepositoryError(w, r, res.entity, repository.ErrNotFound)
		return
	}

	if !res.runChecks(w, r, in) {
		return
	}

	updated, err := res.store.Update(r.Context(), in, id)
	if err != nil {
		writeRepositoryError(w, r, res.entity, err)
		return
	}

	writeJSON(w, r, http.StatusOK, updated)
}

// DeleteHandler handles DELETE /delete/{id}. Returns true, or 404 when
// nothing was removed.
func (res *Resource[In, Out]) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	removed, err := res.store.Delete(r.Context(), id)
	if err != nil {
		writeRepositoryError(w, r, res.entity, err)
		return
	}
	if !removed {
		writeRepositoryError(w, r, res.entity, repository.ErrNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, true)
}

func (res *Resource[In, Out]) runChecks(w http.ResponseWriter, r *http.Request, in In) bool {
	for _, check := range res.checks {
		ok, err := check.Exists(r.Context(), in)
		if err != nil {
			writeRepositoryError(w, r, res.entity, err)
			return false
		}
		if !ok {
			writeError(w, r, http.StatusUnprocessableEntity, check.Message)
			return false
		}
	}
	return true
}
