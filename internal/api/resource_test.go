package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/poke/internal/domain"
	"github.com/jbweber/homelab/poke/internal/repository"
)

type mockTypesStore struct {
	types []domain.PokeType
	err   error
}

func (m *mockTypesStore) Create(_ context.Context, in domain.PokeType) (domain.PokeType, error) {
	if m.err != nil {
		return domain.PokeType{}, m.err
	}
	in.ID = int64(len(m.types) + 1)
	m.types = append(m.types, in)
	return in, nil
}

func (m *mockTypesStore) Get(_ context.Context, id int64) (domain.PokeType, bool, error) {
	if m.err != nil {
		return domain.PokeType{}, false, m.err
	}
	for _, pt := range m.types {
		if pt.ID == id {
			return pt, true, nil
		}
	}
	return domain.PokeType{}, false, nil
}

func (m *mockTypesStore) GetAll(context.Context) ([]domain.PokeType, error) {
	return m.types, m.err
}

func (m *mockTypesStore) Exists(ctx context.Context, id int64) (bool, error) {
	_, found, err := m.Get(ctx, id)
	return found, err
}

func (m *mockTypesStore) Update(_ context.Context, in domain.PokeType, id int64) (domain.PokeType, error) {
	if m.err != nil {
		return domain.PokeType{}, m.err
	}
	for i, pt := range m.types {
		if pt.ID == id {
			in.ID = id
			m.types[i] = in
			return in, nil
		}
	}
	return domain.PokeType{}, &repository.NotFoundError{Entity: "PokeType", ID: id}
}

func (m *mockTypesStore) Delete(_ context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for i, pt := range m.types {
		if pt.ID == id {
			m.types = append(m.types[:i], m.types[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newMockRouter(store repository.Repository[domain.PokeType, domain.PokeType], checks ...Check[domain.PokeType]) http.Handler {
	r := chi.NewRouter()
	r.Route("/poketype", NewResource("PokeType", store, checks...).Routes)
	return r
}

func TestResource_StorageErrorIsNotLeaked(t *testing.T) {
	store := &mockTypesStore{err: &repository.StorageError{Op: "list", Entity: "PokeType", Err: errors.New("disk I/O error at /var/lib/poke")}}
	h := newMockRouter(store)

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/poketype/", nil},
		{http.MethodGet, "/poketype/1", nil},
		{http.MethodPost, "/poketype/create", domain.PokeType{Name: "Fire"}},
		{http.MethodPut, "/poketype/update/1", domain.PokeType{Name: "Fire"}},
		{http.MethodDelete, "/poketype/delete/1", nil},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(t, h, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Internal Server Error", decodeBody[ErrorResponse](t, w).Error)
			assert.NotContains(t, w.Body.String(), "/var/lib/poke")
		})
	}
}

func TestResource_UpdateRacingDelete(t *testing.T) {
	store := &racingStore{mockTypesStore: &mockTypesStore{types: []domain.PokeType{{ID: 1, Name: "Fire"}}}}
	h := newMockRouter(store)

	w := do(t, h, http.MethodPut, "/poketype/update/1", domain.PokeType{Name: "Water"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PokeType not found.", decodeBody[ErrorResponse](t, w).Error)
}

// racingStore loses the record between the existence check and the update
type racingStore struct {
	*mockTypesStore
}

func (s *racingStore) Update(ctx context.Context, in domain.PokeType, id int64) (domain.PokeType, error) {
	if _, err := s.mockTypesStore.Delete(ctx, id); err != nil {
		return domain.PokeType{}, err
	}
	return s.mockTypesStore.Update(ctx, in, id)
}

func TestResource_CheckError(t *testing.T) {
	store := &mockTypesStore{}
	failing := Check[domain.PokeType]{
		Exists: func(context.Context, domain.PokeType) (bool, error) {
			return false, errors.New("lookup failed")
		},
		Message: "unused",
	}
	h := newMockRouter(store, failing)

	w := do(t, h, http.MethodPost, "/poketype/create", domain.PokeType{Name: "Fire"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, store.types)
}

func TestResource_ListEmpty(t *testing.T) {
	h := newMockRouter(&mockTypesStore{types: []domain.PokeType{}})

	w := do(t, h, http.MethodGet, "/poketype/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}
