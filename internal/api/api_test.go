package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/poke/internal/domain"
	"github.com/jbweber/homelab/poke/internal/testutil"
)

func newPokeRouter(t *testing.T, name string) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	NewPokeAPI(testutil.NewPokeAPIDatastore(t, name)).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func tackle() domain.PokeMove {
	return domain.PokeMove{Name: "Tackle", Effect: "Deals damage.", TypeID: 1, Category: domain.CategoryPhysical}
}

func TestPokeMove_CreateAndGet(t *testing.T) {
	h := newPokeRouter(t, "TestPokeMove_CreateAndGet")

	w := do(t, h, http.MethodPost, "/pokemove/create", tackle())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	created := decodeBody[domain.PokeMove](t, w)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Tackle", created.Name)
	assert.Equal(t, int64(1), created.TypeID)

	w = do(t, h, http.MethodGet, "/pokemove/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeBody[domain.PokeMove](t, w))

	w = do(t, h, http.MethodGet, "/pokemove/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.PokeMove{created}, decodeBody[[]domain.PokeMove](t, w))
}

func TestPokeMove_CreateUnknownType(t *testing.T) {
	h := newPokeRouter(t, "TestPokeMove_CreateUnknownType")

	move := tackle()
	move.TypeID = 999
	w := do(t, h, http.MethodPost, "/pokemove/create", move)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid type_id (PokeType).", decodeBody[ErrorResponse](t, w).Error)

	// Nothing was written
	w = do(t, h, http.MethodGet, "/pokemove/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestPokeMove_CreateInvalidBody(t *testing.T) {
	h := newPokeRouter(t, "TestPokeMove_CreateInvalidBody")

	w := do(t, h, http.MethodPost, "/pokemove/create", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON", decodeBody[ErrorResponse](t, w).Error)

	move := tackle()
	move.Category = "magic"
	move.Name = ""
	w = do(t, h, http.MethodPost, "/pokemove/create", move)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Error: "is required"},
		{Field: "category", Error: "must be one of: physical special status"},
	}, resp.Fields)
}

func TestPokeMove_GetMissing(t *testing.T) {
	h := newPokeRouter(t, "TestPokeMove_GetMissing")

	w := do(t, h, http.MethodGet, "/pokemove/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PokeMove not found.", decodeBody[ErrorResponse](t, w).Error)

	w = do(t, h, http.MethodGet, "/pokemove/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/pokemove/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPokeMove_Update(t *testing.T) {
	h := newPokeRouter(t, "TestPokeMove_Update")

	w := do(t, h, http.MethodPost, "/pokemove/create", tackle())
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeBody[domain.PokeMove](t, w)

	ember := domain.PokeMove{Name: "Ember", Effect: "May burn.", TypeID: 10, Category: domain.CategorySpecial}
	w = do(t, h, http.MethodPut, "/pokemove/update/1", ember)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[domain.PokeMove](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ember", updated.Name)
	assert.Equal(t, int64(10), updated.TypeID)

	// Missing move is reported before the type check
	bad := ember
	bad.TypeID = 999
	w = do(t, h, http.MethodPut, "/pokemove/update/77", bad)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PokeMove not found.", decodeBody[ErrorResponse](t, w).Error)

	w = do(t, h, http.MethodPut, "/pokemove/update/1", bad)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The rejected update left the row alone
	w = do(t, h, http.MethodGet, "/pokemove/1", nil)
	assert.Equal(t, updated, decodeBody[domain.PokeMove](t, w))
}

func TestPokeMove_Delete(t *testing.T) {
	h := newPokeRouter(t, "TestPokeMove_Delete")

	w := do(t, h, http.MethodPost, "/pokemove/create", tackle())
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodDelete, "/pokemove/delete/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true\n", w.Body.String())

	w = do(t, h, http.MethodDelete, "/pokemove/delete/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PokeMove not found.", decodeBody[ErrorResponse](t, w).Error)
}

func TestPokeType_CRUD(t *testing.T) {
	h := newPokeRouter(t, "TestPokeType_CRUD")

	w := do(t, h, http.MethodGet, "/poketype/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	types := decodeBody[[]domain.PokeType](t, w)
	require.Len(t, types, 18)
	assert.Equal(t, "Normal", types[0].Name)

	w = do(t, h, http.MethodPost, "/poketype/create", domain.PokeType{Name: "Stellar"})
	require.Equal(t, http.StatusOK, w.Code)
	stellar := decodeBody[domain.PokeType](t, w)
	assert.Equal(t, int64(19), stellar.ID)

	w = do(t, h, http.MethodPost, "/poketype/create", domain.PokeType{Name: "Stellar"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PokeType already exists.", decodeBody[ErrorResponse](t, w).Error)

	w = do(t, h, http.MethodDelete, "/poketype/delete/19", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPokeType_DeleteReferenced(t *testing.T) {
	h := newPokeRouter(t, "TestPokeType_DeleteReferenced")

	w := do(t, h, http.MethodPost, "/pokemove/create", tackle())
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodDelete, "/poketype/delete/1", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, "/poketype/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
