package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagEndpoints(t *testing.T) {
	engine, db := newTestServer(t)
	alice := register(t, engine, "alice")
	admin := register(t, engine, "root")
	promoteAdmin(t, db, admin.ID)

	w := do(t, engine, http.MethodGet, "/api/tags", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	body := `{"name":"Breakfast","color":"#AABB00","slug":"breakfast"}`

	w = do(t, engine, http.MethodPost, "/api/tags", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, engine, http.MethodPost, "/api/tags", body, alice.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, engine, http.MethodPost, "/api/tags", body, admin.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tag struct {
		ID   uuid.UUID `json:"id"`
		Slug string    `json:"slug"`
	}
	decode(t, w, &tag)
	assert.Equal(t, "breakfast", tag.Slug)

	// Duplicate slug and malformed color are both rejected.
	w = do(t, engine, http.MethodPost, "/api/tags", body, admin.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, engine, http.MethodPost, "/api/tags",
		`{"name":"Lunch","color":"red","slug":"lunch"}`, admin.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/tags/"+tag.ID.String(), "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/api/tags/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredientEndpoints(t *testing.T) {
	engine, db := newTestServer(t)
	alice := register(t, engine, "alice")
	admin := register(t, engine, "root")
	promoteAdmin(t, db, admin.ID)

	seedCatalogIngredient(t, db, "salt", "g")
	seedCatalogIngredient(t, db, "sugar", "g")
	seedCatalogIngredient(t, db, "egg", "pcs")

	w := do(t, engine, http.MethodGet, "/api/ingredients?name=sa", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var found []struct {
		Name string `json:"name"`
	}
	decode(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "salt", found[0].Name)

	w = do(t, engine, http.MethodGet, "/api/ingredients", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &found)
	assert.Len(t, found, 3)

	body := `{"name":"flour","measurement_unit":"g"}`
	w = do(t, engine, http.MethodPost, "/api/ingredients", body, alice.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, engine, http.MethodPost, "/api/ingredients", body, admin.Token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, engine, http.MethodPost, "/api/ingredients", body, admin.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
