package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
)

func TestShoppingListAggregatesAcrossRecipes(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	alice := seedUser(t, db, "alice")

	salt := seedIngredient(t, db, "salt", "g")
	egg := seedIngredient(t, db, "egg", "pcs")

	a := seedRecipe(t, db, alice, "recipe-a", time.Now(), nil,
		seedAmount{salt, 2}, seedAmount{egg, 1})
	b := seedRecipe(t, db, alice, "recipe-b", time.Now(), nil,
		seedAmount{salt, 3})

	addMembership(t, db, models.KindShoppingCart, alice.ID, a.ID)
	addMembership(t, db, models.KindShoppingCart, alice.ID, b.ID)

	text, err := svc.Build(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Equal(t, "Shopping list for alice:\negg (pcs) - 1\nsalt (g) - 5\n", text)
}

func TestShoppingListSameNameDifferentUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	alice := seedUser(t, db, "alice")

	flourG := seedIngredient(t, db, "flour", "g")
	flourCups := seedIngredient(t, db, "flour", "cups")

	r := seedRecipe(t, db, alice, "bread", time.Now(), nil,
		seedAmount{flourCups, 2}, seedAmount{flourG, 500})
	addMembership(t, db, models.KindShoppingCart, alice.ID, r.ID)

	text, err := svc.Build(context.Background(), alice.ID)
	require.NoError(t, err)

	// Same name but different unit stays separate; ties on name are
	// ordered by summed amount.
	assert.Equal(t, "Shopping list for alice:\nflour (cups) - 2\nflour (g) - 500\n", text)
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	alice := seedUser(t, db, "alice")

	_, err := svc.Build(context.Background(), alice.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestShoppingListIgnoresFavorites(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	alice := seedUser(t, db, "alice")

	salt := seedIngredient(t, db, "salt", "g")
	r := seedRecipe(t, db, alice, "stew", time.Now(), nil, seedAmount{salt, 1})
	addMembership(t, db, models.KindFavorite, alice.ID, r.ID)

	_, err := svc.Build(context.Background(), alice.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestShoppingListOnlyOwnCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	salt := seedIngredient(t, db, "salt", "g")
	pepper := seedIngredient(t, db, "pepper", "g")

	mine := seedRecipe(t, db, alice, "mine", time.Now(), nil, seedAmount{salt, 4})
	theirs := seedRecipe(t, db, alice, "theirs", time.Now(), nil, seedAmount{pepper, 9})
	addMembership(t, db, models.KindShoppingCart, alice.ID, mine.ID)
	addMembership(t, db, models.KindShoppingCart, bob.ID, theirs.ID)

	text, err := svc.Build(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Contains(t, text, "salt (g) - 4")
	assert.NotContains(t, text, "pepper")
}
