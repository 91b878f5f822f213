package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

func TestAddToFavoritesThenDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	recipe := seedRecipe(t, db, alice, "pancakes", time.Now(), nil)

	short, err := svc.Add(context.Background(), models.KindFavorite, bob.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "pancakes", short.Name)
	assert.Equal(t, recipe.CookingTime, short.CookingTime)

	_, err = svc.Add(context.Background(), models.KindFavorite, bob.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// The same recipe can still go into the other list.
	_, err = svc.Add(context.Background(), models.KindShoppingCart, bob.ID, recipe.ID)
	assert.NoError(t, err)
}

func TestAddUnknownRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	bob := seedUser(t, db, "bob")

	_, err := svc.Add(context.Background(), models.KindFavorite, bob.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	recipe := seedRecipe(t, db, alice, "soup", time.Now(), nil)

	// Not in the cart yet.
	err := svc.Remove(context.Background(), models.KindShoppingCart, bob.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Add(context.Background(), models.KindShoppingCart, bob.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), models.KindShoppingCart, bob.ID, recipe.ID))

	err = svc.Remove(context.Background(), models.KindShoppingCart, bob.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRemoveUnknownRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	bob := seedUser(t, db, "bob")

	err := svc.Remove(context.Background(), models.KindFavorite, bob.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

// The unique index is the real arbiter: inserting the same row twice
// at the storage layer must fail regardless of application checks.
func TestMembershipUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	recipe := seedRecipe(t, db, alice, "salad", time.Now(), nil)

	first := models.Membership{Kind: models.KindFavorite, UserID: bob.ID, RecipeID: recipe.ID}
	require.NoError(t, db.Create(&first).Error)

	second := models.Membership{Kind: models.KindFavorite, UserID: bob.ID, RecipeID: recipe.ID}
	err := db.Create(&second).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected duplicated key, got %v", err)
}

func TestMembershipSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	r1 := seedRecipe(t, db, alice, "one", time.Now(), nil)
	r2 := seedRecipe(t, db, alice, "two", time.Now(), nil)
	addMembership(t, db, models.KindFavorite, bob.ID, r1.ID)

	set, err := svc.Set(context.Background(), models.KindFavorite, bob.ID, []uuid.UUID{r1.ID, r2.ID})
	require.NoError(t, err)
	assert.True(t, set[r1.ID])
	assert.False(t, set[r2.ID])
}
