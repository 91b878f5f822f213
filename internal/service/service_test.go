package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testhelpers.NewSQLiteDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return &user
}

func seedAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := seedUser(t, db, username)
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote user %s: %v", username, err)
	}
	user.Role = models.RoleAdmin
	return user
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "#FF0000", Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag %s: %v", name, err)
	}
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("failed to seed ingredient %s: %v", name, err)
	}
	return ing
}

type seedAmount struct {
	ingredient models.Ingredient
	amount     int
}

func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, publishedAt time.Time, tags []models.Tag, amounts ...seedAmount) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "instructions for " + name,
		CookingTime: 10,
		CreatedAt:   publishedAt,
		Tags:        tags,
	}
	for _, a := range amounts {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientID: a.ingredient.ID,
			Amount:       a.amount,
		})
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to seed recipe %s: %v", name, err)
	}
	return &recipe
}

func addMembership(t *testing.T, db *gorm.DB, kind models.MembershipKind, userID, recipeID uuid.UUID) {
	t.Helper()
	row := models.Membership{Kind: kind, UserID: userID, RecipeID: recipeID}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed membership: %v", err)
	}
}

func recipeNames(recipes []models.Recipe) []string {
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	return names
}
