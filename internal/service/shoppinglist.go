package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// ShoppingListService collapses all recipes in a user's cart into a
// per-ingredient quantity report.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

type shoppingLine struct {
	Name  string
	Unit  string
	Total int64
}

// Build returns the plain-text shopping list for the user, or
// ErrEmptyCart when the cart holds no recipes. Quantities of the
// same (name, unit) ingredient are summed across recipes. Lines are
// sorted by ingredient name, ties broken by summed amount.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user", ErrNotFound)
		}
		return "", err
	}

	var inCart int64
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("kind = ? AND user_id = ?", models.KindShoppingCart, userID).
		Count(&inCart).Error
	if err != nil {
		return "", err
	}
	if inCart == 0 {
		return "", ErrEmptyCart
	}

	var lines []shoppingLine
	err = s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN memberships ON memberships.recipe_id = recipe_ingredients.recipe_id").
		Where("memberships.kind = ? AND memberships.user_id = ?", models.KindShoppingCart, userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Scan(&lines).Error
	if err != nil {
		return "", err
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Total < lines[j].Total
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n", user.Username)
	for _, line := range lines {
		fmt.Fprintf(&b, "%s (%s) - %d\n", line.Name, line.Unit, line.Total)
	}
	return b.String(), nil
}

// Filename returns the attachment name identifying the requesting user.
func (s *ShoppingListService) Filename(username string) string {
	return fmt.Sprintf("shopping_cart_%s.txt", username)
}
