package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// MembershipService toggles recipes in the per-user lists (favorites
// and shopping cart). One implementation serves both kinds.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// RecipeShort is the projection returned after adding a recipe to a
// list: just enough to render a list card.
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func listName(kind models.MembershipKind) string {
	if kind == models.KindFavorite {
		return "favorites"
	}
	return "shopping cart"
}

// Add inserts a (kind, user, recipe) row. The existence check is an
// early exit only; the unique index settles races, and a duplicate
// key on insert is reported as the same conflict.
func (s *MembershipService) Add(ctx context.Context, kind models.MembershipKind, userID, recipeID uuid.UUID) (*RecipeShort, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("kind = ? AND user_id = ? AND recipe_id = ?", kind, userID, recipeID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: recipe already in %s", ErrConflict, listName(kind))
	}

	row := models.Membership{Kind: kind, UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: recipe already in %s", ErrConflict, listName(kind))
		}
		return nil, err
	}

	return &RecipeShort{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}, nil
}

// Remove deletes a (kind, user, recipe) row.
func (s *MembershipService) Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return err
	}

	res := s.db.WithContext(ctx).
		Where("kind = ? AND user_id = ? AND recipe_id = ?", kind, userID, recipeID).
		Delete(&models.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe not in %s", ErrConflict, listName(kind))
	}
	return nil
}

// Set returns which of the given recipes are in the user's list of
// the given kind, for annotating listings in one query.
func (s *MembershipService) Set(ctx context.Context, kind models.MembershipKind, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return set, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("kind = ? AND user_id = ? AND recipe_id IN ?", kind, userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
