package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RecipeService handles recipe CRUD and listing.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmount references an ingredient with its quantity.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries a full recipe submission.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeUpdate carries a partial update; nil fields are unchanged.
// Non-nil TagIDs/Ingredients replace the previous associations.
type RecipeUpdate struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// List returns one page of recipes matching the filter together with
// the total number of matches.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter, page, limit int) ([]models.Recipe, int64, error) {
	sub := f.Apply(s.db.WithContext(ctx)).Select("recipes.id")
	var total int64
	if err := s.db.WithContext(ctx).Table("(?) AS filtered", sub).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := f.Apply(s.db.WithContext(ctx)).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// Get returns a recipe with its associations loaded.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: recipe", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create validates the submission and stores the recipe with its tag
// and ingredient associations in one transaction.
func (s *RecipeService) Create(ctx context.Context, author *models.User, in RecipeInput) (*models.Recipe, error) {
	if err := s.validateCommon(ctx, in.CookingTime, in.TagIDs, in.Ingredients, true); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        in.Name,
		Text:        in.Text,
		Image:       in.Image,
		CookingTime: in.CookingTime,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := s.setTags(tx, &recipe, in.TagIDs); err != nil {
			return err
		}
		return s.setIngredients(tx, &recipe, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Update applies a partial update. Only the author or an admin may
// modify a recipe.
func (s *RecipeService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in RecipeUpdate) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModifyRecipe(actor, recipe) {
		return nil, fmt.Errorf("%w: only the author or an admin can modify a recipe", ErrPermission)
	}

	cookingTime := recipe.CookingTime
	if in.CookingTime != nil {
		cookingTime = *in.CookingTime
	}
	if err := s.validateCommon(ctx, cookingTime, in.TagIDs, in.Ingredients, false); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Text != nil {
		updates["text"] = *in.Text
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.CookingTime != nil {
		updates["cooking_time"] = *in.CookingTime
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.TagIDs != nil {
			if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
				return err
			}
			if err := s.setTags(tx, recipe, in.TagIDs); err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			return s.setIngredients(tx, recipe, in.Ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a recipe; membership rows and ingredient joins go
// with it via the cascade constraints.
func (s *RecipeService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanModifyRecipe(actor, recipe) {
		return fmt.Errorf("%w: only the author or an admin can delete a recipe", ErrPermission)
	}
	return s.db.WithContext(ctx).Select("Ingredients").Delete(recipe).Error
}

// CanModifyRecipe implements the mutation permission rule: the
// recipe's author, or a caller with admin/staff standing.
func CanModifyRecipe(actor *models.User, recipe *models.Recipe) bool {
	if actor == nil {
		return false
	}
	return actor.ID == recipe.AuthorID || actor.IsAdmin()
}

// validateCommon checks bounds, duplicates and referential existence
// for a submission. On create, tags and ingredients are required; on
// update a nil slice means "leave unchanged" and is skipped.
func (s *RecipeService) validateCommon(ctx context.Context, cookingTime int, tagIDs []uuid.UUID, ingredients []IngredientAmount, required bool) error {
	if cookingTime < 1 || cookingTime > models.MaxAmount {
		return fmt.Errorf("%w: cooking_time must be between 1 and %d", ErrValidation, models.MaxAmount)
	}

	if tagIDs != nil || required {
		if len(tagIDs) == 0 {
			return fmt.Errorf("%w: at least one tag is required", ErrValidation)
		}
		seen := make(map[uuid.UUID]struct{}, len(tagIDs))
		for _, id := range tagIDs {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: duplicate tag %s", ErrValidation, id)
			}
			seen[id] = struct{}{}
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(tagIDs)) {
			return fmt.Errorf("%w: unknown tag", ErrValidation)
		}
	}

	if ingredients != nil || required {
		if len(ingredients) == 0 {
			return fmt.Errorf("%w: at least one ingredient is required", ErrValidation)
		}
		seen := make(map[uuid.UUID]struct{}, len(ingredients))
		ids := make([]uuid.UUID, 0, len(ingredients))
		for _, ing := range ingredients {
			if ing.Amount < 1 || ing.Amount > models.MaxAmount {
				return fmt.Errorf("%w: amount must be between 1 and %d", ErrValidation, models.MaxAmount)
			}
			if _, dup := seen[ing.IngredientID]; dup {
				return fmt.Errorf("%w: duplicate ingredient %s", ErrValidation, ing.IngredientID)
			}
			seen[ing.IngredientID] = struct{}{}
			ids = append(ids, ing.IngredientID)
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return fmt.Errorf("%w: unknown ingredient", ErrValidation)
		}
	}

	return nil
}

func (s *RecipeService) setTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uuid.UUID) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return err
	}
	return tx.Model(recipe).Association("Tags").Append(tags)
}

func (s *RecipeService) setIngredients(tx *gorm.DB, recipe *models.Recipe, ingredients []IngredientAmount) error {
	for _, ing := range ingredients {
		row := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.IngredientID,
			Amount:       ing.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
