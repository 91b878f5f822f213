package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RecipeFilter describes a recipe listing request. All supplied
// criteria combine conjunctively. Favorited and InCart are tri-state:
// a nil pointer applies no restriction. Both are evaluated only when
// Viewer is set; for an anonymous caller they are silently ignored,
// since anonymous sessions have no membership rows to filter by.
type RecipeFilter struct {
	AuthorID  *uuid.UUID
	TagSlugs  []string
	Favorited *bool
	InCart    *bool
	Viewer    *uuid.UUID
}

// Apply builds the filtered recipe query from scratch on every call;
// the filter itself carries no query state and can be reused.
func (f RecipeFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Recipe{}).Select("recipes.*")

	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}

	if len(f.TagSlugs) > 0 {
		// A recipe with several matching tags comes back once: the
		// join rows are collapsed per recipe id, so the result does
		// not depend on join duplication order.
		q = q.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs).
			Group("recipes.id")
	}

	if f.Viewer != nil {
		if f.Favorited != nil {
			q = membershipClause(q, models.KindFavorite, *f.Viewer, *f.Favorited)
		}
		if f.InCart != nil {
			q = membershipClause(q, models.KindShoppingCart, *f.Viewer, *f.InCart)
		}
	}

	// Newest first by publish timestamp.
	return q.Order("recipes.created_at DESC").Order("recipes.id DESC")
}

func membershipClause(q *gorm.DB, kind models.MembershipKind, userID uuid.UUID, member bool) *gorm.DB {
	cond := `EXISTS (
		SELECT 1 FROM memberships
		WHERE memberships.kind = ?
		  AND memberships.user_id = ?
		  AND memberships.recipe_id = recipes.id
	)`
	if !member {
		cond = "NOT " + cond
	}
	return q.Where(cond, kind, userID)
}
