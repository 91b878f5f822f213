package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipKind discriminates the per-user recipe lists that share
// one table: favorites and the shopping cart.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindShoppingCart MembershipKind = "shopping_cart"
)

// Membership is a (kind, user, recipe) row. The composite unique
// index is the final arbiter against duplicate rows when two
// requests race past the application-level existence check.
type Membership struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Kind      MembershipKind `gorm:"size:16;not null;uniqueIndex:idx_membership_row" json:"kind"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_membership_row" json:"user_id"`
	RecipeID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_membership_row" json:"recipe_id"`
	User      User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Membership) TableName() string { return "memberships" }

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
