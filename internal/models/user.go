package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
}

// IsAdmin reports whether the user holds elevated permission,
// either through the admin role or the staff flag.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsStaff
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Follow is a directed subscription: follower subscribes to author.
// The pair is unique and self-follows are rejected by a CHECK
// constraint, so racing requests cannot slip past the request-time
// checks.
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair;check:chk_no_self_follow,follower_id <> author_id" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"author_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string { return "follows" }

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
