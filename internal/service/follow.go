package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// FollowService manages subscriptions between users.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe creates a follow from follower to author. The self-follow
// and duplicate checks here are early exits; the CHECK constraint and
// unique index in the schema enforce both under racing requests.
func (s *FollowService) Subscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	if followerID == authorID {
		return ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: already subscribed", ErrConflict)
	}

	row := models.Follow{FollowerID: followerID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: already subscribed", ErrConflict)
		}
		return err
	}
	return nil
}

// Unsubscribe removes the follow pair.
func (s *FollowService) Unsubscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	var author models.User
	if err := s.db.WithContext(ctx).Select("id").First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: subscription", ErrNotFound)
	}
	return nil
}

// SubscriptionEntry is one followed author with a truncated recipe
// list and the author's total recipe count.
type SubscriptionEntry struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// Subscriptions returns one page of the user's followed authors,
// newest subscription first. recipesLimit truncates each author's
// recipe list; zero or negative means no truncation.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, page, limit int) ([]SubscriptionEntry, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err = s.db.WithContext(ctx).
		Preload("Author").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]SubscriptionEntry, 0, len(follows))
	for _, f := range follows {
		entry := SubscriptionEntry{Author: f.Author}

		err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", f.AuthorID).
			Count(&entry.RecipesCount).Error
		if err != nil {
			return nil, 0, err
		}

		q := s.db.WithContext(ctx).
			Where("author_id = ?", f.AuthorID).
			Order("created_at DESC")
		if recipesLimit > 0 {
			q = q.Limit(recipesLimit)
		}
		if err := q.Find(&entry.Recipes).Error; err != nil {
			return nil, 0, err
		}

		entries = append(entries, entry)
	}
	return entries, total, nil
}

// FollowingSet reports which of the given authors the user follows.
func (s *FollowService) FollowingSet(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return set, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
