package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

const tagCacheKey = "catalog:tags"
const tagCacheTTL = 5 * time.Minute

// CatalogService serves the tag and ingredient catalogs. The tag
// list is read-through cached in redis when a client is configured;
// cache is nil-safe so the service works without redis.
type CatalogService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewCatalogService(db *gorm.DB, cache *redis.Client) *CatalogService {
	return &CatalogService{db: db, cache: cache}
}

// ListTags returns the full tag catalog, from cache when possible.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, tagCacheKey).Bytes(); err == nil {
			var tags []models.Tag
			if err := json.Unmarshal(raw, &tags); err == nil {
				return tags, nil
			}
		}
	}

	tags := []models.Tag{}
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(tags); err == nil {
			// Best effort; a cache write failure never fails the read.
			s.cache.Set(ctx, tagCacheKey, raw, tagCacheTTL)
		}
	}
	return tags, nil
}

// GetTag returns one tag by id.
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag", ErrNotFound)
		}
		return nil, err
	}
	return &tag, nil
}

// CreateTag stores a new tag; admin only.
func (s *CatalogService) CreateTag(ctx context.Context, actor *models.User, tag *models.Tag) error {
	if actor == nil || !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrPermission)
	}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: tag name or slug already exists", ErrConflict)
		}
		return err
	}
	if s.cache != nil {
		s.cache.Del(ctx, tagCacheKey)
	}
	return nil
}

// SearchIngredients returns ingredients whose name starts with the
// given prefix, case-insensitively. An empty prefix lists everything.
func (s *CatalogService) SearchIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{}).Order("name")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	ingredients := []models.Ingredient{}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// CreateIngredient stores a new ingredient; admin only.
func (s *CatalogService) CreateIngredient(ctx context.Context, actor *models.User, ing *models.Ingredient) error {
	if actor == nil || !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrPermission)
	}
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: ingredient with this name and unit already exists", ErrConflict)
		}
		return err
	}
	return nil
}
