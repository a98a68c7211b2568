package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/cache"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// GetByUserID returns the single profile row for a user. A missing row is
// the expected empty state and comes back as ErrProfileNotFound, never as a
// generic database error.
func (p *ProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("user:%s", userID)
	var profile models.Profile

	err := p.cacheManager.Profile.CacheOrExecute(ctx, cacheKey, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.Profile
		if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbProfile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (p *ProfilePostgreSQL) Create(ctx context.Context, profile *models.Profile) error {
	exists, err := p.ExistsByUserID(ctx, profile.UserID)
	if err != nil {
		return err
	}
	if exists {
		return repositories.ErrProfileExists
	}

	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	cache.InvalidateProfileCache(ctx, p.cacheManager, profile.UserID)
	return nil
}

func (p *ProfilePostgreSQL) Update(ctx context.Context, profile *models.Profile) error {
	if err := p.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	cache.InvalidateProfileCache(ctx, p.cacheManager, profile.UserID)
	return nil
}

func (p *ProfilePostgreSQL) UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	result := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrProfileNotFound
	}

	cache.InvalidateProfileCache(ctx, p.cacheManager, userID)
	return nil
}

func (p *ProfilePostgreSQL) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	var profiles []*models.Profile
	var total int64

	query := p.db.WithContext(ctx).Model(&models.Profile{})
	query = p.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query = p.applyPaginationAndSort(query, filters)
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, total, nil
}

func (p *ProfilePostgreSQL) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}
	return count > 0, nil
}

func (p *ProfilePostgreSQL) applyFilters(query *gorm.DB, filters repositories.ProfileFilters) *gorm.DB {
	if filters.Role != nil {
		// Role is polymorphic at rest (scalar, comma-joined or JSON array);
		// match the token in any shape.
		token := string(*filters.Role)
		query = query.Where(
			"role = ? OR role LIKE ? OR role LIKE ? OR role LIKE ? OR role LIKE ?",
			token,
			token+",%", "%,"+token, "%,"+token+",%",
			`%"`+token+`"%`,
		)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Country != nil {
		query = query.Where("country = ?", *filters.Country)
	}
	if filters.Expertise != nil {
		query = query.Where("expertise::text LIKE ?", `%"`+*filters.Expertise+`"%`)
	}
	if filters.Language != nil {
		query = query.Where("languages::text LIKE ?", `%"`+*filters.Language+`"%`)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("full_name ILIKE ? OR company ILIKE ? OR position ILIKE ?", like, like, like)
	}
	return query
}

func (p *ProfilePostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ProfileFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "full_name", "created_at", "updated_at":
	default:
		sortBy = "created_at"
	}
	sortOrder := "desc"
	if filters.SortOrder == "asc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return query.Limit(limit).Offset(filters.Offset)
}
