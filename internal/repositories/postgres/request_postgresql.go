package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

type RequestPostgreSQL struct {
	db *gorm.DB
}

func NewRequestPostgreSQL(db *gorm.DB) repositories.RequestRepository {
	return &RequestPostgreSQL{db: db}
}

func (r *RequestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MentorshipRequest, error) {
	var request models.MentorshipRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

func (r *RequestPostgreSQL) Create(ctx context.Context, request *models.MentorshipRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *RequestPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus, respondedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.MentorshipRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": respondedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update request status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRequestNotFound
	}
	return nil
}

func (r *RequestPostgreSQL) List(ctx context.Context, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	var requests []*models.MentorshipRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MentorshipRequest{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.MentorID != nil {
		query = query.Where("mentor_id = ?", *filters.MentorID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if err := query.Order("created_at desc").Limit(limit).Offset(filters.Offset).Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, total, nil
}

func (r *RequestPostgreSQL) HasPendingBetween(ctx context.Context, studentID, mentorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MentorshipRequest{}).
		Where("student_id = ? AND mentor_id = ? AND status = ?", studentID, mentorID, models.RequestPending).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return count > 0, nil
}
