package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type MentorSearchParams struct {
	Country   *string
	Expertise *string
	Language  *string
	Query     string
	Page      int
	Size      int
	SortBy    string
}

type MentorListResponse struct {
	Mentors    []*models.Profile `json:"mentors"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"total_pages"`
}

// ===== SERVICE IMPLEMENTATION =====

type marketplaceService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewMarketplaceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) MarketplaceService {
	return &marketplaceService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ListMentors returns the public marketplace listing: verified mentors only,
// filtered by country, expertise and language.
func (s *marketplaceService) ListMentors(ctx context.Context, params MentorSearchParams) (*MentorListResponse, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.Size
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	mentorRole := models.RoleMentor
	verified := models.StatusVerified

	filters := repositories.ProfileFilters{
		Role:      &mentorRole,
		Status:    &verified,
		Country:   params.Country,
		Expertise: params.Expertise,
		Language:  params.Language,
		Query:     params.Query,
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    params.SortBy,
	}

	mentors, total, err := s.repo.Profile().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &MentorListResponse{
		Mentors:    mentors,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

// GetMentor returns a single marketplace entry. Profiles that are not
// verified mentors are invisible here regardless of existence.
func (s *marketplaceService) GetMentor(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}

	if !models.HasRole(profile, models.RoleMentor) || !profile.IsVerified() {
		return nil, ErrMentorNotFound
	}

	return profile, nil
}
