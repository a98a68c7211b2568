package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/events"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
	"github.com/mentorlink/mentorship-service/internal/validator"
)

// ===== INPUT DTOs =====

type ProfileCreateInput struct {
	Role      string
	FullName  string
	Bio       *string
	Country   *string
	City      *string
	Company   *string
	Position  *string
	Languages []string
	Expertise []string
	AvatarURL *string
}

type ProfileUpdateInput struct {
	FullName  *string
	Bio       *string
	Country   *string
	City      *string
	Company   *string
	Position  *string
	Languages []string
	Expertise []string
	AvatarURL *string
}

// allowedStatusTransitions encodes the verification pipeline. Reviewers may
// re-open a rejected profile but a verified one stays verified.
var allowedStatusTransitions = map[models.VerificationStatus][]models.VerificationStatus{
	models.StatusPendingVerification: {models.StatusUnderReview},
	models.StatusUnderReview:         {models.StatusVerified, models.StatusRejected},
	models.StatusRejected:            {models.StatusUnderReview},
}

// ===== SERVICE IMPLEMENTATION =====

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repo.Profile().GetByUserID(ctx, userID)
}

// Create performs onboarding: it creates the single profile row for a user.
// The at-most-one invariant is enforced both here and by the unique index.
func (s *profileService) Create(ctx context.Context, userID string, input *ProfileCreateInput) (*models.Profile, error) {
	roles := models.ParseRoleList(input.Role)
	if len(roles) == 0 {
		return nil, fmt.Errorf("profile must carry at least one role")
	}

	profile := &models.Profile{
		UserID:    userID,
		Role:      roles,
		Status:    models.StatusPendingVerification,
		FullName:  input.FullName,
		Bio:       input.Bio,
		Country:   input.Country,
		City:      input.City,
		Company:   input.Company,
		Position:  input.Position,
		AvatarURL: input.AvatarURL,
	}

	var err error
	if profile.Languages, err = marshalStringList(input.Languages); err != nil {
		return nil, err
	}
	if profile.Expertise, err = marshalStringList(input.Expertise); err != nil {
		return nil, err
	}

	if err := s.repo.Profile().Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile created", "user_id", userID, "roles", roles.String())
	s.publishEvent(ctx, events.NewEvent(events.EventProfileCreated, map[string]interface{}{
		"user_id": userID,
		"roles":   roles,
	}))

	return profile, nil
}

func (s *profileService) Update(ctx context.Context, userID string, input *ProfileUpdateInput) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.Country != nil {
		profile.Country = input.Country
	}
	if input.City != nil {
		profile.City = input.City
	}
	if input.Company != nil {
		profile.Company = input.Company
	}
	if input.Position != nil {
		profile.Position = input.Position
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.Languages != nil {
		if profile.Languages, err = marshalStringList(input.Languages); err != nil {
			return nil, err
		}
	}
	if input.Expertise != nil {
		if profile.Expertise, err = marshalStringList(input.Expertise); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// UpdateStatus moves a profile through the verification pipeline. It is an
// administrative operation; the route layer gates it on the admin role.
func (s *profileService) UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus, changedBy string) error {
	if !status.IsValid() {
		return fmt.Errorf("unknown verification status %q", status)
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if !transitionAllowed(profile.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, profile.Status, status)
	}

	if err := s.repo.Profile().UpdateStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("failed to update verification status: %w", err)
	}

	s.logger.Info("Profile status changed",
		"user_id", userID,
		"old_status", profile.Status,
		"new_status", status,
		"changed_by", changedBy)

	s.publishEvent(ctx, events.NewEvent(events.EventProfileStatusChanged, &events.ProfileStatusChangedEvent{
		UserID:    userID,
		OldStatus: string(profile.Status),
		NewStatus: string(status),
		ChangedBy: changedBy,
	}))

	return nil
}

func (s *profileService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func transitionAllowed(from, to models.VerificationStatus) bool {
	for _, allowed := range allowedStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func marshalStringList(values []string) (datatypes.JSON, error) {
	if values == nil {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return datatypes.JSON(data), nil
}
