package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/events"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

// ===== DTOs =====

type RequestCreateInput struct {
	MentorID string
	Message  *string
}

type RequestListResponse struct {
	Requests   []*models.MentorshipRequest `json:"requests"`
	Total      int64                       `json:"total"`
	Page       int                         `json:"page"`
	Size       int                         `json:"size"`
	TotalPages int                         `json:"total_pages"`
}

// ===== SERVICE IMPLEMENTATION =====

type requestService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewRequestService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger) RequestService {
	return &requestService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Create sends a mentorship request from a student to a verified mentor.
// At most one pending request may exist per student/mentor pair.
func (s *requestService) Create(ctx context.Context, studentID string, input *RequestCreateInput) (*models.MentorshipRequest, error) {
	if studentID == input.MentorID {
		return nil, ErrSelfRequest
	}

	student, err := s.repo.Profile().GetByUserID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}
	if !models.HasRole(student, models.RoleStudent) {
		return nil, ErrRoleRequired
	}

	mentor, err := s.repo.Profile().GetByUserID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}
	if !models.HasRole(mentor, models.RoleMentor) || !mentor.IsVerified() {
		return nil, ErrMentorNotFound
	}

	pending, err := s.repo.Request().HasPendingBetween(ctx, studentID, input.MentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	request := &models.MentorshipRequest{
		StudentID: studentID,
		MentorID:  input.MentorID,
		Status:    models.RequestPending,
		Message:   input.Message,
	}
	if err := s.repo.Request().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create mentorship request: %w", err)
	}

	s.logger.Info("Mentorship request created",
		"request_id", request.ID,
		"student_id", studentID,
		"mentor_id", input.MentorID)

	s.publishEvent(ctx, events.NewEvent(events.EventRequestCreated, &events.RequestCreatedEvent{
		RequestID: request.ID,
		StudentID: studentID,
		MentorID:  input.MentorID,
	}))

	return request, nil
}

// Respond lets the addressed mentor accept or decline a pending request.
func (s *requestService) Respond(ctx context.Context, mentorID string, requestID uint, status models.RequestStatus) (*models.MentorshipRequest, error) {
	if status != models.RequestAccepted && status != models.RequestDeclined {
		return nil, fmt.Errorf("%w: response must be accepted or declined", ErrInvalidTransition)
	}

	request, err := s.repo.Request().GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.MentorID != mentorID {
		return nil, ErrNotParticipant
	}
	if request.Status != models.RequestPending {
		return nil, ErrRequestNotPending
	}

	now := time.Now().UTC()
	if err := s.repo.Request().UpdateStatus(ctx, requestID, status, now); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	request.Status = status
	request.RespondedAt = &now

	s.logger.Info("Mentorship request responded",
		"request_id", requestID,
		"mentor_id", mentorID,
		"status", status)

	s.publishEvent(ctx, events.NewEvent(events.EventRequestResponded, &events.RequestRespondedEvent{
		RequestID: requestID,
		MentorID:  mentorID,
		Status:    string(status),
	}))

	return request, nil
}

// ListForUser returns the user's requests from the side they asked for:
// sent requests for students, received requests for mentors.
func (s *requestService) ListForUser(ctx context.Context, userID string, asRole models.RoleTag, page, size int) (*RequestListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	filters := repositories.RequestFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}
	switch asRole {
	case models.RoleMentor:
		filters.MentorID = &userID
	default:
		filters.StudentID = &userID
	}

	requests, total, err := s.repo.Request().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &RequestListResponse{
		Requests:   requests,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

func (s *requestService) GetByID(ctx context.Context, id uint) (*models.MentorshipRequest, error) {
	return s.repo.Request().GetByID(ctx, id)
}

func (s *requestService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
