package services

import (
	"context"
	"errors"

	"github.com/mentorlink/mentorship-service/internal/models"
)

// Business rule errors surfaced to the HTTP layer.
var (
	ErrProfileRequired    = errors.New("profile required: onboarding not completed")
	ErrMentorNotFound     = errors.New("mentor not found")
	ErrRoleRequired       = errors.New("user does not hold the required role")
	ErrDuplicateRequest   = errors.New("a pending request to this mentor already exists")
	ErrRequestNotPending  = errors.New("request is not pending")
	ErrNotParticipant     = errors.New("user is not a participant of this conversation")
	ErrConversationClosed = errors.New("conversation is not open")
	ErrInvalidTransition  = errors.New("invalid verification status transition")
	ErrSelfRequest        = errors.New("cannot send a mentorship request to yourself")
)

// ServiceManager provides access to all business services.
type ServiceManager interface {
	Profile() ProfileService
	Marketplace() MarketplaceService
	Request() RequestService
	Message() MessageService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type ProfileService interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, userID string, req *ProfileCreateInput) (*models.Profile, error)
	Update(ctx context.Context, userID string, req *ProfileUpdateInput) (*models.Profile, error)
	UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus, changedBy string) error
}

type MarketplaceService interface {
	ListMentors(ctx context.Context, params MentorSearchParams) (*MentorListResponse, error)
	GetMentor(ctx context.Context, userID string) (*models.Profile, error)
}

type RequestService interface {
	Create(ctx context.Context, studentID string, input *RequestCreateInput) (*models.MentorshipRequest, error)
	Respond(ctx context.Context, mentorID string, requestID uint, status models.RequestStatus) (*models.MentorshipRequest, error)
	ListForUser(ctx context.Context, userID string, asRole models.RoleTag, page, size int) (*RequestListResponse, error)
	GetByID(ctx context.Context, id uint) (*models.MentorshipRequest, error)
}

type MessageService interface {
	Send(ctx context.Context, senderID string, requestID uint, body string) (*models.Message, error)
	ListConversation(ctx context.Context, userID string, requestID uint, page, size int) (*MessageListResponse, error)
	MarkRead(ctx context.Context, userID string, requestID uint) error
}

type ExportService interface {
	ExportMentorDirectory(ctx context.Context) ([]byte, error)
}
