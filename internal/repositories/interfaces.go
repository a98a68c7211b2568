package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mentorlink/mentorship-service/internal/models"
)

// ===== SENTINEL ERRORS =====

var (
	// ErrProfileNotFound marks the expected-empty state: a valid user with
	// no profile row (onboarding not completed). Callers must treat this as
	// data, not as a failure.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists guards the one-row-per-user invariant on create.
	ErrProfileExists = errors.New("profile already exists for user")

	ErrRequestNotFound = errors.New("mentorship request not found")
	ErrMessageNotFound = errors.New("message not found")
)

// ===== REPOSITORY INTERFACES =====

type ProfileRepository interface {
	// GetByUserID returns ErrProfileNotFound when no row exists for the
	// user. At most one row can exist per user id.
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error
	List(ctx context.Context, filters ProfileFilters) ([]*models.Profile, int64, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
}

type RequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.MentorshipRequest, error)
	Create(ctx context.Context, request *models.MentorshipRequest) error
	UpdateStatus(ctx context.Context, id uint, status models.RequestStatus, respondedAt time.Time) error
	List(ctx context.Context, filters RequestFilters) ([]*models.MentorshipRequest, int64, error)
	HasPendingBetween(ctx context.Context, studentID, mentorID string) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByRequest(ctx context.Context, requestID uint, filters MessageFilters) ([]*models.Message, int64, error)
	MarkRead(ctx context.Context, requestID uint, readerID string, at time.Time) error
}

// AuthRepository is the service-side view of the hosted auth backend.
type AuthRepository interface {
	GetUser(ctx context.Context, id string) (*models.AuthUser, error)
	ParseToken(ctx context.Context, token string) (*models.AuthUser, error)
}

// ===== SHARED FILTER STRUCTS =====

type ProfileFilters struct {
	Role      *models.RoleTag            `json:"role"`
	Status    *models.VerificationStatus `json:"status"`
	Country   *string                    `json:"country"`
	Expertise *string                    `json:"expertise"`
	Language  *string                    `json:"language"`
	Query     string                     `json:"query"`
	Limit     int                        `json:"limit"`
	Offset    int                        `json:"offset"`
	SortBy    string                     `json:"sort_by"`    // "created_at", "full_name"
	SortOrder string                     `json:"sort_order"` // "asc", "desc"
}

type RequestFilters struct {
	StudentID *string               `json:"student_id"`
	MentorID  *string               `json:"mentor_id"`
	Status    *models.RequestStatus `json:"status"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type MessageFilters struct {
	Before *time.Time `json:"before"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
