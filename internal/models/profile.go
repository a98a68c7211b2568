package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VerificationStatus string

const (
	StatusPendingVerification VerificationStatus = "pending_verification"
	StatusUnderReview         VerificationStatus = "under_review"
	StatusVerified            VerificationStatus = "verified"
	StatusRejected            VerificationStatus = "rejected"
)

// ValidVerificationStatuses lists every status a profile may carry.
var ValidVerificationStatuses = []VerificationStatus{
	StatusPendingVerification,
	StatusUnderReview,
	StatusVerified,
	StatusRejected,
}

func (s VerificationStatus) IsValid() bool {
	for _, v := range ValidVerificationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Profile is the application-specific record for a user, distinct from the
// auth identity held by the auth backend. At most one row exists per user id;
// absence of a row means the user has not completed onboarding yet.
type Profile struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`

	// Role is polymorphic at rest: a scalar string ("student"), a
	// comma-joined string ("student,mentor") or a JSON array. Membership
	// checks must go through Roles()/HasRole, never compare Role directly.
	Role RoleList `json:"role" gorm:"type:text"`

	Status VerificationStatus `json:"status" gorm:"not null;default:pending_verification;size:32"`

	FullName string  `json:"full_name" gorm:"not null;size:100"`
	Bio      *string `json:"bio" gorm:"size:2000"`
	Country  *string `json:"country" gorm:"size:100"`
	City     *string `json:"city" gorm:"size:100"`
	Company  *string `json:"company" gorm:"size:200"`
	Position *string `json:"position" gorm:"size:200"`

	Languages datatypes.JSON `json:"languages" gorm:"type:jsonb"`
	Expertise datatypes.JSON `json:"expertise" gorm:"type:jsonb"`

	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}

// IsVerified reports whether gated content should render for this profile.
func (p *Profile) IsVerified() bool {
	return p != nil && p.Status == StatusVerified
}
