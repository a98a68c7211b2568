package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
	RequestExpired  RequestStatus = "expired"
)

// MentorshipRequest is a student's application to a mentor. Acceptance opens
// a conversation between the pair.
type MentorshipRequest struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	StudentID string        `json:"student_id" gorm:"not null;index;size:255"`
	MentorID  string        `json:"mentor_id" gorm:"not null;index;size:255"`
	Status    RequestStatus `json:"status" gorm:"not null;default:pending;size:32"`
	Message   *string       `json:"message" gorm:"size:2000"`

	RespondedAt *time.Time     `json:"responded_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (MentorshipRequest) TableName() string {
	return "mentorship_requests"
}

// Message is one chat message inside an accepted mentorship conversation.
// The conversation key is the accepted request's id.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RequestID uint      `json:"request_id" gorm:"not null;index"`
	SenderID  string    `json:"sender_id" gorm:"not null;size:255"`
	Body      string    `json:"body" gorm:"not null;size:4000"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
