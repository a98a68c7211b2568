package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published by this service.
const (
	EventProfileCreated       = "profile.created"
	EventProfileStatusChanged = "profile.status_changed"
	EventRequestCreated       = "request.created"
	EventRequestResponded     = "request.responded"
	EventMessageSent          = "message.sent"
)

// Event is the envelope for every domain event leaving this service.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with the service identity stamped in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "mentorship-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the outbound broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ProfileStatusChangedEvent is emitted when a reviewer moves a profile
// through the verification pipeline.
type ProfileStatusChangedEvent struct {
	UserID    string `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
}

// RequestCreatedEvent is emitted when a student applies to a mentor.
type RequestCreatedEvent struct {
	RequestID uint   `json:"request_id"`
	StudentID string `json:"student_id"`
	MentorID  string `json:"mentor_id"`
}

// RequestRespondedEvent is emitted when a mentor accepts or declines.
type RequestRespondedEvent struct {
	RequestID uint   `json:"request_id"`
	MentorID  string `json:"mentor_id"`
	Status    string `json:"status"`
}

// MessageSentEvent is emitted for realtime fan-out of chat messages.
type MessageSentEvent struct {
	MessageID uint   `json:"message_id"`
	RequestID uint   `json:"request_id"`
	SenderID  string `json:"sender_id"`
}
