package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/events"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type MessageListResponse struct {
	Messages   []*models.Message `json:"messages"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"total_pages"`
}

// ===== SERVICE IMPLEMENTATION =====

type messageService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewMessageService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger) MessageService {
	return &messageService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Send posts a message into the conversation opened by an accepted request.
// Only the two participants may write, and only while the request stays
// accepted.
func (s *messageService) Send(ctx context.Context, senderID string, requestID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body must not be empty")
	}

	request, err := s.conversationFor(ctx, senderID, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestAccepted {
		return nil, ErrConversationClosed
	}

	message := &models.Message{
		RequestID: requestID,
		SenderID:  senderID,
		Body:      body,
	}
	if err := s.repo.Message().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventMessageSent, &events.MessageSentEvent{
		MessageID: message.ID,
		RequestID: requestID,
		SenderID:  senderID,
	}))

	return message, nil
}

func (s *messageService) ListConversation(ctx context.Context, userID string, requestID uint, page, size int) (*MessageListResponse, error) {
	if _, err := s.conversationFor(ctx, userID, requestID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	if size > 200 {
		size = 200
	}

	messages, total, err := s.repo.Message().ListByRequest(ctx, requestID, repositories.MessageFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &MessageListResponse{
		Messages:   messages,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

// MarkRead stamps every unread message addressed to the reader.
func (s *messageService) MarkRead(ctx context.Context, userID string, requestID uint) error {
	if _, err := s.conversationFor(ctx, userID, requestID); err != nil {
		return err
	}
	if err := s.repo.Message().MarkRead(ctx, requestID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// conversationFor loads the request and verifies the caller is one of its
// two participants.
func (s *messageService) conversationFor(ctx context.Context, userID string, requestID uint) (*models.MentorshipRequest, error) {
	request, err := s.repo.Request().GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.StudentID != userID && request.MentorID != userID {
		return nil, ErrNotParticipant
	}
	return request, nil
}

func (s *messageService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
