package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

type MessagePostgreSQL struct {
	db *gorm.DB
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{db: db}
}

func (m *MessagePostgreSQL) Create(ctx context.Context, message *models.Message) error {
	if err := m.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (m *MessagePostgreSQL) ListByRequest(ctx context.Context, requestID uint, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	var messages []*models.Message
	var total int64

	query := m.db.WithContext(ctx).Model(&models.Message{}).Where("request_id = ?", requestID)
	if filters.Before != nil {
		query = query.Where("created_at < ?", *filters.Before)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	if err := query.Order("created_at desc").Limit(limit).Offset(filters.Offset).Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, total, nil
}

// MarkRead stamps every unread message in the conversation that was not sent
// by the reader.
func (m *MessagePostgreSQL) MarkRead(ctx context.Context, requestID uint, readerID string, at time.Time) error {
	if err := m.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("request_id = ? AND sender_id <> ? AND read_at IS NULL", requestID, readerID).
		Update("read_at", at).Error; err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
