package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mentorlink/mentorship-service/internal/models"
)

const sessionTopic = "auth.session_changed"

// SessionBus carries session-change notifications from the auth backend
// adapter to the auth state provider. It is an in-process pub/sub: events
// are delivered serially per subscriber, and a subscriber registered after
// an event was published never sees it.
type SessionBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

func NewSessionBus(logger *slog.Logger) *SessionBus {
	return &SessionBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 16,
		}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// Publish delivers a session-change event to all current subscribers.
func (b *SessionBus) Publish(event models.SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(sessionTopic, msg); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of decoded session events. The channel closes
// when ctx is cancelled or the bus shuts down. Undecodable payloads are
// logged and dropped rather than tearing the stream down.
func (b *SessionBus) Subscribe(ctx context.Context) (<-chan models.SessionEvent, error) {
	msgs, err := b.pubsub.Subscribe(ctx, sessionTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to session events: %w", err)
	}

	out := make(chan models.SessionEvent)
	go func() {
		defer close(out)
		for msg := range msgs {
			var event models.SessionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("Dropping malformed session event", "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (b *SessionBus) Close() error {
	return b.pubsub.Close()
}
