package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mentorlink/mentorship-service/internal/events"
	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

func newMessageServiceForTest(repo *mockRepository) (MessageService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewMessageService(repo, nil, publisher, testLogger()), publisher
}

func acceptedRequestRepo() *mockRepository {
	repo := newMockRepository()
	repo.request = newMockRequestRepo(&models.MentorshipRequest{
		ID: 5, StudentID: "s1", MentorID: "m1", Status: models.RequestAccepted,
	})
	return repo
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("participant sends into accepted conversation", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, publisher := newMessageServiceForTest(repo)

		message, err := svc.Send(ctx, "s1", 5, "  hello mentor  ")
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if message.Body != "hello mentor" {
			t.Errorf("body = %q, want trimmed", message.Body)
		}
		if message.SenderID != "s1" || message.RequestID != 5 {
			t.Errorf("message = %+v", message)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventMessageSent {
			t.Errorf("expected one message.sent event, got %+v", published)
		}
	})

	t.Run("empty body rejected", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.Send(ctx, "s1", 5, "   "); err == nil {
			t.Fatal("expected error for blank body")
		}
	})

	t.Run("outsider cannot write", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.Send(ctx, "stranger", 5, "hi"); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("expected ErrNotParticipant, got %v", err)
		}
	})

	t.Run("pending conversation is closed", func(t *testing.T) {
		repo := newMockRepository()
		repo.request = newMockRequestRepo(&models.MentorshipRequest{
			ID: 5, StudentID: "s1", MentorID: "m1", Status: models.RequestPending,
		})
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.Send(ctx, "s1", 5, "hi"); !errors.Is(err, ErrConversationClosed) {
			t.Errorf("expected ErrConversationClosed, got %v", err)
		}
	})

	t.Run("declined conversation is closed", func(t *testing.T) {
		repo := newMockRepository()
		repo.request = newMockRequestRepo(&models.MentorshipRequest{
			ID: 5, StudentID: "s1", MentorID: "m1", Status: models.RequestDeclined,
		})
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.Send(ctx, "m1", 5, "hi"); !errors.Is(err, ErrConversationClosed) {
			t.Errorf("expected ErrConversationClosed, got %v", err)
		}
	})

	t.Run("unknown conversation", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.Send(ctx, "s1", 99, "hi"); !errors.Is(err, repositories.ErrRequestNotFound) {
			t.Errorf("expected ErrRequestNotFound, got %v", err)
		}
	})
}

func TestMessageService_ListConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("participant reads history", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, _ := newMessageServiceForTest(repo)

		for _, body := range []string{"one", "two"} {
			if _, err := svc.Send(ctx, "s1", 5, body); err != nil {
				t.Fatalf("send %q: %v", body, err)
			}
		}

		resp, err := svc.ListConversation(ctx, "m1", 5, 1, 50)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if resp.Total != 2 {
			t.Errorf("total = %d, want 2", resp.Total)
		}
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.ListConversation(ctx, "stranger", 5, 1, 50); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("expected ErrNotParticipant, got %v", err)
		}
	})
}

func TestMessageService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("only the other side's messages are stamped", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, _ := newMessageServiceForTest(repo)

		if _, err := svc.Send(ctx, "s1", 5, "from student"); err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.Send(ctx, "m1", 5, "from mentor"); err != nil {
			t.Fatalf("send: %v", err)
		}

		if err := svc.MarkRead(ctx, "m1", 5); err != nil {
			t.Fatalf("mark read: %v", err)
		}

		for _, msg := range repo.message.messages {
			if msg.SenderID == "s1" && msg.ReadAt == nil {
				t.Error("student message should be stamped read")
			}
			if msg.SenderID == "m1" && msg.ReadAt != nil {
				t.Error("reader's own message must not be stamped")
			}
		}
	})

	t.Run("outsider cannot mark", func(t *testing.T) {
		repo := acceptedRequestRepo()
		svc, _ := newMessageServiceForTest(repo)

		if err := svc.MarkRead(ctx, "stranger", 5); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("expected ErrNotParticipant, got %v", err)
		}
		if repo.message.markReadCalls != 0 {
			t.Errorf("mark read reached the store %d times", repo.message.markReadCalls)
		}
	})
}
