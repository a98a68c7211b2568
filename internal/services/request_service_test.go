package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mentorlink/mentorship-service/internal/events"
	"github.com/mentorlink/mentorship-service/internal/models"
)

func newRequestServiceForTest(repo *mockRepository) (RequestService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewRequestService(repo, nil, publisher, testLogger()), publisher
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success publishes event", func(t *testing.T) {
		repo := newMockRepository()
		repo.profile = newMockProfileRepo(studentProfile("s1"), verifiedMentor("m1"))
		svc, publisher := newRequestServiceForTest(repo)

		request, err := svc.Create(ctx, "s1", &RequestCreateInput{MentorID: "m1"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if request.Status != models.RequestPending {
			t.Errorf("status = %s, want pending", request.Status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventRequestCreated {
			t.Errorf("expected one request.created event, got %+v", published)
		}
	})

	t.Run("self request rejected", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Create(ctx, "u1", &RequestCreateInput{MentorID: "u1"}); !errors.Is(err, ErrSelfRequest) {
			t.Errorf("expected ErrSelfRequest, got %v", err)
		}
	})

	t.Run("student without profile rejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.profile = newMockProfileRepo(verifiedMentor("m1"))
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Create(ctx, "ghost", &RequestCreateInput{MentorID: "m1"}); !errors.Is(err, ErrProfileRequired) {
			t.Errorf("expected ErrProfileRequired, got %v", err)
		}
	})

	t.Run("sender without student role rejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.profile = newMockProfileRepo(verifiedMentor("m2"), verifiedMentor("m1"))
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Create(ctx, "m2", &RequestCreateInput{MentorID: "m1"}); !errors.Is(err, ErrRoleRequired) {
			t.Errorf("expected ErrRoleRequired, got %v", err)
		}
	})

	t.Run("unverified mentor invisible", func(t *testing.T) {
		unverified := verifiedMentor("m1")
		unverified.Status = models.StatusUnderReview

		repo := newMockRepository()
		repo.profile = newMockProfileRepo(studentProfile("s1"), unverified)
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Create(ctx, "s1", &RequestCreateInput{MentorID: "m1"}); !errors.Is(err, ErrMentorNotFound) {
			t.Errorf("expected ErrMentorNotFound, got %v", err)
		}
	})

	t.Run("duplicate pending request rejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.profile = newMockProfileRepo(studentProfile("s1"), verifiedMentor("m1"))
		repo.request = newMockRequestRepo(&models.MentorshipRequest{
			ID: 1, StudentID: "s1", MentorID: "m1", Status: models.RequestPending,
		})
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Create(ctx, "s1", &RequestCreateInput{MentorID: "m1"}); !errors.Is(err, ErrDuplicateRequest) {
			t.Errorf("expected ErrDuplicateRequest, got %v", err)
		}
	})

	t.Run("new request allowed after decline", func(t *testing.T) {
		repo := newMockRepository()
		repo.profile = newMockProfileRepo(studentProfile("s1"), verifiedMentor("m1"))
		repo.request = newMockRequestRepo(&models.MentorshipRequest{
			ID: 1, StudentID: "s1", MentorID: "m1", Status: models.RequestDeclined,
		})
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Create(ctx, "s1", &RequestCreateInput{MentorID: "m1"}); err != nil {
			t.Errorf("declined request must not block a new one: %v", err)
		}
	})
}

func TestRequestService_Respond(t *testing.T) {
	ctx := context.Background()

	pendingRequest := func() *models.MentorshipRequest {
		return &models.MentorshipRequest{ID: 7, StudentID: "s1", MentorID: "m1", Status: models.RequestPending}
	}

	t.Run("accept publishes event", func(t *testing.T) {
		repo := newMockRepository()
		repo.request = newMockRequestRepo(pendingRequest())
		svc, publisher := newRequestServiceForTest(repo)

		request, err := svc.Respond(ctx, "m1", 7, models.RequestAccepted)
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if request.Status != models.RequestAccepted {
			t.Errorf("status = %s, want accepted", request.Status)
		}
		if request.RespondedAt == nil {
			t.Error("responded_at not stamped")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventRequestResponded {
			t.Errorf("expected one request.responded event, got %+v", published)
		}
	})

	t.Run("only the addressed mentor may respond", func(t *testing.T) {
		repo := newMockRepository()
		repo.request = newMockRequestRepo(pendingRequest())
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Respond(ctx, "someone-else", 7, models.RequestAccepted); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("expected ErrNotParticipant, got %v", err)
		}
	})

	t.Run("non-pending request rejected", func(t *testing.T) {
		accepted := pendingRequest()
		accepted.Status = models.RequestAccepted

		repo := newMockRepository()
		repo.request = newMockRequestRepo(accepted)
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Respond(ctx, "m1", 7, models.RequestDeclined); !errors.Is(err, ErrRequestNotPending) {
			t.Errorf("expected ErrRequestNotPending, got %v", err)
		}
	})

	t.Run("only accepted or declined are reachable", func(t *testing.T) {
		repo := newMockRepository()
		repo.request = newMockRequestRepo(pendingRequest())
		svc, _ := newRequestServiceForTest(repo)

		if _, err := svc.Respond(ctx, "m1", 7, models.RequestExpired); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestRequestService_ListForUser(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.request = newMockRequestRepo(
		&models.MentorshipRequest{ID: 1, StudentID: "s1", MentorID: "m1", Status: models.RequestPending},
		&models.MentorshipRequest{ID: 2, StudentID: "s2", MentorID: "s1", Status: models.RequestPending},
	)
	svc, _ := newRequestServiceForTest(repo)

	t.Run("student side lists sent requests", func(t *testing.T) {
		resp, err := svc.ListForUser(ctx, "s1", models.RoleStudent, 1, 20)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if resp.Total != 1 || resp.Requests[0].ID != 1 {
			t.Errorf("got %+v", resp)
		}
	})

	t.Run("mentor side lists received requests", func(t *testing.T) {
		resp, err := svc.ListForUser(ctx, "s1", models.RoleMentor, 1, 20)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if resp.Total != 1 || resp.Requests[0].ID != 2 {
			t.Errorf("got %+v", resp)
		}
	})
}
