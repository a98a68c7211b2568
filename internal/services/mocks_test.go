package services

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

// Hand-written mocks for the repository interfaces. Behaviour is configured
// per test through the function fields; unset fields fall back to not-found.

type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile

	listFunc    func(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error)
	lastFilters repositories.ProfileFilters
}

func newMockProfileRepo(profiles ...*models.Profile) *mockProfileRepo {
	m := &mockProfileRepo{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, repositories.ErrProfileNotFound
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[profile.UserID]; ok {
		return repositories.ErrProfileExists
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[profile.UserID]; !ok {
		return repositories.ErrProfileNotFound
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Status = status
	return nil
}

func (m *mockProfileRepo) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	m.mu.Lock()
	m.lastFilters = filters
	m.mu.Unlock()
	if m.listFunc != nil {
		return m.listFunc(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockProfileRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[userID]
	return ok, nil
}

func (m *mockProfileRepo) LastFilters() repositories.ProfileFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilters
}

type mockRequestRepo struct {
	mu       sync.Mutex
	requests map[uint]*models.MentorshipRequest
	nextID   uint
}

func newMockRequestRepo(requests ...*models.MentorshipRequest) *mockRequestRepo {
	m := &mockRequestRepo{requests: make(map[uint]*models.MentorshipRequest), nextID: 1}
	for _, r := range requests {
		m.requests[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id uint) (*models.MentorshipRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrRequestNotFound
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.MentorshipRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request.ID = m.nextID
	m.nextID++
	m.requests[request.ID] = request
	return nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus, respondedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return repositories.ErrRequestNotFound
	}
	r.Status = status
	r.RespondedAt = &respondedAt
	return nil
}

func (m *mockRequestRepo) List(ctx context.Context, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.MentorshipRequest
	for _, r := range m.requests {
		if filters.StudentID != nil && r.StudentID != *filters.StudentID {
			continue
		}
		if filters.MentorID != nil && r.MentorID != *filters.MentorID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockRequestRepo) HasPendingBetween(ctx context.Context, studentID, mentorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.StudentID == studentID && r.MentorID == mentorID && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
	nextID   uint

	markReadCalls int
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{nextID: 1}
}

func (m *mockMessageRepo) Create(ctx context.Context, message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = m.nextID
	m.nextID++
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListByRequest(ctx context.Context, requestID uint, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Message
	for _, msg := range m.messages {
		if msg.RequestID == requestID {
			out = append(out, msg)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, requestID uint, readerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markReadCalls++
	for _, msg := range m.messages {
		if msg.RequestID == requestID && msg.SenderID != readerID && msg.ReadAt == nil {
			t := at
			msg.ReadAt = &t
		}
	}
	return nil
}

// mockRepository aggregates the mocks behind the Repository interface.
type mockRepository struct {
	profile *mockProfileRepo
	request *mockRequestRepo
	message *mockMessageRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		profile: newMockProfileRepo(),
		request: newMockRequestRepo(),
		message: newMockMessageRepo(),
	}
}

func (m *mockRepository) Profile() repositories.ProfileRepository { return m.profile }
func (m *mockRepository) Request() repositories.RequestRepository { return m.request }
func (m *mockRepository) Message() repositories.MessageRepository { return m.message }
func (m *mockRepository) Auth() repositories.AuthRepository       { return nil }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func verifiedMentor(userID string) *models.Profile {
	return &models.Profile{
		UserID:   userID,
		Role:     models.ParseRoleList("mentor"),
		Status:   models.StatusVerified,
		FullName: "Mentor " + userID,
	}
}

func studentProfile(userID string) *models.Profile {
	return &models.Profile{
		UserID:   userID,
		Role:     models.ParseRoleList("student"),
		Status:   models.StatusPendingVerification,
		FullName: "Student " + userID,
	}
}
