package auth

import (
	"context"
	"errors"

	"github.com/mentorlink/mentorship-service/internal/models"
)

// Credential errors are returned verbatim to the caller of SignIn/SignUp so
// the UI layer can display them. They are never logged as system failures.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// Backend is the contract consumed from the hosted auth backend. It owns
// sessions entirely; the provider only caches what it returns.
type Backend interface {
	// CurrentSession returns the active session, or (nil, nil) when no
	// session exists. Errors are transient backend failures.
	CurrentSession(ctx context.Context) (*models.Session, error)

	// SignInWithPassword exchanges credentials for a fresh session.
	// Credential failures return ErrInvalidCredentials.
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)

	// SignUp creates a credential only. It never creates a profile row;
	// onboarding does that later, keyed by the returned user id.
	SignUp(ctx context.Context, email, password string) (*models.AuthUser, error)

	// SignOut invalidates the session with the backend.
	SignOut(ctx context.Context, session *models.Session) error
}

// ProfileStore is the contract consumed from the profile repository.
// Absence of a row is reported via repositories.ErrProfileNotFound and is a
// valid state, not a failure.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// SessionSource delivers session-change notifications. The returned channel
// closes when ctx is cancelled.
type SessionSource interface {
	Subscribe(ctx context.Context) (<-chan models.SessionEvent, error)
}
