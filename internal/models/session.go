package models

import "time"

// AuthUser is the identity the auth backend vouches for. It carries no
// application data; that lives in Profile.
type AuthUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
}

// Session is a read-only cached copy of the auth backend's session. It is
// created and refreshed by the backend; the service never mutates it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         *AuthUser `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session's token bundle is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionEventType identifies a session-change notification.
type SessionEventType string

const (
	SessionSignedIn       SessionEventType = "SIGNED_IN"
	SessionSignedOut      SessionEventType = "SIGNED_OUT"
	SessionTokenRefreshed SessionEventType = "TOKEN_REFRESHED"
)

// SessionEvent is delivered on the session-change stream whenever the auth
// backend's view of the current session changes (sign-in elsewhere, token
// refresh, sign-out elsewhere).
type SessionEvent struct {
	Type    SessionEventType `json:"type"`
	Session *Session         `json:"session"`
}
