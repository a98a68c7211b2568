package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/mentorlink/mentorship-service/internal/auth"
	"github.com/mentorlink/mentorship-service/internal/events"
	"github.com/mentorlink/mentorship-service/internal/models"
)

// CasdoorConfig holds the configuration for the Casdoor connection.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// AuthCasdoor adapts the Casdoor SDK to the auth backend contract. It also
// persists the current session token bundle (Redis when available, memory
// otherwise) and publishes session-change events on the session bus so the
// auth provider learns about sign-ins, refreshes and sign-outs.
type AuthCasdoor struct {
	client *casdoorsdk.Client
	oauth  oauth2.Config
	redis  *redis.Client
	bus    *events.SessionBus
	config CasdoorConfig
	logger *slog.Logger

	cacheTTL time.Duration

	// In-memory session fallback when Redis is not configured.
	mu      sync.RWMutex
	session *models.Session
}

const sessionKey = "auth:session:current"

func NewAuthCasdoor(config CasdoorConfig, redisClient *redis.Client, bus *events.SessionBus, logger *slog.Logger) *AuthCasdoor {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &AuthCasdoor{
		client: client,
		oauth: oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: strings.TrimRight(config.Endpoint, "/") + "/api/login/oauth/access_token",
			},
		},
		redis:    redisClient,
		bus:      bus,
		config:   config,
		logger:   logger,
		cacheTTL: 15 * time.Minute,
	}
}

// ===== AUTH BACKEND CONTRACT =====

// CurrentSession returns the persisted session, auto-refreshing an expired
// token bundle when a refresh token is available. (nil, nil) means no
// session exists.
func (a *AuthCasdoor) CurrentSession(ctx context.Context) (*models.Session, error) {
	session, err := a.loadSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now()) {
		if session.RefreshToken == "" {
			a.clearSession(ctx)
			return nil, nil
		}

		refreshed, err := a.refreshSession(ctx, session)
		if err != nil {
			a.clearSession(ctx)
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		return refreshed, nil
	}

	return session, nil
}

// SignInWithPassword exchanges credentials through the resource-owner
// password flow, persists the resulting session and announces it on the
// session bus.
func (a *AuthCasdoor) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	token, err := a.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}

	session, err := a.sessionFromToken(token)
	if err != nil {
		return nil, err
	}

	a.storeSession(ctx, session)
	a.publish(models.SessionEvent{Type: models.SessionSignedIn, Session: session})
	return session, nil
}

// SignUp creates a credential in Casdoor. It never creates a profile row;
// onboarding handles that later, keyed by the new user id.
func (a *AuthCasdoor) SignUp(ctx context.Context, email, password string) (*models.AuthUser, error) {
	existing, err := a.client.GetUserByEmail(email)
	if err == nil && existing != nil {
		return nil, auth.ErrEmailTaken
	}

	name := strings.SplitN(email, "@", 2)[0]
	casdoorUser := &casdoorsdk.User{
		Owner:             a.config.OrganizationName,
		Name:              name,
		CreatedTime:       time.Now().UTC().Format(time.RFC3339),
		Email:             email,
		Password:          password,
		DisplayName:       name,
		SignupApplication: a.config.ApplicationName,
	}

	ok, err := a.client.AddUser(casdoorUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user in Casdoor: %w", err)
	}
	if !ok {
		return nil, auth.ErrEmailTaken
	}

	created, err := a.client.GetUserByEmail(email)
	if err != nil || created == nil {
		return nil, fmt.Errorf("failed to read back created user: %w", err)
	}

	return a.convertCasdoorUser(created), nil
}

// SignOut revokes the token with Casdoor, drops the persisted session and
// announces the sign-out. Revocation failure is reported to the caller for
// logging but the local session is gone either way.
func (a *AuthCasdoor) SignOut(ctx context.Context, session *models.Session) error {
	a.clearSession(ctx)
	a.publish(models.SessionEvent{Type: models.SessionSignedOut})

	if session == nil || session.AccessToken == "" {
		return nil
	}

	_, err := a.client.DeleteToken(&casdoorsdk.Token{
		Owner:       a.config.OrganizationName,
		Application: a.config.ApplicationName,
		AccessToken: session.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ===== AUTH REPOSITORY (middleware-facing reads) =====

// GetUser retrieves an auth identity by id, with a Redis read-through.
func (a *AuthCasdoor) GetUser(ctx context.Context, id string) (*models.AuthUser, error) {
	cacheKey := fmt.Sprintf("auth:user:id:%s", id)
	if cached := a.getUserFromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	casdoorUser, err := a.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with ID %s", id)
	}

	user := a.convertCasdoorUser(casdoorUser)
	a.setUserCache(ctx, cacheKey, user)
	return user, nil
}

// ParseToken validates a bearer token and extracts the auth identity.
func (a *AuthCasdoor) ParseToken(ctx context.Context, token string) (*models.AuthUser, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.Id == "" && claims.User.Id == "" {
		return nil, fmt.Errorf("token carries no user id")
	}

	id := claims.User.Id
	if id == "" {
		id = claims.Id
	}

	return &models.AuthUser{
		ID:            id,
		Email:         claims.User.Email,
		DisplayName:   claims.User.DisplayName,
		EmailVerified: claims.User.EmailVerified,
	}, nil
}

// ===== SESSION PERSISTENCE =====

func (a *AuthCasdoor) sessionFromToken(token *oauth2.Token) (*models.Session, error) {
	claims, err := a.client.ParseJwtToken(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issued token: %w", err)
	}

	id := claims.User.Id
	if id == "" {
		id = claims.Id
	}

	return &models.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
		User: &models.AuthUser{
			ID:            id,
			Email:         claims.User.Email,
			DisplayName:   claims.User.DisplayName,
			EmailVerified: claims.User.EmailVerified,
		},
	}, nil
}

func (a *AuthCasdoor) refreshSession(ctx context.Context, session *models.Session) (*models.Session, error) {
	token, err := a.client.RefreshOAuthToken(session.RefreshToken)
	if err != nil {
		return nil, err
	}

	refreshed, err := a.sessionFromToken(token)
	if err != nil {
		return nil, err
	}

	a.storeSession(ctx, refreshed)
	a.publish(models.SessionEvent{Type: models.SessionTokenRefreshed, Session: refreshed})
	return refreshed, nil
}

func (a *AuthCasdoor) loadSession(ctx context.Context) (*models.Session, error) {
	if a.redis == nil {
		a.mu.RLock()
		defer a.mu.RUnlock()
		return a.session, nil
	}

	data, err := a.redis.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored session: %w", err)
	}
	return &session, nil
}

func (a *AuthCasdoor) storeSession(ctx context.Context, session *models.Session) {
	if a.redis == nil {
		a.mu.Lock()
		a.session = session
		a.mu.Unlock()
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		a.logger.Error("Failed to marshal session for storage", "error", err)
		return
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = a.cacheTTL
	}
	if err := a.redis.Set(ctx, sessionKey, data, ttl).Err(); err != nil {
		a.logger.Error("Failed to store session", "error", err)
	}
}

func (a *AuthCasdoor) clearSession(ctx context.Context) {
	if a.redis == nil {
		a.mu.Lock()
		a.session = nil
		a.mu.Unlock()
		return
	}

	if err := a.redis.Del(ctx, sessionKey).Err(); err != nil {
		a.logger.Error("Failed to clear stored session", "error", err)
	}
}

func (a *AuthCasdoor) publish(event models.SessionEvent) {
	if a.bus == nil {
		return
	}
	if err := a.bus.Publish(event); err != nil {
		a.logger.Error("Failed to publish session event", "event_type", event.Type, "error", err)
	}
}

// ===== CACHE HELPERS =====

func (a *AuthCasdoor) getUserFromCache(ctx context.Context, key string) *models.AuthUser {
	if a.redis == nil {
		return nil
	}

	data, err := a.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var user models.AuthUser
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil
	}
	return &user
}

func (a *AuthCasdoor) setUserCache(ctx context.Context, key string, user *models.AuthUser) {
	if a.redis == nil {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	a.redis.Set(ctx, key, data, a.cacheTTL)
}

// ===== CONVERSION =====

func (a *AuthCasdoor) convertCasdoorUser(casdoorUser *casdoorsdk.User) *models.AuthUser {
	if casdoorUser == nil {
		return nil
	}
	return &models.AuthUser{
		ID:            casdoorUser.Id,
		Email:         casdoorUser.Email,
		DisplayName:   casdoorUser.DisplayName,
		EmailVerified: casdoorUser.EmailVerified,
	}
}
