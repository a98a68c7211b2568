package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mentorlink/mentorship-service/internal/models"
	"github.com/mentorlink/mentorship-service/internal/repositories"
)

// DefaultLoadingTimeout bounds how long the read model may stay in its
// initial loading state when the backend is unresponsive.
const DefaultLoadingTimeout = 5 * time.Second

// State is the read model exposed to consumers (route guards, handlers).
//
// Loading=true only during startup, before the initial session fetch has
// settled or the safety timeout has fired. After that the state is one of:
// anonymous (User nil), authenticated without profile (User set, Profile
// nil — onboarding not completed), or authenticated with profile.
type State struct {
	User    *models.AuthUser
	Session *models.Session
	Profile *models.Profile
	Loading bool
}

// Provider keeps the State consistent with the hosted auth backend and the
// profile store. It is the only writer of the shared read model: construct
// one at the application root and inject it; never reach for a package-level
// instance.
//
// Ordering: every externally-triggered update (initial fetch, session-change
// event, SignIn, SignOut, RefreshProfile) is stamped with a logical version
// at the moment it is issued. A write whose version is older than the last
// applied one is discarded, so a stale fetch that settles late can never
// clobber the intent of a later event (last-issued-wins, not
// last-settled-wins).
type Provider struct {
	backend  Backend
	profiles ProfileStore
	source   SessionSource
	logger   *slog.Logger

	loadingTimeout time.Duration

	mu      sync.RWMutex
	state   State
	issued  uint64 // logical clock, bumped when an update is issued
	applied uint64 // version of the last applied write

	ctx       context.Context
	cancel    context.CancelFunc
	safety    *time.Timer
	wg        sync.WaitGroup
	started   bool
	closeOnce sync.Once
}

// Option configures a Provider.
type Option func(*Provider)

// WithLoadingTimeout overrides the safety timeout for the initial load.
func WithLoadingTimeout(d time.Duration) Option {
	return func(p *Provider) { p.loadingTimeout = d }
}

func NewProvider(backend Backend, profiles ProfileStore, source SessionSource, logger *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		backend:        backend,
		profiles:       profiles,
		source:         source,
		logger:         logger,
		loadingTimeout: DefaultLoadingTimeout,
		state:          State{Loading: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins synchronization: it kicks off the one-shot session fetch,
// registers the single long-lived subscription to session-change events,
// and arms the safety timer. The fetch and the timer race; whichever
// settles first flips Loading, and the fetch stops the timer when it wins.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("auth provider already started")
	}
	p.started = true
	p.mu.Unlock()

	p.ctx, p.cancel = context.WithCancel(ctx)

	events, err := p.source.Subscribe(p.ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to session events: %w", err)
	}

	p.safety = time.AfterFunc(p.loadingTimeout, p.forceLoaded)

	p.wg.Add(2)
	go p.initialLoad()
	go p.eventLoop(events)

	return nil
}

// Close tears the provider down: the subscription is released, the safety
// timer stopped, and no state writes happen afterwards.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		if p.safety != nil {
			p.safety.Stop()
		}
		p.wg.Wait()
	})
	return nil
}

// Snapshot returns a copy of the current read model.
func (p *Provider) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SignIn authenticates with the backend. On failure the error is returned
// to the caller and the read model is untouched. On success the session and
// profile are pulled immediately so the caller can act on the result
// without waiting for the asynchronous change event.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	session, err := p.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	version := p.nextVersion()
	profile := p.resolveProfile(ctx, session.User.ID)
	p.apply(version, func(s *State) {
		s.User = session.User
		s.Session = session
		s.Profile = profile
	})
	return nil
}

// SignUp creates a credential with the backend. No profile row is created
// and the read model does not change; onboarding creates the profile later,
// keyed by the returned user id.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*models.AuthUser, error) {
	return p.backend.SignUp(ctx, email, password)
}

// SignOut invalidates the session with the backend and clears the local
// state unconditionally. Local state must never remain authenticated after
// a sign-out intent, even when the backend call fails; the failure is
// logged and swallowed.
func (p *Provider) SignOut(ctx context.Context) {
	version := p.nextVersion()

	p.mu.RLock()
	session := p.state.Session
	p.mu.RUnlock()

	if session != nil {
		if err := p.backend.SignOut(ctx, session); err != nil {
			p.logger.Error("Sign-out call failed, clearing local state anyway", "error", err)
		}
	}

	p.apply(version, func(s *State) {
		s.User = nil
		s.Session = nil
		s.Profile = nil
	})
}

// RefreshProfile re-fetches the current user's profile row and replaces the
// cached copy. Without an authenticated user it is a no-op and makes no
// backend call.
func (p *Provider) RefreshProfile(ctx context.Context) {
	p.mu.RLock()
	user := p.state.User
	p.mu.RUnlock()

	if user == nil {
		return
	}

	version := p.nextVersion()
	profile := p.resolveProfile(ctx, user.ID)
	p.apply(version, func(s *State) {
		if s.User != nil && s.User.ID == user.ID {
			s.Profile = profile
		}
	})
}

// initialLoad performs the one-shot session fetch that races the safety
// timer. The timer never cancels this fetch; the fetch, on settling, stops
// the timer to avoid a redundant loading flip.
func (p *Provider) initialLoad() {
	defer p.wg.Done()

	version := p.nextVersion()
	session, err := p.backend.CurrentSession(p.ctx)
	p.safety.Stop()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Error("Initial session fetch failed, treating as anonymous", "error", err)
		}
		session = nil
	}

	if session == nil || session.User == nil {
		p.apply(version, func(s *State) {
			s.User = nil
			s.Session = nil
			s.Profile = nil
		})
		return
	}

	profile := p.resolveProfile(p.ctx, session.User.ID)
	p.apply(version, func(s *State) {
		s.User = session.User
		s.Session = session
		s.Profile = profile
	})
}

// eventLoop processes session-change notifications serially for the
// provider's lifetime. Each event is handled fully (profile fetch, then
// state write); bursts are not coalesced.
func (p *Provider) eventLoop(events <-chan models.SessionEvent) {
	defer p.wg.Done()

	for event := range events {
		p.handleSessionEvent(event)
	}
}

func (p *Provider) handleSessionEvent(event models.SessionEvent) {
	version := p.nextVersion()

	if event.Session == nil || event.Session.User == nil || event.Type == models.SessionSignedOut {
		p.apply(version, func(s *State) {
			s.User = nil
			s.Session = nil
			s.Profile = nil
		})
		return
	}

	session := event.Session
	profile := p.resolveProfile(p.ctx, session.User.ID)
	p.apply(version, func(s *State) {
		s.User = session.User
		s.Session = session
		s.Profile = profile
	})
}

// resolveProfile fetches the profile row for a user. A missing row is the
// expected empty state for a not-yet-onboarded user. Any other failure is
// logged and degraded to "no profile" so consumers fall back to the
// onboarding-required state instead of hard-failing.
func (p *Provider) resolveProfile(ctx context.Context, userID string) *models.Profile {
	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) && !errors.Is(err, context.Canceled) {
			p.logger.Error("Profile fetch failed, degrading to no profile", "user_id", userID, "error", err)
		}
		return nil
	}
	return profile
}

// nextVersion stamps an update at the moment it is issued.
func (p *Provider) nextVersion() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// apply commits a write unless a newer update has already been applied.
// Every applied write also resolves the loading state.
func (p *Provider) apply(version uint64, mutate func(*State)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if version < p.applied {
		p.logger.Debug("Discarding stale state write", "version", version, "applied", p.applied)
		return
	}
	p.applied = version
	mutate(&p.state)
	p.state.Loading = false
}

// forceLoaded flips Loading off when the safety timer fires before the
// initial fetch settles. User and profile are left untouched; they are
// still nil at this point since nothing else has completed.
func (p *Provider) forceLoaded() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Loading {
		p.logger.Warn("Initial session fetch did not settle in time, unblocking consumers")
		p.state.Loading = false
	}
}
