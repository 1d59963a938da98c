package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gittyapp/backend/internal/domain/model"
)

// Context holds the signed-in identity and its profile for one client.
//
// Every asynchronous operation captures the generation when it starts and
// commits only if the generation is unchanged; OnSessionChange, SignOut and
// Close bump it so late results of superseded work are dropped.
type Context struct {
	auth     AuthGateway
	profiles ProfileSource
	logger   *zap.Logger

	mu         sync.Mutex
	phase      Phase
	user       *model.User
	session    *model.AuthSession
	profile    *model.Profile
	generation uint64
	closed     bool

	ready       chan struct{}
	readyOnce   sync.Once
	unsubscribe func()
}

func New(auth AuthGateway, profiles ProfileSource, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		auth:     auth,
		profiles: profiles,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Attach subscribes to bus. Events for other users are ignored.
func (c *Context) Attach(bus *Bus) {
	if bus == nil {
		return
	}
	unsubscribe := bus.Subscribe(func(ctx context.Context, ev Event) {
		if !c.concerns(ev) {
			return
		}
		c.OnSessionChange(ctx, ev)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		unsubscribe()
		return
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = unsubscribe
}

func (c *Context) concerns(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil && c.user.ID == ev.UserID
}

// Initialize runs the initial session check. Waiters are released when it
// returns, whatever the outcome.
func (c *Context) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase != PhaseUninitialized {
		c.mu.Unlock()
		return nil
	}
	c.phase = PhaseLoading
	gen := c.generation
	c.mu.Unlock()

	defer c.release()

	if c.auth == nil || c.profiles == nil {
		c.commitAnonymous(gen)
		return fmt.Errorf("session context dependencies are nil")
	}

	sess, err := c.auth.GetSession(ctx)
	if err != nil {
		c.logger.Error("session check failed", zap.Error(err))
		c.commitAnonymous(gen)
		return nil
	}
	if sess == nil {
		c.commitAnonymous(gen)
		return nil
	}

	profile, err := c.profiles.GetByID(ctx, sess.User.ID)
	switch {
	case err == nil:
		c.commitAuthenticated(gen, sess, &profile)
	case errors.Is(err, model.ErrProfileNotFound):
		c.logger.Warn("profile missing for session, signing out", zap.String("user_id", sess.User.ID.String()))
		if signOutErr := c.auth.SignOut(ctx); signOutErr != nil {
			c.logger.Error("forced sign-out failed", zap.Error(signOutErr))
		}
		c.commitAnonymous(gen)
	default:
		c.logger.Error("profile fetch failed", zap.String("user_id", sess.User.ID.String()), zap.Error(err))
		c.commitAnonymous(gen)
	}
	return nil
}

// Wait blocks until the initial check and its profile fetch have completed.
func (c *Context) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-c.ready:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Snapshot{}, ErrClosed
	}
	return c.snapshotLocked(), nil
}

func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OnSessionChange reloads or clears the cached identity after an external
// session change.
func (c *Context) OnSessionChange(ctx context.Context, ev Event) {
	gen, ok := c.bump()
	if !ok {
		return
	}

	if ev.Kind == EventSignedOut || ev.Session == nil || ev.Session.User.ID == uuid.Nil || c.profiles == nil {
		c.commitAnonymous(gen)
		return
	}

	profile, err := c.profiles.GetByID(ctx, ev.Session.User.ID)
	switch {
	case err == nil:
		c.commitAuthenticated(gen, ev.Session, &profile)
	case errors.Is(err, model.ErrProfileNotFound):
		c.logger.Warn("profile missing after session change", zap.String("event", string(ev.Kind)), zap.String("user_id", ev.Session.User.ID.String()))
		c.commitAnonymous(gen)
	default:
		c.logger.Error("profile reload failed", zap.String("event", string(ev.Kind)), zap.Error(err))
		c.commitSessionOnly(gen, ev.Session)
	}
}

// RefreshProfile re-reads the profile (the current user's when id is
// uuid.Nil). A found row replaces the cached profile before returning; a
// missing row keeps the cache and yields nil.
func (c *Context) RefreshProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if id == uuid.Nil && c.user != nil {
		id = c.user.ID
	}
	gen := c.generation
	c.mu.Unlock()

	if id == uuid.Nil || c.profiles == nil {
		return nil, nil
	}

	profile, err := c.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen && !c.closed && c.user != nil && c.user.ID == id {
		p := profile
		c.profile = &p
	}
	return &profile, nil
}

// SignOut ends the remote session and clears local state even when the
// remote call fails.
func (c *Context) SignOut(ctx context.Context) error {
	gen, ok := c.bump()
	if !ok {
		return ErrClosed
	}

	var err error
	if c.auth != nil {
		err = c.auth.SignOut(ctx)
	}
	c.commitAnonymous(gen)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Close detaches the context. Pending operations finish but their results
// are discarded, and waiters return ErrClosed.
func (c *Context) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.release()
}

func (c *Context) bump() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	c.generation++
	return c.generation, true
}

func (c *Context) release() {
	c.readyOnce.Do(func() { close(c.ready) })
}

func (c *Context) commitAnonymous(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.closed {
		return
	}
	c.phase = PhaseReady
	c.user = nil
	c.session = nil
	c.profile = nil
}

func (c *Context) commitAuthenticated(gen uint64, sess *model.AuthSession, profile *model.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.closed {
		return
	}
	s := *sess
	u := s.User
	p := *profile
	c.phase = PhaseReady
	c.session = &s
	c.user = &u
	c.profile = &p
}

// commitSessionOnly refreshes the session tokens and keeps the cached
// profile if it belongs to the same user.
func (c *Context) commitSessionOnly(gen uint64, sess *model.AuthSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.closed {
		return
	}
	if c.profile == nil || c.profile.ID != sess.User.ID {
		c.phase = PhaseReady
		c.user = nil
		c.session = nil
		c.profile = nil
		return
	}
	s := *sess
	u := s.User
	c.session = &s
	c.user = &u
}

func (c *Context) snapshotLocked() Snapshot {
	snap := Snapshot{Phase: c.phase}
	if c.user != nil && c.profile != nil && c.session != nil {
		snap.Authenticated = true
		snap.User = *c.user
		snap.Profile = *c.profile
		snap.Session = *c.session
	}
	return snap
}
