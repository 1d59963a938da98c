package apiapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/infra/supabase"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	"github.com/gittyapp/backend/internal/services/session"
)

// boundGateway remembers the access token of the last session it returned so
// profile reads made by the session context run as that user.
type boundGateway struct {
	inner session.AuthGateway

	mu    sync.Mutex
	token string
}

func newBoundGateway(inner session.AuthGateway) *boundGateway {
	return &boundGateway{inner: inner}
}

func (g *boundGateway) GetSession(ctx context.Context) (*model.AuthSession, error) {
	sess, err := g.inner.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if sess != nil {
		g.token = sess.AccessToken
	} else {
		g.token = ""
	}
	g.mu.Unlock()
	return sess, nil
}

func (g *boundGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
	return g.inner.SignOut(ctx)
}

func (g *boundGateway) accessToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

type boundProfiles struct {
	gateway  *boundGateway
	profiles session.ProfileSource
}

func (p *boundProfiles) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	if p.profiles == nil {
		return model.Profile{}, fmt.Errorf("profile source is nil")
	}
	if token := p.gateway.accessToken(); token != "" {
		ctx = supabase.WithAccessToken(ctx, token)
	}
	return p.profiles.GetByID(ctx, id)
}

// storedProfiles reads the signed-in profile from storage on every request,
// so a removed row ends the session without waiting for the cache TTL.
type storedProfiles struct {
	profiles *profilesvc.Service
}

func (p storedProfiles) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	return p.profiles.Lookup(ctx, id)
}
