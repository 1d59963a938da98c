package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/infra/supabase"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	"github.com/gittyapp/backend/internal/services/session"
)

const (
	MinRefreshTTL = 30 * 24 * time.Hour
	MaxRefreshTTL = 90 * 24 * time.Hour

	remoteExpirySkew = 30 * time.Second
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord, refreshToken string) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
	RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error
	UpdateRemote(ctx context.Context, sid string, remote model.AuthSession) error
	DeleteSession(ctx context.Context, sid string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// RemoteAuth is the hosted auth API.
type RemoteAuth interface {
	SignUp(ctx context.Context, email, password string) (model.AuthSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (model.AuthSession, error)
	RefreshSession(ctx context.Context, refreshToken string) (model.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

type ProfileRegistrar interface {
	Validate(in profilesvc.Input) error
	Create(ctx context.Context, userID uuid.UUID, phone string, in profilesvc.Input, marketing bool) (model.Profile, error)
}

type AttemptLimiter interface {
	RetryAfterSignIn(ctx context.Context, phone string) (int64, error)
	AllowSignIn(ctx context.Context, phone string) (int64, bool, error)
	AllowCode(ctx context.Context, phone string) (int64, bool, error)
}

type Dependencies struct {
	JWT         *JWTManager
	Sessions    SessionStore
	Remote      RemoteAuth
	Profiles    ProfileRegistrar
	Limiter     AttemptLimiter
	Verifier    CodeVerifier
	Credentials *Credentials
	Bus         *session.Bus
	Logger      *zap.Logger
}

type Service struct {
	jwt         *JWTManager
	sessions    SessionStore
	remote      RemoteAuth
	profiles    ProfileRegistrar
	limiter     AttemptLimiter
	verifier    CodeVerifier
	credentials *Credentials
	bus         *session.Bus
	logger      *zap.Logger
	refreshTTL  time.Duration
	now         func() time.Time
}

type SignUpInput struct {
	Phone      string
	Code       string
	Agreements Agreements
	Profile    profilesvc.Input
}

func NewService(deps Dependencies, refreshTTL time.Duration) *Service {
	if refreshTTL < MinRefreshTTL {
		refreshTTL = MinRefreshTTL
	}
	if refreshTTL > MaxRefreshTTL {
		refreshTTL = MaxRefreshTTL
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		jwt:         deps.JWT,
		sessions:    deps.Sessions,
		remote:      deps.Remote,
		profiles:    deps.Profiles,
		limiter:     deps.Limiter,
		verifier:    deps.Verifier,
		credentials: deps.Credentials,
		bus:         deps.Bus,
		logger:      logger,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}
}

// SendCode starts phone verification.
func (s *Service) SendCode(ctx context.Context, rawPhone string) error {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return err
	}
	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.AllowCode(ctx, phone)
		if err != nil {
			return fmt.Errorf("check code rate: %w", err)
		}
		if !allowed {
			return &RateLimitError{RetryAfterSec: retryAfter}
		}
	}
	if s.verifier == nil {
		return fmt.Errorf("code verifier is nil")
	}
	if err := s.verifier.Send(ctx, phone); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	if err := s.ready(); err != nil {
		return AuthResult{}, err
	}
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.verifier.Verify(ctx, phone, in.Code); err != nil {
		return AuthResult{}, err
	}
	if !in.Agreements.RequiredAccepted() {
		return AuthResult{}, ErrAgreementRequired
	}
	if s.profiles == nil {
		return AuthResult{}, fmt.Errorf("profile registrar is nil")
	}
	if err := s.profiles.Validate(in.Profile); err != nil {
		return AuthResult{}, err
	}

	email := s.credentials.Email(phone)
	password := s.credentials.Password(phone)
	remote, err := s.remote.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, supabase.ErrUserExists) {
			return AuthResult{}, ErrAlreadyRegistered
		}
		return AuthResult{}, fmt.Errorf("remote sign up: %w", err)
	}
	if remote.AccessToken == "" {
		remote, err = s.remote.SignInWithPassword(ctx, email, password)
		if err != nil {
			return AuthResult{}, fmt.Errorf("remote sign in after sign up: %w", err)
		}
	}

	profileCtx := supabase.WithAccessToken(ctx, remote.AccessToken)
	if _, err := s.profiles.Create(profileCtx, remote.User.ID, phone, in.Profile, in.Agreements.Marketing); err != nil {
		s.remoteSignOut(ctx, remote.AccessToken)
		if errors.Is(err, profilesvc.ErrExists) {
			return AuthResult{}, ErrAlreadyRegistered
		}
		return AuthResult{}, fmt.Errorf("create profile: %w", err)
	}

	return s.openSession(ctx, phone, remote)
}

func (s *Service) SignIn(ctx context.Context, rawPhone, code string) (AuthResult, error) {
	if err := s.ready(); err != nil {
		return AuthResult{}, err
	}
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return AuthResult{}, err
	}
	if s.limiter != nil {
		blockedFor, err := s.limiter.RetryAfterSignIn(ctx, phone)
		if err != nil {
			return AuthResult{}, fmt.Errorf("check sign-in rate: %w", err)
		}
		if blockedFor > 0 {
			return AuthResult{}, &RateLimitError{RetryAfterSec: blockedFor}
		}
		retryAfter, allowed, err := s.limiter.AllowSignIn(ctx, phone)
		if err != nil {
			return AuthResult{}, fmt.Errorf("check sign-in rate: %w", err)
		}
		if !allowed {
			return AuthResult{}, &RateLimitError{RetryAfterSec: retryAfter}
		}
	}
	if err := s.verifier.Verify(ctx, phone, code); err != nil {
		return AuthResult{}, err
	}

	remote, err := s.remote.SignInWithPassword(ctx, s.credentials.Email(phone), s.credentials.Password(phone))
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			return AuthResult{}, ErrNotRegistered
		}
		return AuthResult{}, fmt.Errorf("remote sign in: %w", err)
	}

	return s.openSession(ctx, phone, remote)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	record, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get refresh token session: %w", err)
	}
	if s.now().After(record.ExpiresAt) {
		return AuthResult{}, ErrUnauthorized
	}

	newRefreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	newExpiresAt := s.now().Add(s.refreshTTL)
	if err := s.sessions.RotateRefresh(ctx, record.SID, refreshToken, newRefreshToken, newExpiresAt); err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(record.UserID, record.SID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  newRefreshToken,
		AccessExpires: accessExpires,
		Me:            meFor(record),
	}, nil
}

// Logout ends one BFF session and its hosted-auth session.
func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}

	record, getErr := s.sessions.GetSession(ctx, sid)
	if getErr != nil && !errors.Is(getErr, ErrSessionNotFound) {
		return fmt.Errorf("get session: %w", getErr)
	}
	found := getErr == nil
	if found {
		s.remoteSignOut(ctx, record.Remote.AccessToken)
	}

	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if found {
		s.publish(ctx, session.Event{Kind: session.EventSignedOut, UserID: record.UserID})
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}

	sids, err := s.sessions.ListForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, sid := range sids {
		record, err := s.sessions.GetSession(ctx, sid)
		if err != nil {
			continue
		}
		s.remoteSignOut(ctx, record.Remote.AccessToken)
	}

	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	s.publish(ctx, session.Event{Kind: session.EventSignedOut, UserID: userID})
	return nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	record, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if record.UserID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(record.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

// RemoteSession returns the hosted-auth session behind a BFF session,
// refreshing the remote tokens when they are about to expire. A missing or
// revoked session yields nil without error.
func (s *Service) RemoteSession(ctx context.Context, sid string) (*model.AuthSession, error) {
	record, err := s.sessions.GetSession(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s.now().After(record.ExpiresAt) {
		return nil, nil
	}

	remote := record.Remote
	if remote.AccessToken == "" {
		return nil, nil
	}
	if !remote.Expired(s.now().Add(remoteExpirySkew)) {
		return &remote, nil
	}

	if s.remote == nil {
		return nil, fmt.Errorf("remote auth is nil")
	}
	refreshed, err := s.remote.RefreshSession(ctx, remote.RefreshToken)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			s.logger.Info("remote refresh token revoked, dropping session", zap.String("user_id", record.UserID.String()))
			if delErr := s.sessions.DeleteSession(ctx, sid); delErr != nil {
				s.logger.Warn("delete revoked session failed", zap.Error(delErr))
			}
			s.publish(ctx, session.Event{Kind: session.EventSignedOut, UserID: record.UserID})
			return nil, nil
		}
		return nil, fmt.Errorf("refresh remote session: %w", err)
	}
	if refreshed.User.ID == uuid.Nil {
		refreshed.User = remote.User
	}

	if err := s.sessions.UpdateRemote(ctx, sid, refreshed); err != nil {
		return nil, fmt.Errorf("store refreshed remote session: %w", err)
	}
	s.publish(ctx, session.Event{Kind: session.EventTokenRefreshed, UserID: record.UserID, Session: &refreshed})
	return &refreshed, nil
}

// SessionGateway binds the session context to one BFF session.
func (s *Service) SessionGateway(sid string) session.AuthGateway {
	return &sessionGateway{svc: s, sid: sid}
}

// NotifyUserUpdated tells attached session contexts to reload the profile.
func (s *Service) NotifyUserUpdated(ctx context.Context, sid string) {
	remote, err := s.RemoteSession(ctx, sid)
	if err != nil || remote == nil {
		return
	}
	s.publish(ctx, session.Event{Kind: session.EventUserUpdated, UserID: remote.User.ID, Session: remote})
}

func (s *Service) openSession(ctx context.Context, phone string, remote model.AuthSession) (AuthResult, error) {
	if remote.User.ID == uuid.Nil {
		return AuthResult{}, fmt.Errorf("remote session has no user id")
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate session id: %w", err)
	}
	refreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	record := SessionRecord{
		SID:       sessionID,
		UserID:    remote.User.ID,
		Email:     remote.User.Email,
		ExpiresAt: s.now().Add(s.refreshTTL),
		Remote:    remote,
	}
	if err := s.sessions.Create(ctx, record, refreshToken); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(record.UserID, sessionID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	s.publish(ctx, session.Event{Kind: session.EventSignedIn, UserID: record.UserID, Session: &remote})
	s.logger.Info("session opened", zap.String("user_id", record.UserID.String()))

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		Me:            Me{ID: record.UserID, Phone: phone},
	}, nil
}

func (s *Service) ready() error {
	switch {
	case s.remote == nil:
		return fmt.Errorf("remote auth is nil")
	case s.verifier == nil:
		return fmt.Errorf("code verifier is nil")
	case s.credentials == nil:
		return fmt.Errorf("credentials are nil")
	case s.sessions == nil:
		return fmt.Errorf("session store is nil")
	}
	return nil
}

func (s *Service) remoteSignOut(ctx context.Context, accessToken string) {
	if s.remote == nil || accessToken == "" {
		return
	}
	if err := s.remote.SignOut(ctx, accessToken); err != nil {
		s.logger.Warn("remote sign out failed", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, ev session.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, ev)
}

func meFor(record SessionRecord) Me {
	phone, _, _ := strings.Cut(record.Email, "@")
	return Me{ID: record.UserID, Phone: phone}
}

type sessionGateway struct {
	svc *Service
	sid string
}

func (g *sessionGateway) GetSession(ctx context.Context) (*model.AuthSession, error) {
	if g.sid == "" {
		return nil, nil
	}
	return g.svc.RemoteSession(ctx, g.sid)
}

func (g *sessionGateway) SignOut(ctx context.Context) error {
	if g.sid == "" {
		return nil
	}
	return g.svc.Logout(ctx, g.sid)
}
