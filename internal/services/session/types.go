package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
)

var ErrClosed = errors.New("session context closed")

type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// Snapshot is a consistent copy of the context state. Profile and Session are
// set only when Authenticated is true.
type Snapshot struct {
	Phase         Phase
	Authenticated bool
	User          model.User
	Profile       model.Profile
	Session       model.AuthSession
}

type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
	EventUserUpdated    EventKind = "USER_UPDATED"
)

// Event is a session-change notification. Session is nil for sign-out.
type Event struct {
	Kind    EventKind
	UserID  uuid.UUID
	Session *model.AuthSession
}

// AuthGateway exposes the remote session bound to one client. GetSession
// returns nil without error when there is no session.
type AuthGateway interface {
	GetSession(ctx context.Context) (*model.AuthSession, error)
	SignOut(ctx context.Context) error
}

// ProfileSource returns model.ErrProfileNotFound for a missing row.
type ProfileSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error)
}

type snapshotContextKey struct{}

func WithSnapshot(ctx context.Context, snap Snapshot) context.Context {
	return context.WithValue(ctx, snapshotContextKey{}, snap)
}

func SnapshotFromContext(ctx context.Context) (Snapshot, bool) {
	snap, ok := ctx.Value(snapshotContextKey{}).(Snapshot)
	return snap, ok
}
