package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSessionNotFound   = errors.New("session not found")
	ErrRefreshNotFound   = errors.New("refresh token not found")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrAgreementRequired = errors.New("required agreements are missing")
	ErrNotRegistered     = errors.New("phone is not registered")
	ErrAlreadyRegistered = errors.New("phone is already registered")
	ErrRateLimited       = errors.New("too many attempts")
)

type RateLimitError struct {
	RetryAfterSec int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%v: retry after %ds", ErrRateLimited, e.RetryAfterSec)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// SessionRecord is one BFF session. Remote holds the hosted-auth tokens used
// on the client's behalf.
type SessionRecord struct {
	SID       string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
	Remote    model.AuthSession
}

type AccessClaims struct {
	UserID    uuid.UUID
	SID       string
	ExpiresAt time.Time
}

type Me struct {
	ID    uuid.UUID
	Phone string
}

type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	Me            Me
}

type Agreements struct {
	Age       bool
	Terms     bool
	Privacy   bool
	Marketing bool
}

func (a Agreements) RequiredAccepted() bool {
	return a.Age && a.Terms && a.Privacy
}
