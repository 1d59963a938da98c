package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	actionSignIn = "signin"
	actionCode   = "code"

	codeBurstWindow = time.Minute
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter counts attempts per phone in fixed windows.
type Limiter struct {
	store         WindowStore
	perWindow     int
	window        time.Duration
	codesPerBurst int
}

func NewLimiter(store WindowStore, perWindow int, window time.Duration) *Limiter {
	if perWindow < 0 {
		perWindow = 0
	}
	if window <= 0 {
		window = 10 * time.Minute
	}

	return &Limiter{
		store:         store,
		perWindow:     perWindow,
		window:        window,
		codesPerBurst: 3,
	}
}

// AllowSignIn records one sign-in attempt and reports whether it may proceed.
// A zero retryAfterSec means allowed.
func (l *Limiter) AllowSignIn(ctx context.Context, phone string) (int64, bool, error) {
	return l.allow(ctx, actionSignIn, phone, l.perWindow, l.window)
}

func (l *Limiter) AllowCode(ctx context.Context, phone string) (int64, bool, error) {
	return l.allow(ctx, actionCode, phone, l.codesPerBurst, codeBurstWindow)
}

// RetryAfterSignIn reports how long a phone that used up its sign-in window
// must wait, without recording an attempt. Zero means not blocked.
func (l *Limiter) RetryAfterSignIn(ctx context.Context, phone string) (int64, error) {
	if strings.TrimSpace(phone) == "" {
		return 0, fmt.Errorf("invalid phone")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}
	if l.perWindow == 0 {
		return 0, nil
	}

	count, ttl, err := l.store.WindowState(ctx, key(actionSignIn, phone))
	if err != nil {
		return 0, err
	}
	if count >= int64(l.perWindow) {
		return ceilSeconds(ttl), nil
	}
	return 0, nil
}

func (l *Limiter) allow(ctx context.Context, action, phone string, limit int, window time.Duration) (int64, bool, error) {
	if strings.TrimSpace(phone) == "" {
		return 0, false, fmt.Errorf("invalid phone")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}
	if limit == 0 {
		return 0, true, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, key(action, phone), window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(limit) {
		return max(1, ceilSeconds(ttl)), false, nil
	}
	return 0, true, nil
}

func key(action, phone string) string {
	return "rate:" + action + ":" + phone
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
