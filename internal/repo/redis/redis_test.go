package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	authsvc "github.com/gittyapp/backend/internal/services/auth"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := NewClient(mini.Addr(), "", 0)
	t.Cleanup(func() {
		_ = client.Close()
		mini.Close()
	})
	return client, mini
}

func TestSessionRepoStoresRemoteTokens(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	userID := uuid.New()
	remoteExpires := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	record := authsvc.SessionRecord{
		SID:       "sid-1",
		UserID:    userID,
		Email:     "01012345678@gitty.app",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Remote: model.AuthSession{
			AccessToken:  "remote-access",
			RefreshToken: "remote-refresh",
			ExpiresAt:    remoteExpires,
		},
	}
	if err := repo.Create(ctx, record, "refresh-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetSession(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != userID || got.Remote.AccessToken != "remote-access" || !got.Remote.ExpiresAt.Equal(remoteExpires) {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Remote.User.ID != userID {
		t.Fatalf("remote user must be restored")
	}

	byRefresh, err := repo.GetByRefreshToken(ctx, "refresh-1")
	if err != nil || byRefresh.SID != "sid-1" || byRefresh.Remote.RefreshToken != "remote-refresh" {
		t.Fatalf("lookup by refresh token: %+v %v", byRefresh, err)
	}

	if err := repo.UpdateRemote(ctx, "sid-1", model.AuthSession{AccessToken: "next-access", RefreshToken: "next-refresh"}); err != nil {
		t.Fatalf("update remote: %v", err)
	}
	got, err = repo.GetSession(ctx, "sid-1")
	if err != nil || got.Remote.AccessToken != "next-access" || !got.Remote.ExpiresAt.IsZero() {
		t.Fatalf("remote tokens not updated: %+v %v", got, err)
	}

	if err := repo.UpdateRemote(ctx, "missing", model.AuthSession{}); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepoRotateAndDelete(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	userID := uuid.New()
	for _, sid := range []string{"sid-a", "sid-b"} {
		record := authsvc.SessionRecord{SID: sid, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
		if err := repo.Create(ctx, record, "refresh-"+sid); err != nil {
			t.Fatalf("create %s: %v", sid, err)
		}
	}

	if err := repo.RotateRefresh(ctx, "sid-a", "refresh-sid-a", "refresh-sid-a2", time.Now().Add(2*time.Hour)); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := repo.GetByRefreshToken(ctx, "refresh-sid-a"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("old refresh token must be gone, got %v", err)
	}
	if err := repo.RotateRefresh(ctx, "sid-b", "refresh-sid-a2", "x", time.Now().Add(time.Hour)); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("rotating another session's token must fail, got %v", err)
	}

	sids, err := repo.ListForUser(ctx, userID)
	if err != nil || len(sids) != 2 {
		t.Fatalf("expected two sessions, got %v %v", sids, err)
	}

	if err := repo.DeleteAllForUser(ctx, userID); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	for _, sid := range []string{"sid-a", "sid-b"} {
		if _, err := repo.GetSession(ctx, sid); !errors.Is(err, authsvc.ErrSessionNotFound) {
			t.Fatalf("%s must be deleted, got %v", sid, err)
		}
	}
	if _, err := repo.GetByRefreshToken(ctx, "refresh-sid-a2"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("refresh pointer must be deleted, got %v", err)
	}
}

func TestCacheRepoRoundTripAndExpiry(t *testing.T) {
	client, mini := newTestClient(t)
	repo := NewCacheRepo(client, time.Minute)
	ctx := context.Background()

	id := uuid.New()
	interests, err := model.NewInterestSet(enums.InterestCafe, enums.InterestMusic)
	if err != nil {
		t.Fatalf("interests: %v", err)
	}
	height := 168
	profile := model.Profile{
		ID:        id,
		Name:      "이서연",
		Gender:    enums.GenderFemale,
		BirthYear: 1997,
		Interests: interests,
		HeightCM:  &height,
	}

	if _, ok, err := repo.GetProfile(ctx, id); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := repo.SetProfile(ctx, profile); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := repo.GetProfile(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != "이서연" || !got.Interests.Equal(interests) || got.HeightCM == nil || *got.HeightCM != 168 {
		t.Fatalf("unexpected cached profile: %+v", got)
	}

	mini.FastForward(2 * time.Minute)
	if _, ok, _ := repo.GetProfile(ctx, id); ok {
		t.Fatalf("entry must expire after ttl")
	}

	if err := repo.SetProfile(ctx, profile); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.DeleteProfile(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.GetProfile(ctx, id); ok {
		t.Fatalf("entry must be deleted")
	}
}

func TestRateRepoWindow(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewRateRepo(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, ttl, err := repo.IncrementWindow(ctx, "rate:test", time.Minute)
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if count != want || ttl <= 0 {
			t.Fatalf("unexpected window: count=%d ttl=%s", count, ttl)
		}
	}

	count, _, err := repo.WindowState(ctx, "rate:test")
	if err != nil || count != 3 {
		t.Fatalf("unexpected state: %d %v", count, err)
	}
	if count, _, err := repo.WindowState(ctx, "rate:none"); err != nil || count != 0 {
		t.Fatalf("unknown key must be empty: %d %v", count, err)
	}
}
