package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestSignInWithPasswordReturnsSession(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		var body credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Email != "01012345678@gitty.app" {
			t.Errorf("unexpected email: %q", body.Email)
		}
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_at":1900000000,"user":{"id":"6f1c1f3e-1111-4c1e-9a1a-000000000001","email":"01012345678@gitty.app"}}`))
	})

	session, err := client.SignInWithPassword(context.Background(), "01012345678@gitty.app", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if session.AccessToken != "at" || session.RefreshToken != "rt" {
		t.Fatalf("unexpected tokens: %+v", session)
	}
	if session.User.ID.String() != "6f1c1f3e-1111-4c1e-9a1a-000000000001" {
		t.Fatalf("unexpected user id: %s", session.User.ID)
	}
	if session.ExpiresAt.Unix() != 1900000000 {
		t.Fatalf("unexpected expiry: %s", session.ExpiresAt)
	}
}

func TestSignInWithPasswordMapsInvalidGrant(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := client.SignInWithPassword(context.Background(), "a@b", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignOutSendsUserToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer at" {
			t.Errorf("unexpected Authorization: %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.SignOut(context.Background(), "at"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
}

func TestSignUpMapsExistingUser(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	})

	_, err := client.SignUp(context.Background(), "01012345678@gitty.app", "pw")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}
