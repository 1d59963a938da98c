package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
	authsvc "github.com/gittyapp/backend/internal/services/auth"
	matchessvc "github.com/gittyapp/backend/internal/services/matches"
)

type matchStoreStub struct {
	rows     map[uuid.UUID]model.Match
	applyErr error
}

func (s *matchStoreStub) Create(_ context.Context, m model.Match) (model.Match, error) {
	m.ID = uuid.New()
	s.rows[m.ID] = m
	return m, nil
}

func (s *matchStoreStub) GetByID(_ context.Context, id uuid.UUID) (model.Match, error) {
	m, ok := s.rows[id]
	if !ok {
		return model.Match{}, model.ErrMatchNotFound
	}
	return m, nil
}

func (s *matchStoreStub) CurrentForUser(_ context.Context, userID uuid.UUID, _ string) (model.Match, error) {
	for _, m := range s.rows {
		if _, ok := m.SideOf(userID); ok {
			return m, nil
		}
	}
	return model.Match{}, model.ErrMatchNotFound
}

func (s *matchStoreStub) ListForUser(context.Context, uuid.UUID, int) ([]model.Match, error) {
	return nil, nil
}

func (s *matchStoreStub) ListAll(context.Context, int) ([]model.Match, error) {
	out := make([]model.Match, 0, len(s.rows))
	for _, m := range s.rows {
		out = append(out, m)
	}
	return out, nil
}

func (s *matchStoreStub) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.rows[id]; !ok {
		return model.ErrMatchNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *matchStoreStub) ApplyResponse(_ context.Context, id uuid.UUID, update rules.MatchUpdate, _ enums.Response) (model.Match, error) {
	if s.applyErr != nil {
		return model.Match{}, s.applyErr
	}
	m := update.Apply(s.rows[id])
	s.rows[id] = m
	return m, nil
}

func (s *matchStoreStub) MarkNoMatch(_ context.Context, id uuid.UUID) (model.Match, error) {
	m := s.rows[id]
	m.Status = enums.MatchStatusNoMatch
	s.rows[id] = m
	return m, nil
}

type matchFixture struct {
	handler *MatchesHandler
	store   *matchStoreStub
	match   model.Match
	userA   uuid.UUID
}

func newMatchFixture(t *testing.T, enforceDeadline bool) *matchFixture {
	t.Helper()
	userA, userB := uuid.New(), uuid.New()
	now := time.Now()
	m := model.Match{
		ID:               uuid.New(),
		UserA:            userA,
		UserB:            userB,
		CycleStart:       rules.StartOfDay(now, time.UTC),
		ResponseDeadline: now.Add(2 * time.Hour),
		ResultDate:       now.Add(20 * time.Hour),
		Status:           enums.MatchStatusWaiting,
	}
	store := &matchStoreStub{rows: map[uuid.UUID]model.Match{m.ID: m}}
	svc := matchessvc.NewService(matchessvc.Dependencies{Matches: store}, matchessvc.Config{
		Location:        time.UTC,
		EnforceDeadline: enforceDeadline,
	})
	return &matchFixture{handler: NewMatchesHandler(svc), store: store, match: m, userA: userA}
}

func respondRequest(t *testing.T, userID uuid.UUID, matchID string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/matches/"+matchID+"/respond", bytes.NewReader(payload))

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", matchID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	if userID != uuid.Nil {
		ctx = authsvc.WithIdentity(ctx, authsvc.Identity{UserID: userID, SID: "sid-1"})
	}
	return req.WithContext(ctx)
}

func decodeCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload.Code
}

func TestRespondRecordsAnswer(t *testing.T) {
	f := newMatchFixture(t, false)

	rr := httptest.NewRecorder()
	f.handler.Respond(rr, respondRequest(t, f.userA, f.match.ID.String(), map[string]any{"accept": true}))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	var payload struct {
		Status        string `json:"status"`
		MyResponse    *bool  `json:"my_response"`
		TheirResponse *bool  `json:"their_response"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "waiting" || payload.MyResponse == nil || !*payload.MyResponse {
		t.Fatalf("unexpected payload: %s", rr.Body.String())
	}
	if payload.TheirResponse != nil {
		t.Fatalf("unanswered side must be null")
	}
}

func TestRespondErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		enforce    bool
		prepare    func(*matchFixture)
		userID     func(*matchFixture) uuid.UUID
		matchID    func(*matchFixture) string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad id",
			matchID:    func(*matchFixture) string { return "not-a-uuid" },
			body:       map[string]any{"accept": true},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "missing accept",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "unknown match",
			matchID:    func(*matchFixture) string { return uuid.NewString() },
			body:       map[string]any{"accept": true},
			wantStatus: http.StatusNotFound,
			wantCode:   "MATCH_NOT_FOUND",
		},
		{
			name:       "not participant",
			userID:     func(*matchFixture) uuid.UUID { return uuid.New() },
			body:       map[string]any{"accept": true},
			wantStatus: http.StatusForbidden,
			wantCode:   "NOT_PARTICIPANT",
		},
		{
			name:       "lost concurrent update",
			prepare:    func(f *matchFixture) { f.store.applyErr = model.ErrStaleWrite },
			body:       map[string]any{"accept": true},
			wantStatus: http.StatusConflict,
			wantCode:   "MATCH_CONFLICT",
		},
		{
			name: "closed",
			prepare: func(f *matchFixture) {
				m := f.store.rows[f.match.ID]
				m.Status = enums.MatchStatusNoMatch
				f.store.rows[f.match.ID] = m
			},
			body:       map[string]any{"accept": true},
			wantStatus: http.StatusConflict,
			wantCode:   "MATCH_CLOSED",
		},
		{
			name:    "deadline passed",
			enforce: true,
			prepare: func(f *matchFixture) {
				m := f.store.rows[f.match.ID]
				m.ResponseDeadline = time.Now().Add(-time.Minute)
				f.store.rows[f.match.ID] = m
			},
			body:       map[string]any{"accept": false},
			wantStatus: http.StatusGone,
			wantCode:   "DEADLINE_PASSED",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMatchFixture(t, tc.enforce)
			if tc.prepare != nil {
				tc.prepare(f)
			}
			userID := f.userA
			if tc.userID != nil {
				userID = tc.userID(f)
			}
			matchID := f.match.ID.String()
			if tc.matchID != nil {
				matchID = tc.matchID(f)
			}

			rr := httptest.NewRecorder()
			f.handler.Respond(rr, respondRequest(t, userID, matchID, tc.body))

			if rr.Code != tc.wantStatus {
				t.Fatalf("unexpected status: got %d want %d (%s)", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if code := decodeCode(t, rr); code != tc.wantCode {
				t.Fatalf("unexpected error code: got %q want %q", code, tc.wantCode)
			}
		})
	}
}

func TestRespondRequiresIdentity(t *testing.T) {
	f := newMatchFixture(t, false)

	rr := httptest.NewRecorder()
	f.handler.Respond(rr, respondRequest(t, uuid.Nil, f.match.ID.String(), map[string]any{"accept": true}))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestCurrentWithoutMatchReturnsNull(t *testing.T) {
	f := newMatchFixture(t, false)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/current", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: uuid.New(), SID: "sid-2"}))
	rr := httptest.NewRecorder()
	f.handler.Current(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	if got := bytes.TrimSpace(rr.Body.Bytes()); string(got) != `{"match":null}` {
		t.Fatalf("unexpected body: %s", got)
	}
}
