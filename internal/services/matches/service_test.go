package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
)

type fakeMatchStore struct {
	rows        map[uuid.UUID]model.Match
	applyCalls  int
	lastLimit   int
	sinceSeen   string
	beforeApply func(*fakeMatchStore, uuid.UUID)
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{rows: map[uuid.UUID]model.Match{}}
}

func (f *fakeMatchStore) Create(_ context.Context, m model.Match) (model.Match, error) {
	for _, existing := range f.rows {
		if existing.CycleDate() != m.CycleDate() {
			continue
		}
		if _, ok := existing.SideOf(m.UserA); ok {
			return model.Match{}, model.ErrAlreadyPaired
		}
		if _, ok := existing.SideOf(m.UserB); ok {
			return model.Match{}, model.ErrAlreadyPaired
		}
	}
	m.ID = uuid.New()
	f.rows[m.ID] = m
	return m, nil
}

func (f *fakeMatchStore) GetByID(_ context.Context, id uuid.UUID) (model.Match, error) {
	m, ok := f.rows[id]
	if !ok {
		return model.Match{}, model.ErrMatchNotFound
	}
	return m, nil
}

func (f *fakeMatchStore) CurrentForUser(_ context.Context, userID uuid.UUID, since string) (model.Match, error) {
	f.sinceSeen = since
	var best *model.Match
	for _, m := range f.rows {
		m := m
		if _, ok := m.SideOf(userID); !ok || m.CycleDate() < since {
			continue
		}
		if best == nil || m.CycleStart.After(best.CycleStart) {
			best = &m
		}
	}
	if best == nil {
		return model.Match{}, model.ErrMatchNotFound
	}
	return *best, nil
}

func (f *fakeMatchStore) ListForUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Match, error) {
	f.lastLimit = limit
	var out []model.Match
	for _, m := range f.rows {
		if _, ok := m.SideOf(userID); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchStore) ListAll(_ context.Context, limit int) ([]model.Match, error) {
	f.lastLimit = limit
	out := make([]model.Match, 0, len(f.rows))
	for _, m := range f.rows {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMatchStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return model.ErrMatchNotFound
	}
	delete(f.rows, id)
	return nil
}

// ApplyResponse mirrors the guarded UPDATE of the SQL and REST stores.
func (f *fakeMatchStore) ApplyResponse(_ context.Context, id uuid.UUID, update rules.MatchUpdate, expectedOther enums.Response) (model.Match, error) {
	f.applyCalls++
	if f.beforeApply != nil {
		f.beforeApply(f, id)
	}
	m, ok := f.rows[id]
	if !ok {
		return model.Match{}, model.ErrStaleWrite
	}
	if m.Status != enums.MatchStatusWaiting || m.ResponseOf(update.Side).IsSet() || m.ResponseOf(update.Side.Other()) != expectedOther {
		return model.Match{}, model.ErrStaleWrite
	}
	m = update.Apply(m)
	f.rows[id] = m
	return m, nil
}

func (f *fakeMatchStore) MarkNoMatch(_ context.Context, id uuid.UUID) (model.Match, error) {
	m, ok := f.rows[id]
	if !ok || m.Status != enums.MatchStatusWaiting || m.ResponseA.IsSet() || m.ResponseB.IsSet() {
		return model.Match{}, model.ErrStaleWrite
	}
	m.Status = enums.MatchStatusNoMatch
	f.rows[id] = m
	return m, nil
}

type fakeProfiles map[uuid.UUID]model.Profile

func (f fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (model.Profile, error) {
	p, ok := f[id]
	if !ok {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return p, nil
}

type fixture struct {
	svc    *Service
	store  *fakeMatchStore
	male   model.Profile
	female model.Profile
	now    time.Time
}

func newFixture(t *testing.T, enforceDeadline bool) *fixture {
	t.Helper()

	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	f := &fixture{
		store: newFakeMatchStore(),
		male: model.Profile{
			ID: uuid.New(), Name: "김민준", Gender: enums.GenderMale, BirthYear: 1995, KakaoID: "minjun95",
		},
		female: model.Profile{
			ID: uuid.New(), Name: "이서연", Gender: enums.GenderFemale, BirthYear: 1997, KakaoID: "seoyeon97",
		},
		now: time.Date(2026, time.March, 10, 14, 30, 0, 0, seoul),
	}
	profiles := fakeProfiles{f.male.ID: f.male, f.female.ID: f.female}

	f.svc = NewService(Dependencies{Matches: f.store, Profiles: profiles}, Config{
		Location:        seoul,
		EnforceDeadline: enforceDeadline,
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) create(t *testing.T) model.Match {
	t.Helper()
	m, err := f.svc.Create(context.Background(), f.male.ID, f.female.ID)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func TestCreateComputesCycle(t *testing.T) {
	f := newFixture(t, false)
	m := f.create(t)

	if m.Status != enums.MatchStatusWaiting || m.ResponseA.IsSet() || m.ResponseB.IsSet() {
		t.Fatalf("new match must be waiting with no responses: %+v", m)
	}
	if m.CycleDate() != "2026-03-10" {
		t.Fatalf("unexpected cycle start: %s", m.CycleDate())
	}
	if got := m.ResponseDeadline.In(f.now.Location()); got.Hour() != 22 || got.Day() != 10 {
		t.Fatalf("unexpected deadline: %s", got)
	}
	if got := m.ResultDate.In(f.now.Location()); got.Hour() != 17 || got.Day() != 11 {
		t.Fatalf("unexpected result date: %s", got)
	}

	if _, err := f.svc.Create(context.Background(), f.male.ID, f.female.ID); !errors.Is(err, ErrAlreadyPaired) {
		t.Fatalf("expected ErrAlreadyPaired, got %v", err)
	}
}

func TestCreateRejectsInvalidPairs(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.male.ID, f.male.ID); !errors.Is(err, ErrInvalidPair) {
		t.Fatalf("same user: expected ErrInvalidPair, got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.female.ID, f.male.ID); !errors.Is(err, ErrInvalidPair) {
		t.Fatalf("swapped genders: expected ErrInvalidPair, got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.male.ID, uuid.New()); !errors.Is(err, ErrInvalidPair) {
		t.Fatalf("unknown user: expected ErrInvalidPair, got %v", err)
	}
}

func TestRespondBothAcceptMatches(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	m := f.create(t)

	view, err := f.svc.Respond(ctx, f.male.ID, m.ID, true)
	if err != nil {
		t.Fatalf("first response: %v", err)
	}
	if view.Match.Status != enums.MatchStatusWaiting || view.MyResponse != enums.ResponseAccepted {
		t.Fatalf("one answer must keep the match waiting: %+v", view.Match)
	}
	if view.Counterpart.KakaoID != "" || view.Counterpart.Name != "이**" {
		t.Fatalf("counterpart must stay masked: %+v", view.Counterpart)
	}

	view, err = f.svc.Respond(ctx, f.female.ID, m.ID, true)
	if err != nil {
		t.Fatalf("second response: %v", err)
	}
	if view.Match.Status != enums.MatchStatusMatched || !view.Revealed {
		t.Fatalf("expected matched, got %s", view.Match.Status)
	}
	if view.Counterpart.Name != "김민준" || view.Counterpart.KakaoID != "minjun95" {
		t.Fatalf("matched counterpart must be revealed: %+v", view.Counterpart)
	}
	if view.TheirResponse != enums.ResponseAccepted {
		t.Fatalf("their response must be visible after answering")
	}
}

func TestRespondDeclineRejects(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	m := f.create(t)

	if _, err := f.svc.Respond(ctx, f.male.ID, m.ID, false); err != nil {
		t.Fatalf("decline: %v", err)
	}
	view, err := f.svc.Respond(ctx, f.female.ID, m.ID, true)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if view.Match.Status != enums.MatchStatusRejected {
		t.Fatalf("expected rejected, got %s", view.Match.Status)
	}
	if view.Counterpart.KakaoID != "" {
		t.Fatalf("rejected match must not reveal contact")
	}
}

func TestRespondRepeatAndChange(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	m := f.create(t)

	if _, err := f.svc.Respond(ctx, f.male.ID, m.ID, true); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if _, err := f.svc.Respond(ctx, f.female.ID, m.ID, false); err != nil {
		t.Fatalf("respond: %v", err)
	}
	calls := f.store.applyCalls

	view, err := f.svc.Respond(ctx, f.male.ID, m.ID, true)
	if err != nil {
		t.Fatalf("identical repeat must succeed: %v", err)
	}
	if view.Match.Status != enums.MatchStatusRejected {
		t.Fatalf("repeat must not change status: %s", view.Match.Status)
	}
	if f.store.applyCalls != calls {
		t.Fatalf("repeat must not write")
	}

	if _, err := f.svc.Respond(ctx, f.male.ID, m.ID, false); !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("expected ErrAlreadyResponded, got %v", err)
	}
}

func TestRespondGuards(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	m := f.create(t)

	if _, err := f.svc.Respond(ctx, uuid.New(), m.ID, true); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, f.male.ID, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := f.svc.MarkNoMatch(ctx, m.ID); err != nil {
		t.Fatalf("mark no match: %v", err)
	}
	if _, err := f.svc.Respond(ctx, f.male.ID, m.ID, true); !errors.Is(err, ErrMatchClosed) {
		t.Fatalf("expected ErrMatchClosed, got %v", err)
	}
}

func TestRespondDeadlinePolicy(t *testing.T) {
	for _, enforce := range []bool{false, true} {
		f := newFixture(t, enforce)
		m := f.create(t)
		f.now = m.ResponseDeadline.Add(time.Minute)

		_, err := f.svc.Respond(context.Background(), f.male.ID, m.ID, true)
		if enforce && !errors.Is(err, ErrDeadlinePassed) {
			t.Fatalf("enforced: expected ErrDeadlinePassed, got %v", err)
		}
		if !enforce && err != nil {
			t.Fatalf("not enforced: late response must be accepted, got %v", err)
		}
	}
}

func TestRespondConcurrentUpdateConflicts(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	m := f.create(t)

	f.store.beforeApply = func(s *fakeMatchStore, id uuid.UUID) {
		s.beforeApply = nil
		row := s.rows[id]
		row.ResponseB = enums.ResponseAccepted
		s.rows[id] = row
	}

	if _, err := f.svc.Respond(ctx, f.male.ID, m.ID, true); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if f.store.applyCalls != 1 {
		t.Fatalf("conflict must not be retried, got %d writes", f.store.applyCalls)
	}

	view, err := f.svc.Respond(ctx, f.male.ID, m.ID, true)
	if err != nil {
		t.Fatalf("explicit retry: %v", err)
	}
	if view.Match.Status != enums.MatchStatusMatched {
		t.Fatalf("retry must see the other answer, got %s", view.Match.Status)
	}
}

func TestCurrent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	if _, ok, err := f.svc.Current(ctx, f.male.ID); err != nil || ok {
		t.Fatalf("expected no current match, got ok=%v err=%v", ok, err)
	}

	f.create(t)
	view, ok, err := f.svc.Current(ctx, f.male.ID)
	if err != nil || !ok {
		t.Fatalf("current: ok=%v err=%v", ok, err)
	}
	if f.store.sinceSeen != "2026-03-10" {
		t.Fatalf("current must look from today's local date, got %s", f.store.sinceSeen)
	}
	if view.MySide != enums.SideA || view.Counterpart == nil {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Counterpart.Age != 30 {
		t.Fatalf("expected korean age 30, got %d", view.Counterpart.Age)
	}
	if view.TimeRemaining != "7시간 30분 남음" {
		t.Fatalf("unexpected time remaining: %q", view.TimeRemaining)
	}
	if view.TheirResponse.IsSet() {
		t.Fatalf("their response must be hidden before answering")
	}

	f.now = f.now.Add(24 * time.Hour)
	if _, ok, _ := f.svc.Current(ctx, f.male.ID); ok {
		t.Fatalf("yesterday's match must not be current")
	}
}

func TestHistoryLimit(t *testing.T) {
	f := newFixture(t, false)
	f.create(t)

	views, err := f.svc.History(context.Background(), f.female.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if f.store.lastLimit != DefaultHistoryLimit || len(views) != 1 {
		t.Fatalf("unexpected history: limit=%d len=%d", f.store.lastLimit, len(views))
	}
	if views[0].MySide != enums.SideB || views[0].Counterpart.Name != "김**" {
		t.Fatalf("unexpected history view: %+v", views[0])
	}

	if _, err := f.svc.History(context.Background(), f.female.ID, 500); err != nil {
		t.Fatalf("history: %v", err)
	}
	if f.store.lastLimit != MaxHistoryLimit {
		t.Fatalf("limit must be capped, got %d", f.store.lastLimit)
	}
}

func TestAdminOperations(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	m := f.create(t)

	items, err := f.svc.ListAll(ctx, 0)
	if err != nil || len(items) != 1 {
		t.Fatalf("list all: %v %v", items, err)
	}
	if items[0].UserA == nil || items[0].UserA.Name != "김민준" || items[0].UserB == nil {
		t.Fatalf("admin list must carry both profiles: %+v", items[0])
	}

	if _, err := f.svc.Respond(ctx, f.male.ID, m.ID, true); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if _, err := f.svc.MarkNoMatch(ctx, m.ID); !errors.Is(err, ErrMatchClosed) {
		t.Fatalf("answered match cannot become no_match, got %v", err)
	}

	if err := f.svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
