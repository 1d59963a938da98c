package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
)

type fakeStore struct {
	rows      map[uuid.UUID]model.Profile
	order     []uuid.UUID
	getCalls  int
	lastPatch *model.ProfilePatch
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[uuid.UUID]model.Profile{}}
}

func (f *fakeStore) Create(_ context.Context, p model.Profile) (model.Profile, error) {
	if _, ok := f.rows[p.ID]; ok {
		return model.Profile{}, model.ErrProfileExists
	}
	p.CreatedAt = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	f.rows[p.ID] = p
	f.order = append([]uuid.UUID{p.ID}, f.order...)
	return p, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (model.Profile, error) {
	f.getCalls++
	p, ok := f.rows[id]
	if !ok {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, patch model.ProfilePatch) (model.Profile, error) {
	p, ok := f.rows[id]
	if !ok {
		return model.Profile{}, model.ErrProfileNotFound
	}
	f.lastPatch = &patch
	p = patch.Apply(p)
	f.rows[id] = p
	return p, nil
}

func (f *fakeStore) ListAll(context.Context) ([]model.Profile, error) {
	out := make([]model.Profile, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.rows[id])
	}
	return out, nil
}

type fakeCache struct {
	rows map[uuid.UUID]model.Profile
}

func (c *fakeCache) GetProfile(_ context.Context, id uuid.UUID) (model.Profile, bool, error) {
	p, ok := c.rows[id]
	return p, ok, nil
}

func (c *fakeCache) SetProfile(_ context.Context, p model.Profile) error {
	c.rows[p.ID] = p
	return nil
}

func (c *fakeCache) DeleteProfile(_ context.Context, id uuid.UUID) error {
	delete(c.rows, id)
	return nil
}

func validInput() Input {
	height := 175
	return Input{
		Name:         "김민준",
		Gender:       "male",
		BirthYear:    1995,
		Region:       "서울",
		WorkLocation: "강남",
		WorkType:     "startup",
		MBTI:         "enfp",
		Smoking:      "no",
		Interests:    []string{"cafe", "music", " "},
		Bio:          "안녕하세요",
		KakaoID:      "minjun95",
		HeightCM:     &height,
		BodyType:     "average",
	}
}

func newTestService(store Store, cache Cache) *Service {
	svc := NewService(store, cache, nil)
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateNormalizesInput(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	id := uuid.New()

	p, err := svc.Create(context.Background(), id, "01012345678", validInput(), true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.MBTI != "ENFP" {
		t.Fatalf("expected upper-cased mbti, got %q", p.MBTI)
	}
	if p.Interests.Len() != 2 || !p.Interests.Contains(enums.InterestCafe) {
		t.Fatalf("unexpected interests: %v", p.Interests)
	}
	if !p.MarketingAgreed || p.Phone != "01012345678" || p.ID != id {
		t.Fatalf("unexpected identity fields: %+v", p)
	}

	if _, err := svc.Create(context.Background(), id, "01012345678", validInput(), false); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists on second create, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Input)
	}{
		{name: "missing name", mutate: func(in *Input) { in.Name = "  " }},
		{name: "missing kakao id", mutate: func(in *Input) { in.KakaoID = "" }},
		{name: "unknown gender", mutate: func(in *Input) { in.Gender = "other" }},
		{name: "too young", mutate: func(in *Input) { in.BirthYear = 2009 }},
		{name: "too old", mutate: func(in *Input) { in.BirthYear = 1949 }},
		{name: "unknown work type", mutate: func(in *Input) { in.WorkType = "freelance" }},
		{name: "bad mbti", mutate: func(in *Input) { in.MBTI = "ABCD" }},
		{name: "short", mutate: func(in *Input) { h := 139; in.HeightCM = &h }},
		{name: "tall", mutate: func(in *Input) { h := 221; in.HeightCM = &h }},
		{name: "six interests", mutate: func(in *Input) {
			in.Interests = []string{"cafe", "music", "movie", "food", "travel", "game"}
		}},
		{name: "unknown interest", mutate: func(in *Input) { in.Interests = []string{"skydiving"} }},
		{name: "long bio", mutate: func(in *Input) { in.Bio = string(make([]rune, MaxBioRunes+1)) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			svc := newTestService(newFakeStore(), nil)
			if err := svc.Validate(in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestBirthYearBoundaryIsInclusive(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)
	in := validInput()
	in.BirthYear = 2008
	if err := svc.Validate(in); err != nil {
		t.Fatalf("turning 18 this year must be accepted: %v", err)
	}
}

func TestGetByIDReadsThroughCache(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{rows: map[uuid.UUID]model.Profile{}}
	svc := newTestService(store, cache)
	id := uuid.New()
	store.rows[id] = model.Profile{ID: id, Name: "서연"}

	for i := 0; i < 3; i++ {
		p, err := svc.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if p.Name != "서연" {
			t.Fatalf("unexpected profile: %+v", p)
		}
	}
	if store.getCalls != 1 {
		t.Fatalf("expected one store read, got %d", store.getCalls)
	}

	if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupIgnoresStaleCache(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{rows: map[uuid.UUID]model.Profile{}}
	svc := newTestService(store, cache)
	id := uuid.New()
	store.rows[id] = model.Profile{ID: id, Name: "서연"}
	cache.rows[id] = model.Profile{ID: id, Name: "옛이름"}

	p, err := svc.Lookup(context.Background(), id)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Name != "서연" || cache.rows[id].Name != "서연" {
		t.Fatalf("lookup must return and cache the stored row: %+v %+v", p, cache.rows[id])
	}

	delete(store.rows, id)
	if _, err := svc.GetByID(context.Background(), id); err != nil {
		t.Fatalf("cached read should still hit: %v", err)
	}
	if _, err := svc.Lookup(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted row must be ErrNotFound, got %v", err)
	}
	if _, ok := cache.rows[id]; ok {
		t.Fatalf("cache entry must be dropped for a deleted row")
	}
	if _, err := svc.GetByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("read after drop must miss, got %v", err)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{rows: map[uuid.UUID]model.Profile{}}
	svc := newTestService(store, cache)
	id := uuid.New()
	if _, err := svc.Create(context.Background(), id, "01012345678", validInput(), false); err != nil {
		t.Fatalf("create: %v", err)
	}

	bio := "새 자기소개"
	empty := ""
	updated, err := svc.Update(context.Background(), id, PatchInput{Bio: &bio, Smoking: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != bio || updated.Smoking != "" {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != "김민준" || updated.Region != "서울" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if store.lastPatch.Name != nil || store.lastPatch.Interests != nil {
		t.Fatalf("unexpected fields in patch: %+v", store.lastPatch)
	}
	if cache.rows[id].Bio != bio {
		t.Fatalf("cache must hold the updated row")
	}

	cached, err := svc.GetByID(context.Background(), id)
	if err != nil || cached.Bio != bio {
		t.Fatalf("read after edit must see the edit: %+v %v", cached, err)
	}
}

func TestUpdateRejects(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	id := uuid.New()
	if _, err := svc.Create(context.Background(), id, "01012345678", validInput(), false); err != nil {
		t.Fatalf("create: %v", err)
	}

	blank := " "
	if _, err := svc.Update(context.Background(), id, PatchInput{Name: &blank}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	if _, err := svc.Update(context.Background(), id, PatchInput{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty patch, got %v", err)
	}
	bio := "x"
	if _, err := svc.Update(context.Background(), uuid.New(), PatchInput{Bio: &bio}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByGender(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	male := validInput()
	female := validInput()
	female.Gender = "female"
	female.Name = "이서연"

	for _, in := range []Input{male, female, male} {
		if _, err := svc.Create(context.Background(), uuid.New(), "010", in, false); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := svc.ListByGender(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got.Male) != 2 || len(got.Female) != 1 {
		t.Fatalf("unexpected split: %d male, %d female", len(got.Male), len(got.Female))
	}
}
