package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
	"github.com/gittyapp/backend/internal/pkg/validate"
)

const (
	MaxBioRunes   = 300
	MaxShortRunes = 50
	MinHeightCM   = 140
	MaxHeightCM   = 220
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = model.ErrProfileNotFound
	ErrExists     = errors.New("profile already exists")
)

type Store interface {
	Create(ctx context.Context, p model.Profile) (model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (model.Profile, error)
	ListAll(ctx context.Context) ([]model.Profile, error)
}

// Cache is optional. Miss is reported with ok=false.
type Cache interface {
	GetProfile(ctx context.Context, id uuid.UUID) (model.Profile, bool, error)
	SetProfile(ctx context.Context, p model.Profile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store  Store
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// Input is the sign-up form as sent by the client.
type Input struct {
	Name         string
	Gender       string
	BirthYear    int
	Region       string
	WorkLocation string
	WorkType     string
	MBTI         string
	Smoking      string
	Drinking     string
	Interests    []string
	Bio          string
	KakaoID      string
	HeightCM     *int
	BodyType     string
	FaceFeatures string
	FashionStyle string
}

// PatchInput is the profile editor payload. Nil fields are left untouched.
type PatchInput struct {
	Name            *string
	BirthYear       *int
	Region          *string
	WorkLocation    *string
	WorkType        *string
	MBTI            *string
	Smoking         *string
	Drinking        *string
	Interests       *[]string
	Bio             *string
	KakaoID         *string
	MarketingAgreed *bool
	HeightCM        *int
	BodyType        *string
	FaceFeatures    *string
	FashionStyle    *string
}

type ByGender struct {
	Male   []model.Profile
	Female []model.Profile
}

func NewService(store Store, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Validate checks a sign-up form without touching storage.
func (s *Service) Validate(in Input) error {
	_, err := normalizeInput(s.now(), in)
	return err
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, phone string, in Input, marketing bool) (model.Profile, error) {
	if userID == uuid.Nil {
		return model.Profile{}, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if !validate.Required(phone) {
		return model.Profile{}, fmt.Errorf("phone is required: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := normalizeInput(s.now(), in)
	if err != nil {
		return model.Profile{}, err
	}
	profile.ID = userID
	profile.Phone = phone
	profile.MarketingAgreed = marketing

	created, err := s.store.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, model.ErrProfileExists) {
			return model.Profile{}, ErrExists
		}
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	s.remember(ctx, created)
	return created, nil
}

// GetByID reads through the cache. A missing row is ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	if id == uuid.Nil {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetProfile(ctx, id)
		if err != nil {
			s.logger.Warn("profile cache read failed", zap.String("user_id", id.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	profile, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	s.remember(ctx, profile)
	return profile, nil
}

// Lookup skips the cached copy and reads the store. The cache is refreshed on
// a hit and dropped when the row is gone.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	if id == uuid.Nil {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			s.forget(ctx, id)
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	s.remember(ctx, profile)
	return profile, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in PatchInput) (model.Profile, error) {
	if id == uuid.Nil {
		return model.Profile{}, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	patch, err := normalizePatch(s.now(), in)
	if err != nil {
		return model.Profile{}, err
	}
	if patch.Empty() {
		return model.Profile{}, fmt.Errorf("nothing to update: %w", ErrValidation)
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			s.forget(ctx, id)
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	s.remember(ctx, updated)
	return updated, nil
}

// ListByGender returns every profile newest first, split for the admin screen.
func (s *Service) ListByGender(ctx context.Context) (ByGender, error) {
	if s.store == nil {
		return ByGender{}, fmt.Errorf("profile store is nil")
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return ByGender{}, fmt.Errorf("list profiles: %w", err)
	}

	out := ByGender{Male: []model.Profile{}, Female: []model.Profile{}}
	for _, p := range all {
		switch p.Gender {
		case enums.GenderMale:
			out.Male = append(out.Male, p)
		case enums.GenderFemale:
			out.Female = append(out.Female, p)
		}
	}
	return out, nil
}

func (s *Service) remember(ctx context.Context, p model.Profile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetProfile(ctx, p); err != nil {
		s.logger.Warn("profile cache write failed", zap.String("user_id", p.ID.String()), zap.Error(err))
	}
}

func (s *Service) forget(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProfile(ctx, id); err != nil {
		s.logger.Warn("profile cache delete failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}

func normalizeInput(now time.Time, in Input) (model.Profile, error) {
	out := model.Profile{
		Name:         strings.TrimSpace(in.Name),
		BirthYear:    in.BirthYear,
		Region:       strings.TrimSpace(in.Region),
		WorkLocation: strings.TrimSpace(in.WorkLocation),
		Bio:          strings.TrimSpace(in.Bio),
		KakaoID:      strings.TrimSpace(in.KakaoID),
		FaceFeatures: strings.TrimSpace(in.FaceFeatures),
		FashionStyle: strings.TrimSpace(in.FashionStyle),
	}

	if !validate.Required(out.Name) || !validate.Required(out.Region) ||
		!validate.Required(out.WorkLocation) || !validate.Required(out.KakaoID) {
		return model.Profile{}, fmt.Errorf("required fields are missing: %w", ErrValidation)
	}

	gender, err := enums.ParseGender(in.Gender)
	if err != nil {
		return model.Profile{}, fmt.Errorf("invalid gender: %w", ErrValidation)
	}
	out.Gender = gender

	if err := checkBirthYear(now, out.BirthYear); err != nil {
		return model.Profile{}, err
	}

	workType, err := enums.ParseWorkType(in.WorkType)
	if err != nil {
		return model.Profile{}, fmt.Errorf("invalid work_type: %w", ErrValidation)
	}
	out.WorkType = workType

	if out.MBTI, err = parseOptional(in.MBTI, "mbti", enums.ParseMBTI); err != nil {
		return model.Profile{}, err
	}
	if out.Smoking, err = parseOptional(in.Smoking, "smoking", enums.ParseSmoking); err != nil {
		return model.Profile{}, err
	}
	if out.Drinking, err = parseOptional(in.Drinking, "drinking", enums.ParseDrinking); err != nil {
		return model.Profile{}, err
	}
	if out.BodyType, err = parseOptional(in.BodyType, "body_type", enums.ParseBodyType); err != nil {
		return model.Profile{}, err
	}
	if out.Interests, err = parseInterests(in.Interests); err != nil {
		return model.Profile{}, err
	}

	if in.HeightCM != nil {
		if err := checkHeight(*in.HeightCM); err != nil {
			return model.Profile{}, err
		}
		h := *in.HeightCM
		out.HeightCM = &h
	}

	if err := checkTextLimits(out.Bio, out.FaceFeatures, out.FashionStyle); err != nil {
		return model.Profile{}, err
	}
	return out, nil
}

func normalizePatch(now time.Time, in PatchInput) (model.ProfilePatch, error) {
	var patch model.ProfilePatch

	required := []struct {
		name  string
		value *string
		dst   **string
	}{
		{"name", in.Name, &patch.Name},
		{"region", in.Region, &patch.Region},
		{"work_location", in.WorkLocation, &patch.WorkLocation},
		{"kakao_id", in.KakaoID, &patch.KakaoID},
	}
	for _, field := range required {
		if field.value == nil {
			continue
		}
		v := strings.TrimSpace(*field.value)
		if !validate.Required(v) {
			return model.ProfilePatch{}, fmt.Errorf("%s must not be empty: %w", field.name, ErrValidation)
		}
		*field.dst = &v
	}

	optional := []struct {
		value *string
		dst   **string
	}{
		{in.Bio, &patch.Bio},
		{in.FaceFeatures, &patch.FaceFeatures},
		{in.FashionStyle, &patch.FashionStyle},
	}
	for _, field := range optional {
		if field.value == nil {
			continue
		}
		v := strings.TrimSpace(*field.value)
		*field.dst = &v
	}
	if err := checkTextLimits(deref(patch.Bio), deref(patch.FaceFeatures), deref(patch.FashionStyle)); err != nil {
		return model.ProfilePatch{}, err
	}

	if in.BirthYear != nil {
		if err := checkBirthYear(now, *in.BirthYear); err != nil {
			return model.ProfilePatch{}, err
		}
		v := *in.BirthYear
		patch.BirthYear = &v
	}
	if in.HeightCM != nil {
		if err := checkHeight(*in.HeightCM); err != nil {
			return model.ProfilePatch{}, err
		}
		v := *in.HeightCM
		patch.HeightCM = &v
	}
	if in.MarketingAgreed != nil {
		v := *in.MarketingAgreed
		patch.MarketingAgreed = &v
	}

	if in.WorkType != nil {
		v, err := enums.ParseWorkType(*in.WorkType)
		if err != nil {
			return model.ProfilePatch{}, fmt.Errorf("invalid work_type: %w", ErrValidation)
		}
		patch.WorkType = &v
	}

	var err error
	if patch.MBTI, err = parseOptionalPtr(in.MBTI, "mbti", enums.ParseMBTI); err != nil {
		return model.ProfilePatch{}, err
	}
	if patch.Smoking, err = parseOptionalPtr(in.Smoking, "smoking", enums.ParseSmoking); err != nil {
		return model.ProfilePatch{}, err
	}
	if patch.Drinking, err = parseOptionalPtr(in.Drinking, "drinking", enums.ParseDrinking); err != nil {
		return model.ProfilePatch{}, err
	}
	if patch.BodyType, err = parseOptionalPtr(in.BodyType, "body_type", enums.ParseBodyType); err != nil {
		return model.ProfilePatch{}, err
	}
	if in.Interests != nil {
		set, err := parseInterests(*in.Interests)
		if err != nil {
			return model.ProfilePatch{}, err
		}
		patch.Interests = &set
	}

	return patch, nil
}

// parseOptional accepts an empty value as "not provided".
func parseOptional[T ~string](raw, field string, parse func(string) (T, error)) (T, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	v, err := parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", field, ErrValidation)
	}
	return v, nil
}

// parseOptionalPtr maps an explicit empty string to the zero value so the
// editor can clear an optional field.
func parseOptionalPtr[T ~string](raw *string, field string, parse func(string) (T, error)) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := parseOptional(*raw, field, parse)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseInterests(raw []string) (model.InterestSet, error) {
	values := make([]enums.Interest, 0, len(raw))
	for _, item := range raw {
		if strings.TrimSpace(item) == "" {
			continue
		}
		v, err := enums.ParseInterest(item)
		if err != nil {
			return model.InterestSet{}, fmt.Errorf("invalid interest %q: %w", item, ErrValidation)
		}
		values = append(values, v)
	}
	set, err := model.NewInterestSet(values...)
	if err != nil {
		return model.InterestSet{}, fmt.Errorf("interests: %v: %w", err, ErrValidation)
	}
	return set, nil
}

func checkBirthYear(now time.Time, year int) error {
	if !validate.InRange(year, rules.MinBirthYear, rules.MaxBirthYear(now)) {
		return fmt.Errorf("birth_year must be between %d and %d: %w", rules.MinBirthYear, rules.MaxBirthYear(now), ErrValidation)
	}
	return nil
}

func checkHeight(h int) error {
	if !validate.InRange(h, MinHeightCM, MaxHeightCM) {
		return fmt.Errorf("height must be between %d and %d: %w", MinHeightCM, MaxHeightCM, ErrValidation)
	}
	return nil
}

func checkTextLimits(bio, face, fashion string) error {
	if !validate.MaxRunes(bio, MaxBioRunes) {
		return fmt.Errorf("bio is longer than %d characters: %w", MaxBioRunes, ErrValidation)
	}
	if !validate.MaxRunes(face, MaxShortRunes) || !validate.MaxRunes(fashion, MaxShortRunes) {
		return fmt.Errorf("appearance fields are longer than %d characters: %w", MaxShortRunes, ErrValidation)
	}
	return nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
