package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/infra/supabase"
)

const usersTable = "users"

// ProfileRepo reads and writes the users table through the hosted table API.
type ProfileRepo struct {
	client *supabase.Client
}

func NewProfileRepo(client *supabase.Client) *ProfileRepo {
	return &ProfileRepo{client: client}
}

func (r *ProfileRepo) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	var rows []model.Profile
	if err := r.client.From(usersTable).Insert(ctx, profileInsertRow(p), &rows); err != nil {
		if supabase.StatusCode(err) == http.StatusConflict {
			return model.Profile{}, model.ErrProfileExists
		}
		return model.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	if len(rows) == 0 {
		return model.Profile{}, fmt.Errorf("insert profile: empty representation")
	}
	return rows[0], nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	var p model.Profile
	err := r.client.From(usersTable).
		Select("*").
		Eq("id", id.String()).
		Single().
		Execute(ctx, &p)
	if err != nil {
		if errors.Is(err, supabase.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (model.Profile, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var rows []model.Profile
	if err := r.client.From(usersTable).Eq("id", id.String()).Update(ctx, profilePatchRow(patch), &rows); err != nil {
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if len(rows) == 0 {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return rows[0], nil
}

func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.Profile, error) {
	rows := make([]model.Profile, 0, 64)
	err := r.client.From(usersTable).
		Select("*").
		Order("created_at", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return rows, nil
}

func profileInsertRow(p model.Profile) map[string]any {
	return map[string]any{
		"id":               p.ID,
		"phone":            p.Phone,
		"name":             p.Name,
		"gender":           p.Gender,
		"birth_year":       p.BirthYear,
		"region":           p.Region,
		"work_location":    p.WorkLocation,
		"work_type":        p.WorkType,
		"mbti":             nullable(string(p.MBTI)),
		"smoking":          nullable(string(p.Smoking)),
		"drinking":         nullable(string(p.Drinking)),
		"interests":        interestsColumn(p.Interests),
		"bio":              p.Bio,
		"kakao_id":         p.KakaoID,
		"marketing_agreed": p.MarketingAgreed,
		"height":           p.HeightCM,
		"body_type":        nullable(string(p.BodyType)),
		"face_features":    nullable(p.FaceFeatures),
		"fashion_style":    nullable(p.FashionStyle),
	}
}

func profilePatchRow(patch model.ProfilePatch) map[string]any {
	row := make(map[string]any, 16)
	if patch.Name != nil {
		row["name"] = *patch.Name
	}
	if patch.BirthYear != nil {
		row["birth_year"] = *patch.BirthYear
	}
	if patch.Region != nil {
		row["region"] = *patch.Region
	}
	if patch.WorkLocation != nil {
		row["work_location"] = *patch.WorkLocation
	}
	if patch.WorkType != nil {
		row["work_type"] = *patch.WorkType
	}
	if patch.MBTI != nil {
		row["mbti"] = nullable(string(*patch.MBTI))
	}
	if patch.Smoking != nil {
		row["smoking"] = nullable(string(*patch.Smoking))
	}
	if patch.Drinking != nil {
		row["drinking"] = nullable(string(*patch.Drinking))
	}
	if patch.Interests != nil {
		row["interests"] = interestsColumn(*patch.Interests)
	}
	if patch.Bio != nil {
		row["bio"] = *patch.Bio
	}
	if patch.KakaoID != nil {
		row["kakao_id"] = *patch.KakaoID
	}
	if patch.MarketingAgreed != nil {
		row["marketing_agreed"] = *patch.MarketingAgreed
	}
	if patch.HeightCM != nil {
		row["height"] = *patch.HeightCM
	}
	if patch.BodyType != nil {
		row["body_type"] = nullable(string(*patch.BodyType))
	}
	if patch.FaceFeatures != nil {
		row["face_features"] = nullable(*patch.FaceFeatures)
	}
	if patch.FashionStyle != nil {
		row["fashion_style"] = nullable(*patch.FashionStyle)
	}
	return row
}

// interestsColumn is the comma-joined text stored in the users table.
func interestsColumn(set model.InterestSet) *string {
	return nullable(set.String())
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
