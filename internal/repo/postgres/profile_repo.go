package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
)

const uniqueViolation = "23505"

const profileColumns = `
	id,
	phone,
	name,
	gender,
	birth_year,
	region,
	work_location,
	work_type,
	mbti,
	smoking,
	drinking,
	interests,
	bio,
	kakao_id,
	marketing_agreed,
	height,
	body_type,
	face_features,
	fashion_style,
	created_at`

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, errNoPool
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (
	id,
	phone,
	name,
	gender,
	birth_year,
	region,
	work_location,
	work_type,
	mbti,
	smoking,
	drinking,
	interests,
	bio,
	kakao_id,
	marketing_agreed,
	height,
	body_type,
	face_features,
	fashion_style,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
RETURNING`+profileColumns,
		p.ID,
		p.Phone,
		p.Name,
		string(p.Gender),
		p.BirthYear,
		p.Region,
		p.WorkLocation,
		string(p.WorkType),
		nullableString(string(p.MBTI)),
		nullableString(string(p.Smoking)),
		nullableString(string(p.Drinking)),
		p.Interests,
		p.Bio,
		p.KakaoID,
		p.MarketingAgreed,
		p.HeightCM,
		nullableString(string(p.BodyType)),
		nullableString(p.FaceFeatures),
		nullableString(p.FashionStyle),
	)

	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Profile{}, model.ErrProfileExists
		}
		return model.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return created, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, errNoPool
	}

	row := r.pool.QueryRow(ctx, `SELECT`+profileColumns+`
FROM users
WHERE id = $1
`, id)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update writes only the fields set in patch.
func (r *ProfileRepo) Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, errNoPool
	}
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	sets, args := profilePatchAssignments(patch)
	args = append(args, id)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, errNoPool
	}

	rows, err := r.pool.Query(ctx, `SELECT`+profileColumns+`
FROM users
ORDER BY created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0, 64)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		items = append(items, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}
	return items, nil
}

func profilePatchAssignments(patch model.ProfilePatch) ([]string, []any) {
	sets := make([]string, 0, 16)
	args := make([]any, 0, 17)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.BirthYear != nil {
		add("birth_year", *patch.BirthYear)
	}
	if patch.Region != nil {
		add("region", *patch.Region)
	}
	if patch.WorkLocation != nil {
		add("work_location", *patch.WorkLocation)
	}
	if patch.WorkType != nil {
		add("work_type", string(*patch.WorkType))
	}
	if patch.MBTI != nil {
		add("mbti", nullableString(string(*patch.MBTI)))
	}
	if patch.Smoking != nil {
		add("smoking", nullableString(string(*patch.Smoking)))
	}
	if patch.Drinking != nil {
		add("drinking", nullableString(string(*patch.Drinking)))
	}
	if patch.Interests != nil {
		add("interests", *patch.Interests)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.KakaoID != nil {
		add("kakao_id", *patch.KakaoID)
	}
	if patch.MarketingAgreed != nil {
		add("marketing_agreed", *patch.MarketingAgreed)
	}
	if patch.HeightCM != nil {
		add("height", *patch.HeightCM)
	}
	if patch.BodyType != nil {
		add("body_type", nullableString(string(*patch.BodyType)))
	}
	if patch.FaceFeatures != nil {
		add("face_features", nullableString(*patch.FaceFeatures))
	}
	if patch.FashionStyle != nil {
		add("fashion_style", nullableString(*patch.FashionStyle))
	}
	return sets, args
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p                                 model.Profile
		gender, workType                  string
		mbti, smoking, drinking, bodyType *string
		faceFeatures, fashionStyle        *string
		createdAt                         time.Time
	)
	if err := row.Scan(
		&p.ID,
		&p.Phone,
		&p.Name,
		&gender,
		&p.BirthYear,
		&p.Region,
		&p.WorkLocation,
		&workType,
		&mbti,
		&smoking,
		&drinking,
		&p.Interests,
		&p.Bio,
		&p.KakaoID,
		&p.MarketingAgreed,
		&p.HeightCM,
		&bodyType,
		&faceFeatures,
		&fashionStyle,
		&createdAt,
	); err != nil {
		return model.Profile{}, err
	}

	p.Gender = enums.Gender(gender)
	p.WorkType = enums.WorkType(workType)
	p.MBTI = enums.MBTI(derefString(mbti))
	p.Smoking = enums.Smoking(derefString(smoking))
	p.Drinking = enums.Drinking(derefString(drinking))
	p.BodyType = enums.BodyType(derefString(bodyType))
	p.FaceFeatures = derefString(faceFeatures)
	p.FashionStyle = derefString(fashionStyle)
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
