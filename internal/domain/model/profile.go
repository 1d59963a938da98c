package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
)

type Profile struct {
	ID              uuid.UUID      `json:"id"`
	Phone           string         `json:"phone"`
	Name            string         `json:"name"`
	Gender          enums.Gender   `json:"gender"`
	BirthYear       int            `json:"birth_year"`
	Region          string         `json:"region"`
	WorkLocation    string         `json:"work_location"`
	WorkType        enums.WorkType `json:"work_type"`
	MBTI            enums.MBTI     `json:"mbti,omitempty"`
	Smoking         enums.Smoking  `json:"smoking,omitempty"`
	Drinking        enums.Drinking `json:"drinking,omitempty"`
	Interests       InterestSet    `json:"interests"`
	Bio             string         `json:"bio"`
	KakaoID         string         `json:"kakao_id"`
	MarketingAgreed bool           `json:"marketing_agreed"`
	HeightCM        *int           `json:"height,omitempty"`
	BodyType        enums.BodyType `json:"body_type,omitempty"`
	FaceFeatures    string         `json:"face_features,omitempty"`
	FashionStyle    string         `json:"fashion_style,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ProfilePatch carries the fields changed by the profile editor. Nil means
// "leave as is". Phone and gender are not editable.
type ProfilePatch struct {
	Name            *string
	BirthYear       *int
	Region          *string
	WorkLocation    *string
	WorkType        *enums.WorkType
	MBTI            *enums.MBTI
	Smoking         *enums.Smoking
	Drinking        *enums.Drinking
	Interests       *InterestSet
	Bio             *string
	KakaoID         *string
	MarketingAgreed *bool
	HeightCM        *int
	BodyType        *enums.BodyType
	FaceFeatures    *string
	FashionStyle    *string
}

func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.BirthYear == nil && p.Region == nil && p.WorkLocation == nil &&
		p.WorkType == nil && p.MBTI == nil && p.Smoking == nil && p.Drinking == nil &&
		p.Interests == nil && p.Bio == nil && p.KakaoID == nil && p.MarketingAgreed == nil &&
		p.HeightCM == nil && p.BodyType == nil && p.FaceFeatures == nil && p.FashionStyle == nil
}

// Apply returns a copy of the profile with the patch applied.
func (p ProfilePatch) Apply(profile Profile) Profile {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.BirthYear != nil {
		profile.BirthYear = *p.BirthYear
	}
	if p.Region != nil {
		profile.Region = *p.Region
	}
	if p.WorkLocation != nil {
		profile.WorkLocation = *p.WorkLocation
	}
	if p.WorkType != nil {
		profile.WorkType = *p.WorkType
	}
	if p.MBTI != nil {
		profile.MBTI = *p.MBTI
	}
	if p.Smoking != nil {
		profile.Smoking = *p.Smoking
	}
	if p.Drinking != nil {
		profile.Drinking = *p.Drinking
	}
	if p.Interests != nil {
		profile.Interests = *p.Interests
	}
	if p.Bio != nil {
		profile.Bio = *p.Bio
	}
	if p.KakaoID != nil {
		profile.KakaoID = *p.KakaoID
	}
	if p.MarketingAgreed != nil {
		profile.MarketingAgreed = *p.MarketingAgreed
	}
	if p.HeightCM != nil {
		h := *p.HeightCM
		profile.HeightCM = &h
	}
	if p.BodyType != nil {
		profile.BodyType = *p.BodyType
	}
	if p.FaceFeatures != nil {
		profile.FaceFeatures = *p.FaceFeatures
	}
	if p.FashionStyle != nil {
		profile.FashionStyle = *p.FashionStyle
	}
	return profile
}
