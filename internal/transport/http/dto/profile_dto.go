package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProfileInput is the sign-up profile form.
type ProfileInput struct {
	Name         string   `json:"name"`
	Gender       string   `json:"gender"`
	BirthYear    int      `json:"birth_year"`
	Region       string   `json:"region"`
	WorkLocation string   `json:"work_location"`
	WorkType     string   `json:"work_type"`
	MBTI         string   `json:"mbti"`
	Smoking      string   `json:"smoking"`
	Drinking     string   `json:"drinking"`
	Interests    []string `json:"interests"`
	Bio          string   `json:"bio"`
	KakaoID      string   `json:"kakao_id"`
	Height       *int     `json:"height"`
	BodyType     string   `json:"body_type"`
	FaceFeatures string   `json:"face_features"`
	FashionStyle string   `json:"fashion_style"`
}

// ProfilePatchRequest carries only the edited fields; an empty string clears
// an optional field.
type ProfilePatchRequest struct {
	Name            *string   `json:"name"`
	BirthYear       *int      `json:"birth_year"`
	Region          *string   `json:"region"`
	WorkLocation    *string   `json:"work_location"`
	WorkType        *string   `json:"work_type"`
	MBTI            *string   `json:"mbti"`
	Smoking         *string   `json:"smoking"`
	Drinking        *string   `json:"drinking"`
	Interests       *[]string `json:"interests"`
	Bio             *string   `json:"bio"`
	KakaoID         *string   `json:"kakao_id"`
	MarketingAgreed *bool     `json:"marketing_agreed"`
	Height          *int      `json:"height"`
	BodyType        *string   `json:"body_type"`
	FaceFeatures    *string   `json:"face_features"`
	FashionStyle    *string   `json:"fashion_style"`
}

type ProfileResponse struct {
	ID              uuid.UUID `json:"id"`
	Phone           string    `json:"phone,omitempty"`
	Name            string    `json:"name"`
	Gender          string    `json:"gender"`
	BirthYear       int       `json:"birth_year"`
	Age             int       `json:"age"`
	Region          string    `json:"region"`
	WorkLocation    string    `json:"work_location"`
	WorkType        string    `json:"work_type"`
	WorkTypeLabel   string    `json:"work_type_label"`
	MBTI            string    `json:"mbti,omitempty"`
	Smoking         string    `json:"smoking,omitempty"`
	Drinking        string    `json:"drinking,omitempty"`
	Interests       []string  `json:"interests"`
	InterestLabels  []string  `json:"interest_labels"`
	Bio             string    `json:"bio"`
	KakaoID         string    `json:"kakao_id,omitempty"`
	MarketingAgreed bool      `json:"marketing_agreed"`
	Height          *int      `json:"height,omitempty"`
	BodyType        string    `json:"body_type,omitempty"`
	FaceFeatures    string    `json:"face_features,omitempty"`
	FashionStyle    string    `json:"fashion_style,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
