package dto

import (
	"time"

	"github.com/google/uuid"
)

type CounterpartResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Region         string    `json:"region"`
	WorkLocation   string    `json:"work_location"`
	WorkType       string    `json:"work_type"`
	WorkTypeLabel  string    `json:"work_type_label"`
	MBTI           string    `json:"mbti,omitempty"`
	Smoking        string    `json:"smoking,omitempty"`
	Drinking       string    `json:"drinking,omitempty"`
	Interests      []string  `json:"interests"`
	InterestLabels []string  `json:"interest_labels"`
	Bio            string    `json:"bio"`
	Height         *int      `json:"height,omitempty"`
	BodyType       string    `json:"body_type,omitempty"`
	FaceFeatures   string    `json:"face_features,omitempty"`
	FashionStyle   string    `json:"fashion_style,omitempty"`
	KakaoID        string    `json:"kakao_id,omitempty"`
}

type MatchResponse struct {
	ID               uuid.UUID            `json:"id"`
	CycleStart       string               `json:"cycle_start"`
	ResponseDeadline time.Time            `json:"response_deadline"`
	ResultDate       time.Time            `json:"result_date"`
	Status           string               `json:"status"`
	StatusLabel      string               `json:"status_label"`
	MyResponse       *bool                `json:"my_response"`
	TheirResponse    *bool                `json:"their_response"`
	Revealed         bool                 `json:"revealed"`
	TimeRemaining    string               `json:"time_remaining"`
	Counterpart      *CounterpartResponse `json:"counterpart"`
}

type CurrentMatchResponse struct {
	Match *MatchResponse `json:"match"`
}

type MatchHistoryResponse struct {
	Items []MatchResponse `json:"items"`
}

// RespondRequest uses a pointer so a missing field is rejected instead of
// read as a decline.
type RespondRequest struct {
	Accept *bool `json:"accept"`
}
