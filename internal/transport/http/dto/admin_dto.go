package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUsersResponse struct {
	Male   []ProfileResponse `json:"male"`
	Female []ProfileResponse `json:"female"`
}

type AdminMatchResponse struct {
	ID               uuid.UUID        `json:"id"`
	UserA            uuid.UUID        `json:"user_a"`
	UserB            uuid.UUID        `json:"user_b"`
	CycleStart       string           `json:"cycle_start"`
	ResponseDeadline time.Time        `json:"response_deadline"`
	ResultDate       time.Time        `json:"result_date"`
	Status           string           `json:"status"`
	StatusLabel      string           `json:"status_label"`
	ResponseA        *bool            `json:"response_a"`
	ResponseB        *bool            `json:"response_b"`
	CreatedAt        time.Time        `json:"created_at"`
	UserAProfile     *ProfileResponse `json:"user_a_profile,omitempty"`
	UserBProfile     *ProfileResponse `json:"user_b_profile,omitempty"`
}

type AdminMatchesResponse struct {
	Items []AdminMatchResponse `json:"items"`
}

type CreateMatchRequest struct {
	MaleID   uuid.UUID `json:"male_id"`
	FemaleID uuid.UUID `json:"female_id"`
}
