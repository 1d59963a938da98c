package dto

import "github.com/google/uuid"

type MeUserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type MeResponse struct {
	User    MeUserResponse  `json:"user"`
	Profile ProfileResponse `json:"profile"`
	IsAdmin bool            `json:"is_admin"`
}
