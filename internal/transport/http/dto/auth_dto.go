package dto

import "github.com/google/uuid"

type SendCodeRequest struct {
	Phone string `json:"phone"`
}

type AgreementsRequest struct {
	Age       bool `json:"age"`
	Terms     bool `json:"terms"`
	Privacy   bool `json:"privacy"`
	Marketing bool `json:"marketing"`
}

type SignUpRequest struct {
	Phone      string            `json:"phone"`
	Code       string            `json:"code"`
	Agreements AgreementsRequest `json:"agreements"`
	Profile    ProfileInput      `json:"profile"`
}

type SignInRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthMeResponse struct {
	ID    uuid.UUID `json:"id"`
	Phone string    `json:"phone"`
}

type AuthTokensResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresInSec int64          `json:"expires_in_sec"`
	Me           AuthMeResponse `json:"me"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
