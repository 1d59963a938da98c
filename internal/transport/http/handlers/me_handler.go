package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
	adminauthsvc "github.com/gittyapp/backend/internal/services/adminauth"
	authsvc "github.com/gittyapp/backend/internal/services/auth"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	"github.com/gittyapp/backend/internal/services/session"
	"github.com/gittyapp/backend/internal/transport/http/dto"
	httperrors "github.com/gittyapp/backend/internal/transport/http/errors"
)

type MeHandler struct {
	profiles *profilesvc.Service
	auth     *authsvc.Service
	admin    *adminauthsvc.Service
	now      func() time.Time
}

func NewMeHandler(profiles *profilesvc.Service, auth *authsvc.Service, admin *adminauthsvc.Service) *MeHandler {
	return &MeHandler{
		profiles: profiles,
		auth:     auth,
		admin:    admin,
		now:      time.Now,
	}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, ok := session.SnapshotFromContext(r.Context())
	if !ok || !snap.Authenticated {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MeResponse{
		User: dto.MeUserResponse{
			ID:    snap.User.ID,
			Email: snap.User.Email,
		},
		Profile: profileResponse(snap.Profile, h.now()),
		IsAdmin: h.admin.IsAdmin(snap.Profile.Phone),
	})
}

func (h *MeHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfilePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := h.profiles.Update(r.Context(), identity.UserID, patchInputFromDTO(req))
	if err != nil {
		handleProfileError(w, err)
		return
	}
	if h.auth != nil {
		h.auth.NotifyUserUpdated(r.Context(), identity.SID)
	}

	httperrors.Write(w, http.StatusOK, profileResponse(updated, h.now()))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, profilesvc.ErrNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, profilesvc.ErrExists):
		writeConflict(w, "PROFILE_EXISTS", "profile already exists")
	default:
		writeUnexpected(w, err)
	}
}

func profileInputFromDTO(in dto.ProfileInput) profilesvc.Input {
	return profilesvc.Input{
		Name:         in.Name,
		Gender:       in.Gender,
		BirthYear:    in.BirthYear,
		Region:       in.Region,
		WorkLocation: in.WorkLocation,
		WorkType:     in.WorkType,
		MBTI:         in.MBTI,
		Smoking:      in.Smoking,
		Drinking:     in.Drinking,
		Interests:    in.Interests,
		Bio:          in.Bio,
		KakaoID:      in.KakaoID,
		HeightCM:     in.Height,
		BodyType:     in.BodyType,
		FaceFeatures: in.FaceFeatures,
		FashionStyle: in.FashionStyle,
	}
}

func patchInputFromDTO(in dto.ProfilePatchRequest) profilesvc.PatchInput {
	return profilesvc.PatchInput{
		Name:            in.Name,
		BirthYear:       in.BirthYear,
		Region:          in.Region,
		WorkLocation:    in.WorkLocation,
		WorkType:        in.WorkType,
		MBTI:            in.MBTI,
		Smoking:         in.Smoking,
		Drinking:        in.Drinking,
		Interests:       in.Interests,
		Bio:             in.Bio,
		KakaoID:         in.KakaoID,
		MarketingAgreed: in.MarketingAgreed,
		HeightCM:        in.Height,
		BodyType:        in.BodyType,
		FaceFeatures:    in.FaceFeatures,
		FashionStyle:    in.FashionStyle,
	}
}

func profileResponse(p model.Profile, now time.Time) dto.ProfileResponse {
	interests, labels := interestFields(p.Interests)
	return dto.ProfileResponse{
		ID:              p.ID,
		Phone:           p.Phone,
		Name:            p.Name,
		Gender:          string(p.Gender),
		BirthYear:       p.BirthYear,
		Age:             rules.KoreanAge(p.BirthYear, now),
		Region:          p.Region,
		WorkLocation:    p.WorkLocation,
		WorkType:        string(p.WorkType),
		WorkTypeLabel:   p.WorkType.Label(),
		MBTI:            string(p.MBTI),
		Smoking:         string(p.Smoking),
		Drinking:        string(p.Drinking),
		Interests:       interests,
		InterestLabels:  labels,
		Bio:             p.Bio,
		KakaoID:         p.KakaoID,
		MarketingAgreed: p.MarketingAgreed,
		Height:          p.HeightCM,
		BodyType:        string(p.BodyType),
		FaceFeatures:    p.FaceFeatures,
		FashionStyle:    p.FashionStyle,
		CreatedAt:       p.CreatedAt,
	}
}

func interestFields(set model.InterestSet) ([]string, []string) {
	codes := make([]string, 0, set.Len())
	for _, item := range set.Items() {
		codes = append(codes, string(item))
	}
	labels := set.Labels()
	if labels == nil {
		labels = []string{}
	}
	return codes, labels
}
