package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
	matchessvc "github.com/gittyapp/backend/internal/services/matches"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	"github.com/gittyapp/backend/internal/transport/http/dto"
	httperrors "github.com/gittyapp/backend/internal/transport/http/errors"
)

// AdminHandler serves the operator screens. Access is checked by middleware.
type AdminHandler struct {
	profiles *profilesvc.Service
	matches  *matchessvc.Service
	now      func() time.Time
}

func NewAdminHandler(profiles *profilesvc.Service, matches *matchessvc.Service) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		matches:  matches,
		now:      time.Now,
	}
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	byGender, err := h.profiles.ListByGender(r.Context())
	if err != nil {
		handleProfileError(w, err)
		return
	}

	now := h.now()
	resp := dto.AdminUsersResponse{
		Male:   make([]dto.ProfileResponse, 0, len(byGender.Male)),
		Female: make([]dto.ProfileResponse, 0, len(byGender.Female)),
	}
	for _, p := range byGender.Male {
		resp.Male = append(resp.Male, profileResponse(p, now))
	}
	for _, p := range byGender.Female {
		resp.Female = append(resp.Female, profileResponse(p, now))
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *AdminHandler) Matches(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.matches.ListAll(r.Context(), parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		handleMatchError(w, err)
		return
	}

	now := h.now()
	out := make([]dto.AdminMatchResponse, 0, len(items))
	for _, item := range items {
		resp := adminMatchResponse(item.Match)
		resp.UserAProfile = optionalProfile(item.UserA, now)
		resp.UserBProfile = optionalProfile(item.UserB, now)
		out = append(out, resp)
	}
	httperrors.Write(w, http.StatusOK, dto.AdminMatchesResponse{Items: out})
}

func (h *AdminHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.CreateMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.matches.Create(r.Context(), req.MaleID, req.FemaleID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, adminMatchResponse(created))
}

func (h *AdminHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	if err := h.matches.Delete(r.Context(), id); err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) MarkNoMatch(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	updated, err := h.matches.MarkNoMatch(r.Context(), id)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, adminMatchResponse(updated))
}

func adminMatchResponse(m model.Match) dto.AdminMatchResponse {
	return dto.AdminMatchResponse{
		ID:               m.ID,
		UserA:            m.UserA,
		UserB:            m.UserB,
		CycleStart:       m.CycleDate(),
		ResponseDeadline: m.ResponseDeadline,
		ResultDate:       m.ResultDate,
		Status:           string(m.Status),
		StatusLabel:      m.Status.Label(),
		ResponseA:        m.ResponseA.Ptr(),
		ResponseB:        m.ResponseB.Ptr(),
		CreatedAt:        m.CreatedAt,
	}
}

func optionalProfile(p *model.Profile, now time.Time) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	resp := profileResponse(*p, now)
	return &resp
}
