package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/gittyapp/backend/internal/services/auth"
	matchessvc "github.com/gittyapp/backend/internal/services/matches"
	"github.com/gittyapp/backend/internal/transport/http/dto"
	httperrors "github.com/gittyapp/backend/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Current(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	view, found, err := h.service.Current(r.Context(), identity.UserID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	resp := dto.CurrentMatchResponse{}
	if found {
		item := matchResponse(view)
		resp.Match = &item
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *MatchesHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	views, err := h.service.History(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		handleMatchError(w, err)
		return
	}

	items := make([]dto.MatchResponse, 0, len(views))
	for _, view := range views {
		items = append(items, matchResponse(view))
	}
	httperrors.Write(w, http.StatusOK, dto.MatchHistoryResponse{Items: items})
}

func (h *MatchesHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	var req dto.RespondRequest
	if err := decodeJSON(r, &req); err != nil || req.Accept == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "accept is required")
		return
	}

	view, err := h.service.Respond(r.Context(), identity.UserID, matchID, *req.Accept)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, matchResponse(view))
}

func handleMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
	case errors.Is(err, matchessvc.ErrInvalidPair):
		writeBadRequest(w, "INVALID_PAIR", "pair must be one male and one female user")
	case errors.Is(err, matchessvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "not a participant of this match")
	case errors.Is(err, matchessvc.ErrNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, matchessvc.ErrAlreadyResponded):
		writeConflict(w, "ALREADY_RESPONDED", "response already submitted")
	case errors.Is(err, matchessvc.ErrMatchClosed):
		writeConflict(w, "MATCH_CLOSED", "match is closed")
	case errors.Is(err, matchessvc.ErrConflict):
		writeConflict(w, "MATCH_CONFLICT", "match changed, reload and retry")
	case errors.Is(err, matchessvc.ErrAlreadyPaired):
		writeConflict(w, "ALREADY_PAIRED", "user already has a match in this cycle")
	case errors.Is(err, matchessvc.ErrDeadlinePassed):
		httperrors.Write(w, http.StatusGone, httperrors.APIError{
			Code:    "DEADLINE_PASSED",
			Message: "response deadline passed",
		})
	default:
		writeUnexpected(w, err)
	}
}

func matchResponse(view matchessvc.View) dto.MatchResponse {
	m := view.Match
	resp := dto.MatchResponse{
		ID:               m.ID,
		CycleStart:       m.CycleDate(),
		ResponseDeadline: m.ResponseDeadline,
		ResultDate:       m.ResultDate,
		Status:           string(m.Status),
		StatusLabel:      m.Status.Label(),
		MyResponse:       view.MyResponse.Ptr(),
		TheirResponse:    view.TheirResponse.Ptr(),
		Revealed:         view.Revealed,
		TimeRemaining:    view.TimeRemaining,
	}
	if c := view.Counterpart; c != nil {
		interests, labels := interestFields(c.Interests)
		resp.Counterpart = &dto.CounterpartResponse{
			ID:             c.ID,
			Name:           c.Name,
			Age:            c.Age,
			Gender:         string(c.Gender),
			Region:         c.Region,
			WorkLocation:   c.WorkLocation,
			WorkType:       string(c.WorkType),
			WorkTypeLabel:  c.WorkType.Label(),
			MBTI:           string(c.MBTI),
			Smoking:        string(c.Smoking),
			Drinking:       string(c.Drinking),
			Interests:      interests,
			InterestLabels: labels,
			Bio:            c.Bio,
			Height:         c.HeightCM,
			BodyType:       string(c.BodyType),
			FaceFeatures:   c.FaceFeatures,
			FashionStyle:   c.FashionStyle,
			KakaoID:        c.KakaoID,
		}
	}
	return resp
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
