package handlers

import (
	"net/http"
	"time"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	"github.com/gittyapp/backend/internal/transport/http/dto"
	httperrors "github.com/gittyapp/backend/internal/transport/http/errors"
)

type labeled interface {
	~string
	Label() string
}

// CatalogHandler publishes the option lists and input limits the sign-up and
// profile forms are built from.
type CatalogHandler struct {
	now func() time.Time
}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{now: time.Now}
}

func (h *CatalogHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.CatalogResponse{
		Genders:       options(enums.AllGenders()),
		WorkTypes:     options(enums.AllWorkTypes()),
		Smoking:       options(enums.AllSmoking()),
		Drinking:      options(enums.AllDrinking()),
		BodyTypes:     options(enums.AllBodyTypes()),
		Interests:     options(enums.AllInterests()),
		MatchStatuses: options(enums.AllMatchStatuses()),
		MaxInterests:  model.MaxInterests,
		Limits: dto.CatalogLimits{
			MinBirthYear: rules.MinBirthYear,
			MaxBirthYear: rules.MaxBirthYear(h.now()),
			MinHeight:    profilesvc.MinHeightCM,
			MaxHeight:    profilesvc.MaxHeightCM,
			MaxBio:       profilesvc.MaxBioRunes,
		},
	})
}

func options[T labeled](values []T) []dto.CatalogOption {
	out := make([]dto.CatalogOption, 0, len(values))
	for _, v := range values {
		out = append(out, dto.CatalogOption{Value: string(v), Label: v.Label()})
	}
	return out
}
