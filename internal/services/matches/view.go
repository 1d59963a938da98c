package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
)

// View is one match as seen by one of its participants.
type View struct {
	Match         model.Match
	MySide        enums.Side
	MyResponse    enums.Response
	TheirResponse enums.Response
	Revealed      bool
	TimeRemaining string
	Counterpart   *Counterpart
}

// Counterpart is the other participant's card. Name is masked and KakaoID
// empty until the match is made.
type Counterpart struct {
	ID           uuid.UUID
	Name         string
	Age          int
	Gender       enums.Gender
	Region       string
	WorkLocation string
	WorkType     enums.WorkType
	MBTI         enums.MBTI
	Smoking      enums.Smoking
	Drinking     enums.Drinking
	Interests    model.InterestSet
	Bio          string
	HeightCM     *int
	BodyType     enums.BodyType
	FaceFeatures string
	FashionStyle string
	KakaoID      string
}

type AdminItem struct {
	Match model.Match
	UserA *model.Profile
	UserB *model.Profile
}

func (s *Service) viewFor(ctx context.Context, m model.Match, userID uuid.UUID, now time.Time) (View, error) {
	side, ok := m.SideOf(userID)
	if !ok {
		return View{}, ErrNotParticipant
	}

	view := View{
		Match:         m,
		MySide:        side,
		MyResponse:    m.ResponseOf(side),
		Revealed:      m.Status == enums.MatchStatusMatched,
		TimeRemaining: rules.TimeRemaining(m.ResponseDeadline, now),
	}
	// The other answer stays hidden until the caller has answered.
	if view.MyResponse.IsSet() {
		view.TheirResponse = m.ResponseOf(side.Other())
	}

	if s.profiles == nil {
		return view, nil
	}
	other, err := s.profiles.GetByID(ctx, m.Counterpart(userID))
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return view, nil
		}
		return View{}, fmt.Errorf("get counterpart profile: %w", err)
	}
	card := counterpartCard(other, view.Revealed, now)
	view.Counterpart = &card
	return view, nil
}

func counterpartCard(p model.Profile, revealed bool, now time.Time) Counterpart {
	card := Counterpart{
		ID:           p.ID,
		Name:         rules.MaskName(p.Name),
		Age:          rules.KoreanAge(p.BirthYear, now),
		Gender:       p.Gender,
		Region:       p.Region,
		WorkLocation: p.WorkLocation,
		WorkType:     p.WorkType,
		MBTI:         p.MBTI,
		Smoking:      p.Smoking,
		Drinking:     p.Drinking,
		Interests:    p.Interests,
		Bio:          p.Bio,
		HeightCM:     p.HeightCM,
		BodyType:     p.BodyType,
		FaceFeatures: p.FaceFeatures,
		FashionStyle: p.FashionStyle,
	}
	if revealed {
		card.Name = p.Name
		card.KakaoID = p.KakaoID
	}
	return card
}
