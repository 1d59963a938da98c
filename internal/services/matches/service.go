package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
	DefaultAdminLimit   = 200
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("match not found")
	ErrNotParticipant   = errors.New("user is not a participant of the match")
	ErrMatchClosed      = errors.New("match is closed")
	ErrAlreadyResponded = errors.New("response already submitted")
	ErrDeadlinePassed   = errors.New("response deadline passed")
	ErrConflict         = errors.New("match changed concurrently")
	ErrInvalidPair      = errors.New("invalid match pair")
	ErrAlreadyPaired    = errors.New("user already paired in this cycle")
)

type MatchStore interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Match, error)
	CurrentForUser(ctx context.Context, userID uuid.UUID, since string) (model.Match, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Match, error)
	ListAll(ctx context.Context, limit int) ([]model.Match, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ApplyResponse(ctx context.Context, id uuid.UUID, update rules.MatchUpdate, expectedOther enums.Response) (model.Match, error)
	MarkNoMatch(ctx context.Context, id uuid.UUID) (model.Match, error)
}

type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error)
}

type Config struct {
	Location        *time.Location
	DeadlineHour    int
	RevealHour      int
	EnforceDeadline bool
	HistoryLimit    int
}

type Dependencies struct {
	Matches  MatchStore
	Profiles ProfileReader
	Logger   *zap.Logger
}

type Service struct {
	matches  MatchStore
	profiles ProfileReader
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DeadlineHour <= 0 {
		cfg.DeadlineHour = rules.DefaultDeadlineHour
	}
	if cfg.RevealHour <= 0 {
		cfg.RevealHour = rules.DefaultRevealHour
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		matches:  deps.Matches,
		profiles: deps.Profiles,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Current returns the user's latest match of today or later. ok is false when
// there is none.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (View, bool, error) {
	if userID == uuid.Nil {
		return View{}, false, ErrValidation
	}
	if s.matches == nil {
		return View{}, false, fmt.Errorf("match store is nil")
	}

	now := s.now()
	m, err := s.matches.CurrentForUser(ctx, userID, rules.DayKey(now, s.cfg.Location))
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return View{}, false, nil
		}
		return View{}, false, fmt.Errorf("get current match: %w", err)
	}

	view, err := s.viewFor(ctx, m, userID, now)
	if err != nil {
		return View{}, false, err
	}
	return view, true, nil
}

// History returns the user's latest matches, newest cycle first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]View, error) {
	if userID == uuid.Nil {
		return nil, ErrValidation
	}
	if s.matches == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := s.matches.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list match history: %w", err)
	}

	now := s.now()
	out := make([]View, 0, len(rows))
	for _, m := range rows {
		view, err := s.viewFor(ctx, m, userID, now)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// Respond records the caller's answer and derives the status from both
// answers. A repeated identical answer is a no-op.
func (s *Service) Respond(ctx context.Context, userID, matchID uuid.UUID, accept bool) (View, error) {
	if userID == uuid.Nil || matchID == uuid.Nil {
		return View{}, ErrValidation
	}
	if s.matches == nil {
		return View{}, fmt.Errorf("match store is nil")
	}

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, fmt.Errorf("get match: %w", err)
	}

	side, ok := m.SideOf(userID)
	if !ok {
		return View{}, ErrNotParticipant
	}

	now := s.now()
	want := enums.ResponseFromBool(accept)
	if mine := m.ResponseOf(side); mine.IsSet() {
		if mine == want {
			return s.viewFor(ctx, m, userID, now)
		}
		return View{}, ErrAlreadyResponded
	}
	if m.Status != enums.MatchStatusWaiting {
		return View{}, ErrMatchClosed
	}
	if s.cfg.EnforceDeadline && !m.ResponseDeadline.IsZero() && !now.Before(m.ResponseDeadline) {
		return View{}, ErrDeadlinePassed
	}

	update, err := rules.Reconcile(m, side, accept)
	if err != nil {
		return View{}, fmt.Errorf("reconcile response: %w", err)
	}

	updated, err := s.matches.ApplyResponse(ctx, m.ID, update, m.ResponseOf(side.Other()))
	if err != nil {
		if errors.Is(err, model.ErrStaleWrite) {
			s.logger.Info("match response lost a concurrent update",
				zap.String("match_id", m.ID.String()),
				zap.String("side", string(side)),
			)
			return View{}, ErrConflict
		}
		return View{}, fmt.Errorf("apply response: %w", err)
	}

	s.logger.Info("match response recorded",
		zap.String("match_id", updated.ID.String()),
		zap.String("side", string(side)),
		zap.String("response", want.String()),
		zap.String("status", string(updated.Status)),
	)
	return s.viewFor(ctx, updated, userID, now)
}

// Create pairs two users for today's cycle.
func (s *Service) Create(ctx context.Context, maleID, femaleID uuid.UUID) (model.Match, error) {
	if maleID == uuid.Nil || femaleID == uuid.Nil {
		return model.Match{}, ErrValidation
	}
	if maleID == femaleID {
		return model.Match{}, fmt.Errorf("same user on both sides: %w", ErrInvalidPair)
	}
	if s.matches == nil {
		return model.Match{}, fmt.Errorf("match store is nil")
	}

	if s.profiles != nil {
		if err := s.checkPairGenders(ctx, maleID, femaleID); err != nil {
			return model.Match{}, err
		}
	}

	cycle := rules.CycleFor(s.now(), s.cfg.Location, s.cfg.DeadlineHour, s.cfg.RevealHour)
	created, err := s.matches.Create(ctx, model.Match{
		UserA:            maleID,
		UserB:            femaleID,
		CycleStart:       cycle.Start,
		ResponseDeadline: cycle.ResponseDeadline,
		ResultDate:       cycle.ResultDate,
		Status:           enums.MatchStatusWaiting,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyPaired) {
			return model.Match{}, ErrAlreadyPaired
		}
		return model.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.Info("match created",
		zap.String("match_id", created.ID.String()),
		zap.String("cycle", created.CycleDate()),
	)
	return created, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrValidation
	}
	if s.matches == nil {
		return fmt.Errorf("match store is nil")
	}
	if err := s.matches.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

// ListAll returns recent matches with both profiles for the admin screen.
func (s *Service) ListAll(ctx context.Context, limit int) ([]AdminItem, error) {
	if s.matches == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if limit <= 0 {
		limit = DefaultAdminLimit
	}

	rows, err := s.matches.ListAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]AdminItem, 0, len(rows))
	for _, m := range rows {
		item := AdminItem{Match: m}
		item.UserA = s.lookupProfile(ctx, m.UserA)
		item.UserB = s.lookupProfile(ctx, m.UserB)
		out = append(out, item)
	}
	return out, nil
}

// MarkNoMatch closes a waiting match nobody answered.
func (s *Service) MarkNoMatch(ctx context.Context, id uuid.UUID) (model.Match, error) {
	if id == uuid.Nil {
		return model.Match{}, ErrValidation
	}
	if s.matches == nil {
		return model.Match{}, fmt.Errorf("match store is nil")
	}

	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMatchNotFound) {
			return model.Match{}, ErrNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	if m.Status != enums.MatchStatusWaiting || m.ResponseA.IsSet() || m.ResponseB.IsSet() {
		return model.Match{}, ErrMatchClosed
	}

	updated, err := s.matches.MarkNoMatch(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrStaleWrite) {
			return model.Match{}, ErrConflict
		}
		return model.Match{}, fmt.Errorf("mark no match: %w", err)
	}
	return updated, nil
}

func (s *Service) checkPairGenders(ctx context.Context, maleID, femaleID uuid.UUID) error {
	male, err := s.profiles.GetByID(ctx, maleID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return fmt.Errorf("unknown user %s: %w", maleID, ErrInvalidPair)
		}
		return fmt.Errorf("get profile: %w", err)
	}
	female, err := s.profiles.GetByID(ctx, femaleID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return fmt.Errorf("unknown user %s: %w", femaleID, ErrInvalidPair)
		}
		return fmt.Errorf("get profile: %w", err)
	}
	if male.Gender != enums.GenderMale || female.Gender != enums.GenderFemale {
		return fmt.Errorf("pair must be one male and one female: %w", ErrInvalidPair)
	}
	return nil
}

// lookupProfile returns nil for a missing or unreadable profile; the admin
// list still shows the match.
func (s *Service) lookupProfile(ctx context.Context, id uuid.UUID) *model.Profile {
	if s.profiles == nil {
		return nil
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrProfileNotFound) {
			s.logger.Warn("profile lookup failed", zap.String("user_id", id.String()), zap.Error(err))
		}
		return nil
	}
	return &p
}
