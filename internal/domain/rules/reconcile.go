package rules

import (
	"errors"
	"fmt"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
)

var ErrInvalidSide = errors.New("invalid side")

// MatchUpdate is the single write produced by one response. Status is nil
// while the other side has not answered.
type MatchUpdate struct {
	Side     enums.Side
	Response enums.Response
	Status   *enums.MatchStatus
}

// Reconcile applies an accept/decline from side to m. Once both sides have
// answered the match is matched only if both accepted, otherwise rejected.
// It never yields no_match.
func Reconcile(m model.Match, side enums.Side, accept bool) (MatchUpdate, error) {
	if !side.Valid() {
		return MatchUpdate{}, fmt.Errorf("reconcile side %q: %w", side, ErrInvalidSide)
	}

	update := MatchUpdate{
		Side:     side,
		Response: enums.ResponseFromBool(accept),
	}

	other := m.ResponseOf(side.Other())
	if !other.IsSet() {
		return update, nil
	}

	status := enums.MatchStatusRejected
	if accept && other == enums.ResponseAccepted {
		status = enums.MatchStatusMatched
	}
	update.Status = &status
	return update, nil
}

// ResultingStatus is the status m has after update is applied.
func (u MatchUpdate) ResultingStatus(current enums.MatchStatus) enums.MatchStatus {
	if u.Status == nil {
		return current
	}
	return *u.Status
}

// Apply returns m with update applied.
func (u MatchUpdate) Apply(m model.Match) model.Match {
	if u.Side == enums.SideA {
		m.ResponseA = u.Response
	} else {
		m.ResponseB = u.Response
	}
	m.Status = u.ResultingStatus(m.Status)
	return m
}
