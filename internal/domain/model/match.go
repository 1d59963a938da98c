package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
)

type Match struct {
	ID               uuid.UUID         `json:"id"`
	UserA            uuid.UUID         `json:"user_a"`
	UserB            uuid.UUID         `json:"user_b"`
	CycleStart       time.Time         `json:"cycle_start"`
	ResponseDeadline time.Time         `json:"response_deadline"`
	ResultDate       time.Time         `json:"result_date"`
	Status           enums.MatchStatus `json:"status"`
	ResponseA        enums.Response    `json:"response_a"`
	ResponseB        enums.Response    `json:"response_b"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (m Match) SideOf(userID uuid.UUID) (enums.Side, bool) {
	switch userID {
	case m.UserA:
		return enums.SideA, true
	case m.UserB:
		return enums.SideB, true
	}
	return "", false
}

func (m Match) UserOf(side enums.Side) uuid.UUID {
	if side == enums.SideA {
		return m.UserA
	}
	return m.UserB
}

func (m Match) ResponseOf(side enums.Side) enums.Response {
	if side == enums.SideA {
		return m.ResponseA
	}
	return m.ResponseB
}

// Counterpart returns the other participant's id, or uuid.Nil when userID is
// not part of the match.
func (m Match) Counterpart(userID uuid.UUID) uuid.UUID {
	side, ok := m.SideOf(userID)
	if !ok {
		return uuid.Nil
	}
	return m.UserOf(side.Other())
}

// CycleDate is the cycle_start column format.
func (m Match) CycleDate() string {
	return m.CycleStart.Format(time.DateOnly)
}
