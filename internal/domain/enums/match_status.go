package enums

import (
	"fmt"
	"strings"
)

type MatchStatus string

const (
	MatchStatusWaiting  MatchStatus = "waiting"
	MatchStatusMatched  MatchStatus = "matched"
	MatchStatusRejected MatchStatus = "rejected"
	MatchStatusNoMatch  MatchStatus = "no_match"
)

func AllMatchStatuses() []MatchStatus {
	return []MatchStatus{
		MatchStatusWaiting,
		MatchStatusMatched,
		MatchStatusRejected,
		MatchStatusNoMatch,
	}
}

func ParseMatchStatus(raw string) (MatchStatus, error) {
	s := MatchStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("match status %q: %w", raw, ErrUnknownValue)
	}
	return s, nil
}

func (s MatchStatus) Valid() bool {
	return s.Label() != ""
}

func (s MatchStatus) Label() string {
	switch s {
	case MatchStatusWaiting:
		return "진행중"
	case MatchStatusMatched:
		return "성사"
	case MatchStatusRejected:
		return "불발"
	case MatchStatusNoMatch:
		return "매칭없음"
	}
	return ""
}

func (s MatchStatus) Terminal() bool {
	return s == MatchStatusMatched || s == MatchStatusRejected || s == MatchStatusNoMatch
}
