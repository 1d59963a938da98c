package enums

import (
	"fmt"
	"strings"
)

type WorkType string

const (
	WorkTypeLarge        WorkType = "large"
	WorkTypeMid          WorkType = "mid"
	WorkTypeStartup      WorkType = "startup"
	WorkTypeSmall        WorkType = "small"
	WorkTypeEntrepreneur WorkType = "entrepreneur"
)

func AllWorkTypes() []WorkType {
	return []WorkType{
		WorkTypeLarge,
		WorkTypeMid,
		WorkTypeStartup,
		WorkTypeSmall,
		WorkTypeEntrepreneur,
	}
}

func ParseWorkType(raw string) (WorkType, error) {
	w := WorkType(strings.ToLower(strings.TrimSpace(raw)))
	if !w.Valid() {
		return "", fmt.Errorf("work type %q: %w", raw, ErrUnknownValue)
	}
	return w, nil
}

func (w WorkType) Valid() bool {
	return w.Label() != ""
}

func (w WorkType) Label() string {
	switch w {
	case WorkTypeLarge:
		return "대기업"
	case WorkTypeMid:
		return "중견기업"
	case WorkTypeStartup:
		return "스타트업"
	case WorkTypeSmall:
		return "중소기업"
	case WorkTypeEntrepreneur:
		return "창업/자영업"
	}
	return ""
}
