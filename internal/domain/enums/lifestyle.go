package enums

import (
	"fmt"
	"strings"
)

type Smoking string

const (
	SmokingNo        Smoking = "no"
	SmokingSometimes Smoking = "sometimes"
	SmokingYes       Smoking = "yes"
)

func AllSmoking() []Smoking {
	return []Smoking{SmokingNo, SmokingSometimes, SmokingYes}
}

func ParseSmoking(raw string) (Smoking, error) {
	s := Smoking(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("smoking %q: %w", raw, ErrUnknownValue)
	}
	return s, nil
}

func (s Smoking) Valid() bool {
	return s.Label() != ""
}

func (s Smoking) Label() string {
	switch s {
	case SmokingNo:
		return "비흡연"
	case SmokingSometimes:
		return "가끔"
	case SmokingYes:
		return "흡연"
	}
	return ""
}

type Drinking string

const (
	DrinkingNo        Drinking = "no"
	DrinkingSometimes Drinking = "sometimes"
	DrinkingOften     Drinking = "often"
)

func AllDrinking() []Drinking {
	return []Drinking{DrinkingNo, DrinkingSometimes, DrinkingOften}
}

func ParseDrinking(raw string) (Drinking, error) {
	d := Drinking(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("drinking %q: %w", raw, ErrUnknownValue)
	}
	return d, nil
}

func (d Drinking) Valid() bool {
	return d.Label() != ""
}

func (d Drinking) Label() string {
	switch d {
	case DrinkingNo:
		return "안 마셔요"
	case DrinkingSometimes:
		return "가끔 마셔요"
	case DrinkingOften:
		return "자주 마셔요"
	}
	return ""
}

type BodyType string

const (
	BodyTypeSlim    BodyType = "slim"
	BodyTypeAverage BodyType = "average"
	BodyTypeChubby  BodyType = "chubby"
	BodyTypeNone    BodyType = "none"
)

func AllBodyTypes() []BodyType {
	return []BodyType{BodyTypeSlim, BodyTypeAverage, BodyTypeChubby, BodyTypeNone}
}

func ParseBodyType(raw string) (BodyType, error) {
	b := BodyType(strings.ToLower(strings.TrimSpace(raw)))
	if !b.Valid() {
		return "", fmt.Errorf("body type %q: %w", raw, ErrUnknownValue)
	}
	return b, nil
}

func (b BodyType) Valid() bool {
	return b.Label() != ""
}

func (b BodyType) Label() string {
	switch b {
	case BodyTypeSlim:
		return "마름"
	case BodyTypeAverage:
		return "보통"
	case BodyTypeChubby:
		return "통통"
	case BodyTypeNone:
		return "선택안함"
	}
	return ""
}
