package enums

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func AllGenders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

func ParseGender(raw string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", fmt.Errorf("gender %q: %w", raw, ErrUnknownValue)
	}
	return g, nil
}

func (g Gender) Valid() bool {
	return g.Label() != ""
}

func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "남성"
	case GenderFemale:
		return "여성"
	}
	return ""
}

// Opposite returns the other gender; the zero value maps to itself.
func (g Gender) Opposite() Gender {
	switch g {
	case GenderMale:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	}
	return g
}
