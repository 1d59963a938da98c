package enums

import (
	"fmt"
	"strings"
)

type MBTI string

func ParseMBTI(raw string) (MBTI, error) {
	code := MBTI(strings.ToUpper(strings.TrimSpace(raw)))
	if !code.Valid() {
		return "", fmt.Errorf("mbti %q: %w", raw, ErrUnknownValue)
	}
	return code, nil
}

func (m MBTI) Valid() bool {
	if len(m) != 4 {
		return false
	}
	axes := [4]string{"EI", "NS", "TF", "JP"}
	for i, axis := range axes {
		if !strings.ContainsRune(axis, rune(m[i])) {
			return false
		}
	}
	return true
}
