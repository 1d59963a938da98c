package rules

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	MinSignupAge = 18
	MinBirthYear = 1950

	ClosedLabel = "마감됨"
)

// KoreanAge counts the birth year as age one.
func KoreanAge(birthYear int, now time.Time) int {
	if birthYear <= 0 {
		return 0
	}
	return now.Year() - birthYear + 1
}

// MaxBirthYear is the latest birth year allowed to sign up in now's year.
func MaxBirthYear(now time.Time) int {
	return now.Year() - MinSignupAge
}

// MaskName keeps the first rune and hides the rest.
func MaskName(name string) string {
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r) + "**"
}

// TimeRemaining renders the time left until deadline as hours and minutes.
func TimeRemaining(deadline, now time.Time) string {
	if deadline.IsZero() {
		return ""
	}
	diff := deadline.Sub(now)
	if diff <= 0 {
		return ClosedLabel
	}
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%d시간 %d분 남음", hours, minutes)
	}
	return fmt.Sprintf("%d분 남음", minutes)
}
