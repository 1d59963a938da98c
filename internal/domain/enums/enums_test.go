package enums

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEveryEnumValueHasLabel(t *testing.T) {
	type labeled interface {
		Label() string
	}

	var values []labeled
	for _, v := range AllGenders() {
		values = append(values, v)
	}
	for _, v := range AllWorkTypes() {
		values = append(values, v)
	}
	for _, v := range AllSmoking() {
		values = append(values, v)
	}
	for _, v := range AllDrinking() {
		values = append(values, v)
	}
	for _, v := range AllBodyTypes() {
		values = append(values, v)
	}
	for _, v := range AllInterests() {
		values = append(values, v)
	}
	for _, v := range AllMatchStatuses() {
		values = append(values, v)
	}

	for _, v := range values {
		if v.Label() == "" {
			t.Fatalf("missing label for %v", v)
		}
	}
}

func TestUnknownValuesHaveNoLabel(t *testing.T) {
	if WorkType("freelance").Valid() {
		t.Fatalf("unknown work type must be invalid")
	}
	if Interest("skydiving").Label() != "" {
		t.Fatalf("unknown interest must not get a placeholder label")
	}
	if _, err := ParseSmoking("daily"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestInterestCatalogSize(t *testing.T) {
	if got := len(AllInterests()); got != 15 {
		t.Fatalf("unexpected catalog size: got %d want 15", got)
	}
	if InterestExercise.Rank() != 0 || InterestSelfDev.Rank() != 14 {
		t.Fatalf("unexpected catalog ranks")
	}
}

func TestParseNormalizesCase(t *testing.T) {
	g, err := ParseGender(" Female ")
	if err != nil || g != GenderFemale {
		t.Fatalf("unexpected gender parse: %q %v", g, err)
	}
	m, err := ParseMBTI("enfp")
	if err != nil || m != "ENFP" {
		t.Fatalf("unexpected mbti parse: %q %v", m, err)
	}
	if _, err := ParseMBTI("EXFP"); err == nil {
		t.Fatalf("expected invalid mbti")
	}
}

func TestResponseJSON(t *testing.T) {
	cases := []struct {
		in   Response
		want string
	}{
		{in: ResponseUnset, want: "null"},
		{in: ResponseAccepted, want: "true"},
		{in: ResponseDeclined, want: "false"},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.in, err)
		}
		if string(raw) != tc.want {
			t.Fatalf("unexpected json: got %s want %s", raw, tc.want)
		}
		var back Response
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if back != tc.in {
			t.Fatalf("round trip mismatch: got %v want %v", back, tc.in)
		}
	}
}

func TestSideOther(t *testing.T) {
	if SideA.Other() != SideB || SideB.Other() != SideA {
		t.Fatalf("unexpected other side")
	}
	if SideA.Column() != "response_a" || SideB.Column() != "response_b" {
		t.Fatalf("unexpected side columns")
	}
}
