package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
)

func TestInterestSetRejectsSixth(t *testing.T) {
	_, err := NewInterestSet(
		enums.InterestExercise,
		enums.InterestMovie,
		enums.InterestReading,
		enums.InterestFood,
		enums.InterestTravel,
		enums.InterestMusic,
	)
	if !errors.Is(err, ErrTooManyInterests) {
		t.Fatalf("expected ErrTooManyInterests, got %v", err)
	}
}

func TestInterestSetCollapsesDuplicates(t *testing.T) {
	set, err := NewInterestSet(enums.InterestCafe, enums.InterestCafe, enums.InterestPet)
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("unexpected size: %d", set.Len())
	}
}

func TestParseInterestSetIsOrderIndependent(t *testing.T) {
	a, err := ParseInterestSet("travel,cafe,,exercise")
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := ParseInterestSet(" exercise ,travel,cafe")
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("sets should be equal: %q vs %q", a, b)
	}
	if a.String() != "exercise,travel,cafe" {
		t.Fatalf("unexpected canonical form: %q", a.String())
	}
}

func TestParseInterestSetRejectsUnknown(t *testing.T) {
	if _, err := ParseInterestSet("cafe,skydiving"); !errors.Is(err, enums.ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestInterestSetJSONAcceptsStringAndArray(t *testing.T) {
	var fromString InterestSet
	if err := json.Unmarshal([]byte(`"music,game"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	var fromArray InterestSet
	if err := json.Unmarshal([]byte(`["game","music"]`), &fromArray); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if !fromString.Equal(fromArray) {
		t.Fatalf("expected equal sets")
	}

	raw, err := json.Marshal(InterestSet{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("unexpected empty json: %s", raw)
	}
}

func TestInterestSetScanNull(t *testing.T) {
	var set InterestSet
	if err := set.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	v, err := set.Value()
	if err != nil || v != nil {
		t.Fatalf("empty set should store NULL, got %v %v", v, err)
	}
}

func TestMatchSides(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	m := Match{UserA: a, UserB: b, ResponseB: enums.ResponseAccepted}

	side, ok := m.SideOf(b)
	if !ok || side != enums.SideB {
		t.Fatalf("unexpected side: %q %v", side, ok)
	}
	if m.Counterpart(b) != a {
		t.Fatalf("unexpected counterpart")
	}
	if m.Counterpart(uuid.New()) != uuid.Nil {
		t.Fatalf("stranger must have no counterpart")
	}
	if m.ResponseOf(enums.SideB) != enums.ResponseAccepted {
		t.Fatalf("unexpected response of side b")
	}
}

func TestProfilePatchApply(t *testing.T) {
	name := "민지"
	height := 165
	p := ProfilePatch{Name: &name, HeightCM: &height}
	out := p.Apply(Profile{Name: "old", Region: "서울"})
	if out.Name != "민지" || out.Region != "서울" || out.HeightCM == nil || *out.HeightCM != 165 {
		t.Fatalf("unexpected patched profile: %+v", out)
	}
	if p.Empty() || !(ProfilePatch{}).Empty() {
		t.Fatalf("unexpected Empty result")
	}
}
