package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
)

func TestProfilePatchAssignmentsNumbersPlaceholders(t *testing.T) {
	name := "이서연"
	height := 165
	smoking := enums.SmokingNo
	patch := model.ProfilePatch{
		Name:     &name,
		HeightCM: &height,
		Smoking:  &smoking,
	}

	sets, args := profilePatchAssignments(patch)
	got := strings.Join(sets, ", ")
	want := "name = $1, smoking = $2, height = $3"
	if got != want {
		t.Fatalf("unexpected assignments: got %q want %q", got, want)
	}
	if len(args) != 3 || args[0] != name || args[2] != height {
		t.Fatalf("unexpected args: %#v", args)
	}
	if s, ok := args[1].(*string); !ok || s == nil || *s != "no" {
		t.Fatalf("smoking must be bound as a nullable string: %#v", args[1])
	}
}

func TestProfilePatchAssignmentsClearsOptionalColumns(t *testing.T) {
	empty := ""
	var mbti enums.MBTI
	patch := model.ProfilePatch{MBTI: &mbti, FaceFeatures: &empty}

	sets, args := profilePatchAssignments(patch)
	if len(sets) != 2 || sets[0] != "mbti = $1" || sets[1] != "face_features = $2" {
		t.Fatalf("unexpected assignments: %v", sets)
	}
	for i, arg := range args {
		if s, ok := arg.(*string); !ok || s != nil {
			t.Fatalf("arg %d must be a nil *string, got %#v", i, arg)
		}
	}
}

func TestProfilePatchAssignmentsEmpty(t *testing.T) {
	sets, args := profilePatchAssignments(model.ProfilePatch{})
	if len(sets) != 0 || len(args) != 0 {
		t.Fatalf("empty patch must yield no assignments: %v %v", sets, args)
	}
}

func TestReposWithoutPoolFail(t *testing.T) {
	ctx := context.Background()

	if _, err := NewProfileRepo(nil).GetByID(ctx, uuid.New()); !errors.Is(err, errNoPool) {
		t.Fatalf("profile repo: got %v want errNoPool", err)
	}
	if _, err := NewMatchRepo(nil).Create(ctx, model.Match{}); !errors.Is(err, errNoPool) {
		t.Fatalf("match repo: got %v want errNoPool", err)
	}
}
