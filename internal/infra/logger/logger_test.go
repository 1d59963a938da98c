package logger

import "testing"

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("api", "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewAcceptsMixedCaseLevel(t *testing.T) {
	l, err := New("api", "WARN")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if l.Core().Enabled(-1) {
		t.Fatalf("debug must be disabled at warn level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected no-op logger")
	}
}
