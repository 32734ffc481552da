package notify

import (
	"errors"
	"testing"
)

type shape struct {
	Title  string
	Tags   []string
	Counts map[string]int
	hidden int
}

func (s *shape) Version() int { return s.hidden }

func (s *shape) Lines() []string { return nil }

func (s *shape) At(i int) string { return "" }

func TestValidateNamePlainMembers(t *testing.T) {
	s := &shape{}
	for _, name := range []string{"Title", "Version"} {
		if err := ValidateName(s, name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateNameIndexedMembers(t *testing.T) {
	s := &shape{}
	for _, name := range []string{"Tags[]", "Counts[]", "Lines[]", "At[]"} {
		if err := ValidateName(s, name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateNameFailures(t *testing.T) {
	s := &shape{}
	cases := []struct {
		name string
		want error
	}{
		{"", ErrEmptyName},
		{"[]", ErrEmptyName},
		{"Nope", ErrUnknownMember},
		{"Nope[]", ErrUnknownMember},
		{"hidden", ErrUnknownMember},
		{"Tags", ErrIsIndexer},
		{"Counts", ErrIsIndexer},
		{"Title[]", ErrNotIndexer},
		{"Version[]", ErrNotIndexer},
	}
	for _, tc := range cases {
		if err := ValidateName(s, tc.name); !errors.Is(err, tc.want) {
			t.Errorf("ValidateName(%q) = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestDebugModeValidatesEveryNotification(t *testing.T) {
	DebugMode = true
	defer func() { DebugMode = false }()

	s := &shape{}
	n := NewNotifier(s)
	var title string

	// Indexer member notified with the marker succeeds and reports the
	// marker literally.
	rec := &recorder{}
	n.AttachChanged(rec.handler())
	var tags []string
	if _, err := Set(n, &tags, []string{"a"}, "Tags[]"); err != nil {
		t.Fatalf("Set with indexer marker failed: %v", err)
	}
	if rec.change(0).Name != "Tags[]" {
		t.Errorf("listener saw name %q, want %q", rec.change(0).Name, "Tags[]")
	}

	// Indexer member notified without the marker is rejected pre-mutation.
	changed, err := Set(n, &tags, []string{"b"}, "Tags")
	if !errors.Is(err, ErrIsIndexer) {
		t.Fatalf("expected ErrIsIndexer, got %v", err)
	}
	if changed {
		t.Error("diagnostic rejection still mutated the field")
	}

	// Unknown member rejected.
	if _, err := Set(n, &title, "x", "Missing"); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}
}

func TestProductionModeSkipsShapeCheck(t *testing.T) {
	s := &shape{}
	n := NewNotifier(s)
	var field string
	// "Missing" does not resolve, but DebugMode is off so only the empty
	// check runs.
	if _, err := Set(n, &field, "x", "Missing"); err != nil {
		t.Fatalf("production Set ran the shape check: %v", err)
	}
}
