package ml

import (
	"errors"
	"testing"
)

func TestWorkclassLabelsResolve(t *testing.T) {
	labels := WorkclassLabels()
	if len(labels) != 7 {
		t.Fatalf("expected 7 workclass labels, got %d", len(labels))
	}
	enc, err := NewLabelEncoder(FieldWorkclass, testClasses()[FieldWorkclass])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]bool)
	for _, label := range labels {
		wc, err := ParseWorkclass(label)
		if err != nil {
			t.Fatalf("label %q: unexpected error: %v", label, err)
		}
		if wc.String() != label {
			t.Fatalf("expected %q, got %q", label, wc.String())
		}
		category := wc.Category()
		if seen[category] {
			t.Fatalf("category %q mapped twice", category)
		}
		seen[category] = true
		if _, err := enc.Transform(category); err != nil {
			t.Fatalf("category %q not known to encoder: %v", category, err)
		}
	}
}

func TestWorkclassPrivateSector(t *testing.T) {
	wc, err := ParseWorkclass("Private Sector")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wc.Category() != "Private" {
		t.Fatalf("expected Private, got %q", wc.Category())
	}
}

func TestParseWorkclassUnknown(t *testing.T) {
	for _, label := range []string{"Private", "Self-emp-inc", "Never-worked", ""} {
		if _, err := ParseWorkclass(label); !errors.Is(err, ErrUnknownDisplayLabel) {
			t.Fatalf("label %q: expected ErrUnknownDisplayLabel, got %v", label, err)
		}
	}
}

func TestWorkclassOutOfRange(t *testing.T) {
	w := Workclass(42)
	if w.Category() != "" {
		t.Fatalf("expected empty category, got %q", w.Category())
	}
	if w.String() != "Workclass(42)" {
		t.Fatalf("unexpected string: %q", w.String())
	}
}
