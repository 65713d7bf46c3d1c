package qdrant

import (
	"testing"
)

func TestPointID_Stable(t *testing.T) {
	a := pointID("Aspirin")
	b := pointID("Aspirin")
	if a != b {
		t.Errorf("expected identical ids for the same name, got %d and %d", a, b)
	}
}

func TestPointID_Distinct(t *testing.T) {
	if pointID("Aspirin") == pointID("Ibuprofen") {
		t.Error("expected distinct ids for distinct names")
	}
}
