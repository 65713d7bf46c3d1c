package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadRows_CSV(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects,Excellent Review %\n"+
			"Aspirin,headache,\"nausea, dizziness\",47\n"+
			" Ibuprofen , fever ,,\n")

	rows, err := LoadRows(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Name != "Aspirin" || rows[0].Condition != "headache" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[0].Effects != "nausea, dizziness" {
		t.Errorf("expected raw effects text, got %q", rows[0].Effects)
	}
	if rows[0].Review != "47%" {
		t.Errorf("expected review 47%%, got %q", rows[0].Review)
	}

	// Fields are trimmed; missing columns default to empty
	if rows[1].Name != "Ibuprofen" || rows[1].Condition != "fever" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
	if rows[1].Effects != "" || rows[1].Review != "" {
		t.Errorf("expected empty effects/review, got %+v", rows[1])
	}
}

func TestLoadRows_TSV(t *testing.T) {
	path := writeTempFile(t, "drugs.tsv",
		"drugName\tcondition\tsideEffects\n"+
			"Aspirin\theadache\tnausea\n")

	rows, err := LoadRows(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Name != "Aspirin" || rows[0].Effects != "nausea" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestLoadRows_HeaderOnly(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "Medicine Name,Uses,Side_effects\n")

	rows, err := LoadRows(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected 0 rows, got %d", len(rows))
	}
}

func TestLoadRows_MissingFile(t *testing.T) {
	_, err := LoadRows(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRowDescription(t *testing.T) {
	row := Row{Name: "Aspirin", Condition: "headache", Review: "47%", Effects: "nausea, dizziness"}
	want := "Aspirin | headache | 47% | nausea, dizziness"
	if got := row.Description(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRowDescription_SkipsEmptyParts(t *testing.T) {
	row := Row{Name: "Aspirin", Effects: "nausea"}
	want := "Aspirin | nausea"
	if got := row.Description(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitEffects(t *testing.T) {
	got := SplitEffects(" nausea , dizziness ,, ")
	if len(got) != 2 {
		t.Fatalf("expected 2 effects, got %d: %v", len(got), got)
	}
	if got[0] != "nausea" || got[1] != "dizziness" {
		t.Errorf("unexpected effects: %v", got)
	}
}

func TestSplitEffects_Empty(t *testing.T) {
	if got := SplitEffects(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
