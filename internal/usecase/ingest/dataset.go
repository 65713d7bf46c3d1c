package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Row is one normalized record of the drug dataset.
type Row struct {
	Name      string
	Condition string
	// Effects is the raw comma-separated side-effects text.
	Effects string
	// Review is the excellent-review percentage, already suffixed with "%".
	Review string
}

// Header candidates for each logical column. The Kaggle exports this service
// ingests vary in naming, so the first matching header wins.
var (
	nameColumns      = []string{"Medicine Name", "drugName", "name"}
	conditionColumns = []string{"Uses", "condition"}
	reviewColumns    = []string{"Excellent Review %"}
)

// LoadRows reads a comma- or tab-separated dataset from path. Fields are
// trimmed; missing columns default to empty strings. Malformed records are
// skipped rather than aborting the load.
func LoadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	nameIdx := findColumn(header, nameColumns)
	condIdx := findColumn(header, conditionColumns)
	reviewIdx := findColumn(header, reviewColumns)
	effectsIdx := findEffectsColumn(header)

	var rows []Row
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("failed to read dataset record: %w", err)
		}

		row := Row{
			Name:      field(record, nameIdx),
			Condition: field(record, condIdx),
			Effects:   field(record, effectsIdx),
		}
		if review := field(record, reviewIdx); review != "" {
			row.Review = review + "%"
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		log.Printf("[Ingest] Skipped %d malformed records in %s", skipped, path)
	}
	log.Printf("[Ingest] Loaded %d rows from %s", len(rows), path)
	return rows, nil
}

// SplitEffects splits the raw side-effects text on commas, trimming each
// token and dropping empties.
func SplitEffects(effects string) []string {
	if effects == "" {
		return nil
	}
	var out []string
	for _, token := range strings.Split(effects, ",") {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Description builds the short per-row text that gets embedded: the non-empty
// parts of {name, condition, review, effects} joined with " | ".
func (r Row) Description() string {
	var parts []string
	for _, part := range []string{r.Name, r.Condition, r.Review, r.Effects} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " | ")
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

// findEffectsColumn matches the first header containing "side", so both
// "Side_effects" and "sideEffects" style datasets work.
func findEffectsColumn(header []string) int {
	for i, col := range header {
		if strings.Contains(strings.ToLower(col), "side") {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
