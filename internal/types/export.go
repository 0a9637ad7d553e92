package types

import (
	"fmt"
	"strings"
)

// ExportVersion is the format version written into every export.
const ExportVersion = "1.0"

// ExportEnvelope is the JSON document produced by export and accepted by JSON import.
type ExportEnvelope struct {
	Candidates []Candidate `json:"candidates"`
	ExportDate string      `json:"exportDate,omitempty"`
	Version    string      `json:"version,omitempty"`
}

// Stats summarizes the collection by status.
type Stats struct {
	Total        int `json:"total"`
	Hired        int `json:"embauches"`
	Interviewing int `json:"entretiens"`
	InProgress   int `json:"enCours"`
	Paused       int `json:"enPause"`
}

// ComputeStats counts candidates per status.
func ComputeStats(candidates []Candidate) Stats {
	s := Stats{Total: len(candidates)}
	for i := range candidates {
		switch candidates[i].Status {
		case StatusHired:
			s.Hired++
		case StatusInterviewing:
			s.Interviewing++
		case StatusInProgress:
			s.InProgress++
		case StatusPaused:
			s.Paused++
		}
	}
	return s
}

// ImportMode selects how an import is committed against the existing collection.
type ImportMode string

const (
	// ImportMerge appends only records whose email is not already present.
	ImportMerge ImportMode = "merge"
	// ImportReplace discards the collection and adopts every parsed record.
	ImportReplace ImportMode = "replace"
)

// ParseImportMode parses "merge" or "replace" (case-insensitive).
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case ImportMerge:
		return ImportMerge, nil
	case ImportReplace:
		return ImportReplace, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (expected merge or replace)", s)
	}
}
