package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
	}{
		{"in progress", "en cours", StatusInProgress},
		{"interviewing", "en entretien", StatusInterviewing},
		{"hired", "embauché", StatusHired},
		{"paused", "en pause", StatusPaused},
		{"upper case", "EN PAUSE", StatusPaused},
		{"padded", "  embauché ", StatusHired},
		{"unknown", "archived", StatusInProgress},
		{"empty", "", StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStatus(tt.input))
		})
	}
}

func TestParseApplicationCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"plain number", "12", 12},
		{"padded", " 7 ", 7},
		{"leading digits", "3 candidatures", 3},
		{"explicit plus", "+4", 4},
		{"negative", "-5", 0},
		{"non numeric", "abc", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseApplicationCount(tt.input))
		})
	}
}

func TestCandidate_SearchText(t *testing.T) {
	c := Candidate{
		LastName:     "Dupont",
		FirstName:    "Jean",
		Email:        "Jean.Dupont@Example.com",
		ContractType: ContractCDD,
		Status:       StatusInterviewing,
	}

	assert.Equal(t, "dupont jean jean.dupont@example.com cdd en entretien", c.SearchText())
	assert.Equal(t, "jean.dupont@example.com", c.EmailKey())
	assert.Equal(t, "Jean Dupont", c.FullName())
}

func TestCandidate_JSONKeys(t *testing.T) {
	c := Candidate{
		ID:               "abc",
		LastName:         "Dupont",
		FirstName:        "Jean",
		Email:            "jean@example.com",
		ContractType:     ContractStage,
		StartDate:        "2025-10-13",
		ApplicationCount: 2,
		Status:           StatusInProgress,
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "Dupont", raw["nom"])
	assert.Equal(t, "Jean", raw["prenom"])
	assert.Equal(t, "Stage", raw["typeContrat"])
	assert.Equal(t, "2025-10-13", raw["dateDebut"])
	assert.Equal(t, float64(2), raw["nbCandidatures"])
	assert.Equal(t, "en cours", raw["statutActuel"])
	assert.NotContains(t, raw, "ville", "empty enrichment fields are omitted")
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 10, 13, 9, 43, 20, 123_000_000, time.FixedZone("UTC+1", 3600))
	assert.Equal(t, "2025-10-13T08:43:20.123Z", FormatTimestamp(ts))
	assert.Equal(t, "2025-10-13", FormatDate(ts))
}

func TestComputeStats(t *testing.T) {
	candidates := []Candidate{
		{Status: StatusHired},
		{Status: StatusHired},
		{Status: StatusInterviewing},
		{Status: StatusInProgress},
		{Status: StatusPaused},
	}

	s := ComputeStats(candidates)
	assert.Equal(t, Stats{Total: 5, Hired: 2, Interviewing: 1, InProgress: 1, Paused: 1}, s)
}

func TestParseImportMode(t *testing.T) {
	mode, err := ParseImportMode("Merge")
	require.NoError(t, err)
	assert.Equal(t, ImportMerge, mode)

	mode, err = ParseImportMode("replace")
	require.NoError(t, err)
	assert.Equal(t, ImportReplace, mode)

	_, err = ParseImportMode("append")
	assert.Error(t, err)
}
