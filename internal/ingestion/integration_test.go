package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEnd_IntakeFormExport(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "intake_form.csv"))
	require.NoError(t, err)

	existing := []types.Candidate{{ID: "seed", Email: "claire.martin@example.org"}}

	result, err := newTestImporter().ImportCSV(string(content), existing)
	require.NoError(t, err)

	require.Len(t, result.Parsed, 2)
	require.Len(t, result.New, 1)
	require.Len(t, result.Duplicates, 1)
	require.Equal(t, 2, result.FailedCount())

	want := types.Candidate{
		ID:           "id-1",
		LastName:     "Dupont",
		FirstName:    "Jean",
		Email:        "jean.dupont@example.com",
		Phone:        "+33612345678",
		ContractType: types.ContractCDI,
		Objective:    "Stack: Go, PostgreSQL | Niveau: Junior (0-2 ans) | Souhaits: Télétravail partiel",
		CVLink:       "https://www.example.com/cv-jean",
		StartDate:    "2025-10-13",
		CreatedAt:    "2025-11-03T14:05:06.789Z",

		City:            "Lyon, mobile France",
		Availability:    "Immédiate",
		Stack:           "Go, PostgreSQL",
		ExperienceLevel: "Junior (0-2 ans)",
		LastExperience:  `Stage chez "Acme", refonte API`,
		Wishes:          "Télétravail partiel",
		SameSchool:      "Oui",

		Status: types.StatusInProgress,
	}
	if diff := cmp.Diff(want, result.New[0]); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}

	claire := result.Duplicates[0]
	assert.Equal(t, "Claire", claire.FirstName)
	assert.Equal(t, "Anne Martin", claire.LastName)
	assert.Equal(t, "+33711223344", claire.Phone)
	assert.Equal(t, types.ContractAlternance, claire.ContractType)

	assert.Equal(t, 5, result.Failures[0].Line)
	assert.True(t, errors.Is(result.Failures[0], ErrInvalidEmail))
	assert.Equal(t, 6, result.Failures[1].Line)
	assert.True(t, errors.Is(result.Failures[1], ErrMalformedRow))
}
