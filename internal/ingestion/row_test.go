package ingestion

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 11, 3, 14, 5, 6, 789_000_000, time.UTC)

// sequentialIDs returns an id generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestMapper() *RowMapper {
	return NewRowMapper(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
}

func TestMapRow_FullRow(t *testing.T) {
	line := `2025/10/13 9:43:20 AM UTC+1,jdupont,DUPONT jean,Jean.Dupont@Example.com,01 23 45 67 89,"Lyon, mobile France",Contrat à durée déterminée,Immédiate,Go,Junior,Projet de fin d'études,github.com/jdupont,Télétravail,Oui,J'accepte`

	got, err := newTestMapper().MapRow(line, 2)
	require.NoError(t, err)

	want := types.Candidate{
		ID:              "id-1",
		LastName:        "Dupont",
		FirstName:       "Jean",
		Email:           "jean.dupont@example.com",
		Phone:           "+33123456789",
		ContractType:    types.ContractCDD,
		Objective:       "Stack: Go | Niveau: Junior | Souhaits: Télétravail",
		CVLink:          "https://github.com/jdupont",
		StartDate:       "2025-10-13",
		CreatedAt:       "2025-11-03T14:05:06.789Z",
		City:            "Lyon, mobile France",
		Availability:    "Immédiate",
		Stack:           "Go",
		ExperienceLevel: "Junior",
		LastExperience:  "Projet de fin d'études",
		Wishes:          "Télétravail",
		SameSchool:      "Oui",
		Status:          types.StatusInProgress,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapRow() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapRow_MinimalRowDefaultsMissingColumns(t *testing.T) {
	got, err := newTestMapper().MapRow("not a date,user,Jean Paul Dupont,jp@example.fr", 5)
	require.NoError(t, err)

	assert.Equal(t, "Paul Dupont", got.LastName)
	assert.Equal(t, "Jean", got.FirstName)
	assert.Equal(t, types.ContractCDI, got.ContractType)
	assert.Equal(t, "2025-11-03", got.StartDate)
	assert.Equal(t, ObjectivePlaceholder, got.Objective)
	assert.Empty(t, got.Phone)
	assert.Empty(t, got.CVLink)
	assert.False(t, got.DiscoveryCall)
	assert.Zero(t, got.ApplicationCount)
	assert.Equal(t, types.StatusInProgress, got.Status)
}

func TestMapRow_TruncatesLastExperience(t *testing.T) {
	experience := strings.Repeat("é", 650)
	line := fmt.Sprintf("2025/10/13,u,Dupont Jean,jean@example.com,,,,,,,%s", experience)

	got, err := newTestMapper().MapRow(line, 2)
	require.NoError(t, err)
	assert.Equal(t, types.MaxLastExperienceLength, len([]rune(got.LastExperience)))
}

func TestMapRow_Errors(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason error
	}{
		{"three fields", "2025/10/13,user,Dupont Jean", ErrMalformedRow},
		{"single field", "garbage", ErrMalformedRow},
		{"empty name", "2025/10/13,user,,jean@example.com", ErrMissingRequiredField},
		{"single name token", "2025/10/13,user,Dupont,jean@example.com", ErrMissingRequiredField},
		{"empty email", "2025/10/13,user,Dupont Jean,", ErrMissingRequiredField},
		{"email without domain dot", "2025/10/13,user,Dupont Jean,jean@example", ErrInvalidEmail},
		{"email with space", `2025/10/13,user,Dupont Jean,"jean dupont@example.com"`, ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestMapper().MapRow(tt.line, 7)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.reason), "expected %v, got %v", tt.reason, err)
			assert.Equal(t, types.Candidate{}, got)

			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, 7, rowErr.Line)
			assert.Contains(t, err.Error(), "line 7")
		})
	}
}

func TestMapRow_MalformedRowReportsFieldCount(t *testing.T) {
	_, err := newTestMapper().MapRow("a,b,c", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 fields found")
}
