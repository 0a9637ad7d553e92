package main

import (
	"testing"

	"github.com/jonathan/candidate-tracker/internal/ingestion"
	"github.com/jonathan/candidate-tracker/internal/tracker"
	"github.com/jonathan/candidate-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	cfg.ImportMode = "replace"
	t.Cleanup(func() { cfg.ImportMode = "" })

	tests := []struct {
		name    string
		flag    string
		want    types.ImportMode
		wantErr bool
	}{
		{"config default", "", types.ImportReplace, false},
		{"flag wins", "merge", types.ImportMerge, false},
		{"flag is case-insensitive", "MERGE", types.ImportMerge, false},
		{"unknown", "upsert", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveMode(tt.flag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	report := &tracker.ImportReport{
		FileName:   "form.csv",
		Mode:       types.ImportMerge,
		Parsed:     3,
		Added:      2,
		Duplicates: 1,
		Failed:     1,
		Failures: []*ingestion.RowError{
			{Line: 4, Reason: ingestion.ErrInvalidEmail, Detail: "not-an-email"},
		},
	}

	s := summarize(report)
	assert.Equal(t, "form.csv", s.FileName)
	assert.Equal(t, 2, s.Added)
	assert.Equal(t, 1, s.Duplicates)
	assert.False(t, s.Replaced)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, report.Failures[0].Error(), s.Failures[0])
}
