package ingestion

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/candidate-tracker/internal/schemas"
	"github.com/jonathan/candidate-tracker/internal/types"
	"go.uber.org/zap"
)

const utf8BOM = "\ufeff"

// Result is the outcome of parsing an import file against the current collection.
// Nothing is committed; the caller picks merge (New) or replace (Parsed).
type Result struct {
	// Parsed holds every successfully parsed record, in file order.
	Parsed []types.Candidate
	// New holds parsed records whose email is not already present.
	New []types.Candidate
	// Duplicates holds parsed records skipped because their email is taken.
	Duplicates []types.Candidate
	// Failures holds the rejected CSV rows.
	Failures []*RowError
}

// FailedCount returns the number of rows that failed parsing.
func (r *Result) FailedCount() int {
	return len(r.Failures)
}

// Importer parses CSV and JSON exports into candidate records.
type Importer struct {
	mapper *RowMapper
}

// NewImporter creates an Importer; options configure the underlying RowMapper.
func NewImporter(opts ...Option) *Importer {
	return &Importer{mapper: NewRowMapper(opts...)}
}

type sourceLine struct {
	number int
	text   string
}

// splitLines returns the non-blank trimmed lines of content with their 1-based line numbers.
func splitLines(content string) []sourceLine {
	content = strings.ToValidUTF8(content, "\uFFFD")
	content = strings.TrimPrefix(content, utf8BOM)

	raw := strings.Split(content, "\n")
	lines := make([]sourceLine, 0, len(raw))
	for i, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, sourceLine{number: i + 1, text: line})
	}
	return lines
}

// ImportCSV parses an intake form CSV export. The first non-blank line is the
// header and is discarded. Rows that fail mapping are collected in
// Result.Failures and never abort the batch.
func (im *Importer) ImportCSV(content string, existing []types.Candidate) (*Result, error) {
	logger := im.mapper.logger
	lines := splitLines(content)
	if len(lines) < 2 {
		return nil, &ImportError{
			Message: "CSV must contain a header line and at least one data line",
			Cause:   ErrEmptyOrHeaderOnly,
		}
	}

	logger.Debug("parsing CSV", zap.Int("data_lines", len(lines)-1))

	result := &Result{}
	for _, line := range lines[1:] {
		candidate, err := im.mapper.MapRow(line.text, line.number)
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				rowErr = &RowError{Line: line.number, Reason: ErrMalformedRow, Detail: err.Error()}
			}
			logger.Warn("skipping CSV row", zap.Int("line", line.number), zap.Error(rowErr))
			result.Failures = append(result.Failures, rowErr)
			continue
		}
		result.Parsed = append(result.Parsed, candidate)
	}

	result.New, result.Duplicates = im.Classify(result.Parsed, existing)

	logger.Debug("parsed CSV",
		zap.Int("parsed", len(result.Parsed)),
		zap.Int("new", len(result.New)),
		zap.Int("duplicates", len(result.Duplicates)),
		zap.Int("failed", result.FailedCount()),
	)

	return result, nil
}

// ImportJSON parses a {"candidates": [...]} export. Any other shape is ErrInvalidFormat.
func (im *Importer) ImportJSON(content []byte, existing []types.Candidate) (*Result, error) {
	content = []byte(strings.TrimPrefix(string(content), utf8BOM))

	if err := schemas.ValidateCandidateImport(content); err != nil {
		return nil, &ImportError{
			Message: "JSON file does not match the candidates export format",
			Cause:   errors.Join(ErrInvalidFormat, err),
		}
	}

	var envelope types.ExportEnvelope
	if err := json.Unmarshal(content, &envelope); err != nil {
		return nil, &ImportError{
			Message: "failed to decode candidates",
			Cause:   errors.Join(ErrInvalidFormat, err),
		}
	}

	logger := im.mapper.logger
	result := &Result{Parsed: make([]types.Candidate, 0, len(envelope.Candidates))}
	ids := make(map[string]struct{}, len(envelope.Candidates))
	for i, c := range envelope.Candidates {
		SanitizeRecord(&c)
		if rowErr := checkRecordEmail(c.Email, i+1); rowErr != nil {
			logger.Warn("skipping JSON record", zap.Int("record", i+1), zap.Error(rowErr))
			result.Failures = append(result.Failures, rowErr)
			continue
		}
		if _, taken := ids[c.ID]; taken || c.ID == "" {
			c.ID = im.mapper.newID()
		}
		ids[c.ID] = struct{}{}
		if c.CreatedAt == "" {
			c.CreatedAt = types.FormatTimestamp(im.mapper.now())
		}
		result.Parsed = append(result.Parsed, c)
	}

	result.New, result.Duplicates = im.Classify(result.Parsed, existing)
	return result, nil
}

// checkRecordEmail rejects a JSON record whose email cannot serve as its key.
func checkRecordEmail(email string, record int) *RowError {
	switch {
	case email == "":
		return &RowError{Record: record, Reason: ErrMissingRequiredField, Detail: "email"}
	case !types.IsValidEmail(email):
		return &RowError{Record: record, Reason: ErrInvalidEmail, Detail: email}
	default:
		return nil
	}
}

// Classify splits records into new and duplicate by case-insensitive email,
// against existing and against records already accepted from the same batch.
// New records whose id is already taken get a fresh id.
func (im *Importer) Classify(records, existing []types.Candidate) (fresh, duplicates []types.Candidate) {
	emails := make(map[string]struct{}, len(existing)+len(records))
	ids := make(map[string]struct{}, len(existing)+len(records))
	for i := range existing {
		emails[existing[i].EmailKey()] = struct{}{}
		ids[existing[i].ID] = struct{}{}
	}

	for _, c := range records {
		key := c.EmailKey()
		if _, taken := emails[key]; taken {
			duplicates = append(duplicates, c)
			continue
		}
		if _, taken := ids[c.ID]; taken || c.ID == "" {
			c.ID = im.mapper.newID()
		}
		emails[key] = struct{}{}
		ids[c.ID] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh, duplicates
}
