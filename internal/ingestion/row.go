package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/candidate-tracker/internal/types"
	"go.uber.org/zap"
)

// minRowFields is the fewest fields a data row may resolve to (through the email column).
const minRowFields = 4

// Column positions of the intake form export.
const (
	colTimestamp = iota
	colUsername
	colFullName
	colEmail
	colPhone
	colCity
	colContractType
	colAvailability
	colStack
	colExperienceLevel
	colLastExperience
	colCVLink
	colWishes
	colSameSchool
	colConsent
	columnCount
)

// RowMapper maps intake form rows onto candidate records.
type RowMapper struct {
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// Option configures a RowMapper or CSVImporter.
type Option func(*RowMapper)

// WithClock overrides the clock used for creation timestamps and date fallbacks.
func WithClock(now func() time.Time) Option {
	return func(m *RowMapper) { m.now = now }
}

// WithIDGenerator overrides candidate id generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *RowMapper) { m.newID = newID }
}

// WithLogger sets the logger used for per-row tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(m *RowMapper) { m.logger = logger }
}

// NewRowMapper creates a RowMapper with the wall clock, UUID ids and a no-op logger.
func NewRowMapper(opts ...Option) *RowMapper {
	m := &RowMapper{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// formRow holds the trimmed positional columns of one data row.
type formRow [columnCount]string

func newFormRow(fields []string) formRow {
	var row formRow
	for i := 0; i < columnCount && i < len(fields); i++ {
		row[i] = strings.TrimSpace(fields[i])
	}
	return row
}

// MapRow converts one data line into a candidate. lineNumber is the 1-based
// source line, used only in errors and traces.
func (m *RowMapper) MapRow(line string, lineNumber int) (types.Candidate, error) {
	fields := SplitFields(line)
	if len(fields) < minRowFields {
		return types.Candidate{}, &RowError{
			Line:   lineNumber,
			Reason: ErrMalformedRow,
			Detail: fmt.Sprintf("%d fields found, at least %d required", len(fields), minRowFields),
		}
	}

	row := newFormRow(fields)
	lastName, firstName := SplitFullName(row[colFullName])
	email := row[colEmail]

	m.logger.Debug("mapping row",
		zap.Int("line", lineNumber),
		zap.Int("fields", len(fields)),
		zap.String("last_name", lastName),
		zap.String("first_name", firstName),
	)

	if lastName == "" || firstName == "" || email == "" {
		return types.Candidate{}, &RowError{
			Line:   lineNumber,
			Reason: ErrMissingRequiredField,
			Detail: fmt.Sprintf("nom=%q prenom=%q email=%q", lastName, firstName, email),
		}
	}

	if !types.IsValidEmail(email) {
		return types.Candidate{}, &RowError{
			Line:   lineNumber,
			Reason: ErrInvalidEmail,
			Detail: email,
		}
	}

	now := m.now()
	return types.Candidate{
		ID:           m.newID(),
		LastName:     CapitalizeWords(lastName),
		FirstName:    CapitalizeWords(firstName),
		Email:        strings.ToLower(email),
		Phone:        NormalizePhone(row[colPhone]),
		ContractType: NormalizeContractType(row[colContractType]),
		Objective:    ComposeObjective(row[colStack], row[colExperienceLevel], row[colWishes]),
		CVLink:       NormalizeURL(row[colCVLink]),
		StartDate:    ParseSheetTimestamp(row[colTimestamp], now),
		CreatedAt:    types.FormatTimestamp(now),

		City:            row[colCity],
		Availability:    row[colAvailability],
		Stack:           row[colStack],
		ExperienceLevel: row[colExperienceLevel],
		LastExperience:  Truncate(row[colLastExperience], types.MaxLastExperienceLength),
		Wishes:          row[colWishes],
		SameSchool:      row[colSameSchool],

		Status: types.StatusInProgress,
	}, nil
}
