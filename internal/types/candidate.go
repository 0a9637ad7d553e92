// Package types provides type definitions for structured data used throughout the candidate tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// ContractType is the kind of contract a candidate is looking for.
type ContractType string

// Recognized contract types. Anything else normalizes to ContractCDI.
const (
	ContractCDI        ContractType = "CDI"
	ContractCDD        ContractType = "CDD"
	ContractStage      ContractType = "Stage"
	ContractAlternance ContractType = "Alternance"
	ContractFreelance  ContractType = "Freelance"
)

// ContractTypes lists every recognized contract type in display order.
var ContractTypes = []ContractType{
	ContractCDI,
	ContractCDD,
	ContractStage,
	ContractAlternance,
	ContractFreelance,
}

// Status is the accompaniment status of a candidate.
type Status string

// Recognized statuses. StatusInProgress is the default.
const (
	StatusInProgress   Status = "en cours"
	StatusInterviewing Status = "en entretien"
	StatusHired        Status = "embauché"
	StatusPaused       Status = "en pause"
)

// Statuses lists every recognized status in display order.
var Statuses = []Status{
	StatusInProgress,
	StatusInterviewing,
	StatusHired,
	StatusPaused,
}

// DateLayout is the calendar date format used for start dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the creation timestamp format (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MaxLastExperienceLength caps the last-experience enrichment field, in characters.
const MaxLastExperienceLength = 500

// Candidate is a tracked job applicant.
// JSON keys follow the persisted blob format so existing exports load unchanged.
type Candidate struct {
	ID           string       `json:"id"`
	LastName     string       `json:"nom"`
	FirstName    string       `json:"prenom"`
	Email        string       `json:"email"`
	Phone        string       `json:"telephone"`
	ContractType ContractType `json:"typeContrat"`
	Objective    string       `json:"objectifPro"`
	CVLink       string       `json:"lienCV"`
	StartDate    string       `json:"dateDebut"`
	CreatedAt    string       `json:"dateCreation"`

	// Enrichment fields, only populated by CSV import
	City            string `json:"ville,omitempty"`
	Availability    string `json:"disponibilite,omitempty"`
	Stack           string `json:"stackPrincipale,omitempty"`
	ExperienceLevel string `json:"niveauExperience,omitempty"`
	LastExperience  string `json:"derniereExperience,omitempty"`
	Wishes          string `json:"souhaitsPart,omitempty"`
	SameSchool      string `json:"memeFac,omitempty"`

	// Tracking fields
	DiscoveryCall    bool   `json:"appelDecouverte"`
	CVReview         bool   `json:"optimisationCV"`
	LinkedInReview   bool   `json:"optimisationLinkedIn"`
	InterviewPrep    bool   `json:"preparationEntretiens"`
	ApplicationCount int    `json:"nbCandidatures"`
	TargetCompanies  string `json:"entreprisesCiblees"`
	InterviewsPassed string `json:"entretiensPass"`
	Status           Status `json:"statutActuel"`
}

// FullName returns "FirstName LastName".
func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// EmailKey returns the case-insensitive uniqueness key of the candidate.
func (c *Candidate) EmailKey() string {
	return EmailKey(c.Email)
}

// EmailKey normalizes an email address for uniqueness comparisons.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SearchText is the lower-cased text matched by candidate search.
func (c *Candidate) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		c.LastName,
		c.FirstName,
		c.Email,
		string(c.ContractType),
		string(c.Status),
	}, " "))
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatDate renders the calendar date of t (UTC) in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// NormalizeStatus maps s onto a recognized status, case-insensitively.
// Unrecognized input yields StatusInProgress.
func NormalizeStatus(s string) Status {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if lower == string(st) {
			return st
		}
	}
	return StatusInProgress
}

// ParseApplicationCount reads a leading non-negative integer from s.
// Non-numeric input and negative values yield 0.
func ParseApplicationCount(s string) int {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0
	}
	s = strings.TrimPrefix(s, "+")

	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000_000 {
			return 1_000_000_000
		}
	}
	return n
}

// ClampApplicationCount returns n, or 0 when n is negative.
func ClampApplicationCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
