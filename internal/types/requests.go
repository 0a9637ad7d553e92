package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// emailPattern accepts local@domain.tld with no whitespace or extra @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email matches the local@domain.tld pattern.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator returns the shared validator with the candidate rules registered.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		err := validate.RegisterValidation("candidate_email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("register candidate_email validation: %v", err))
		}
	})
	return validate
}

// fieldLabels are the user-facing names of the create form fields.
var fieldLabels = map[string]string{
	"LastName":     "Nom",
	"FirstName":    "Prénom",
	"Email":        "Email",
	"ContractType": "Type de contrat",
	"StartDate":    "Date de début",
}

// CreateCandidateRequest is the manual add form.
type CreateCandidateRequest struct {
	LastName     string `json:"nom" validate:"required"`
	FirstName    string `json:"prenom" validate:"required"`
	Email        string `json:"email" validate:"required,candidate_email"`
	Phone        string `json:"telephone,omitempty"`
	ContractType string `json:"typeContrat" validate:"required"`
	Objective    string `json:"objectifPro,omitempty"`
	CVLink       string `json:"lienCV,omitempty"`
	StartDate    string `json:"dateDebut" validate:"required,datetime=2006-01-02"`
}

// Trim removes surrounding whitespace from every text field.
func (r *CreateCandidateRequest) Trim() {
	r.LastName = strings.TrimSpace(r.LastName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.ContractType = strings.TrimSpace(r.ContractType)
	r.Objective = strings.TrimSpace(r.Objective)
	r.CVLink = strings.TrimSpace(r.CVLink)
	r.StartDate = strings.TrimSpace(r.StartDate)
}

// Validate validates the CreateCandidateRequest using the validator.
// The first failing field is reported as a *FieldError.
func (r *CreateCandidateRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return &FieldError{Field: fe.Field(), Message: fmt.Sprintf("Le champ %s est obligatoire.", label)}
	case "candidate_email":
		return &FieldError{Field: fe.Field(), Message: "L'adresse email n'est pas valide."}
	case "datetime":
		return &FieldError{Field: fe.Field(), Message: fmt.Sprintf("Le champ %s doit être au format AAAA-MM-JJ.", label)}
	default:
		return &FieldError{Field: fe.Field(), Message: fmt.Sprintf("Le champ %s est invalide.", label)}
	}
}

// ErrDuplicateEmail classifies a candidate whose email is already present.
var ErrDuplicateEmail = errors.New("duplicate email")

// FieldError reports a single invalid form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Count is an application count read from a JSON number or a form string.
// Strings go through ParseApplicationCount, so "abc" decodes to 0.
type Count int

// ParseCount coerces s into a Count.
func ParseCount(s string) Count {
	return Count(ParseApplicationCount(s))
}

// UnmarshalJSON accepts a number or a string.
func (c *Count) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ParseCount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("nbCandidatures must be a number or a string: %w", err)
	}
	*c = ParseCount(n.String())
	return nil
}

// UpdateTrackingRequest carries tracking-field changes. Nil fields are left unchanged.
type UpdateTrackingRequest struct {
	DiscoveryCall    *bool   `json:"appelDecouverte,omitempty"`
	CVReview         *bool   `json:"optimisationCV,omitempty"`
	LinkedInReview   *bool   `json:"optimisationLinkedIn,omitempty"`
	InterviewPrep    *bool   `json:"preparationEntretiens,omitempty"`
	ApplicationCount *Count  `json:"nbCandidatures,omitempty"`
	TargetCompanies  *string `json:"entreprisesCiblees,omitempty"`
	InterviewsPassed *string `json:"entretiensPass,omitempty"`
	Status           *string `json:"statutActuel,omitempty"`
}

// Apply copies the requested tracking changes onto c, coercing count and status.
func (r *UpdateTrackingRequest) Apply(c *Candidate) {
	if r.DiscoveryCall != nil {
		c.DiscoveryCall = *r.DiscoveryCall
	}
	if r.CVReview != nil {
		c.CVReview = *r.CVReview
	}
	if r.LinkedInReview != nil {
		c.LinkedInReview = *r.LinkedInReview
	}
	if r.InterviewPrep != nil {
		c.InterviewPrep = *r.InterviewPrep
	}
	if r.ApplicationCount != nil {
		c.ApplicationCount = ClampApplicationCount(int(*r.ApplicationCount))
	}
	if r.TargetCompanies != nil {
		c.TargetCompanies = strings.TrimSpace(*r.TargetCompanies)
	}
	if r.InterviewsPassed != nil {
		c.InterviewsPassed = strings.TrimSpace(*r.InterviewsPassed)
	}
	if r.Status != nil {
		c.Status = NormalizeStatus(*r.Status)
	}
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateTrackingRequest) IsEmpty() bool {
	return r.DiscoveryCall == nil && r.CVReview == nil && r.LinkedInReview == nil &&
		r.InterviewPrep == nil && r.ApplicationCount == nil && r.TargetCompanies == nil &&
		r.InterviewsPassed == nil && r.Status == nil
}
