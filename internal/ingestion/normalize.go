package ingestion

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/candidate-tracker/internal/types"
)

// ObjectivePlaceholder is used when no objective segment survives composition.
const ObjectivePlaceholder = "À définir lors de l'entretien"

// contractExact maps the exact values emitted by the intake form.
var contractExact = map[string]types.ContractType{
	"cdi":        types.ContractCDI,
	"cdd":        types.ContractCDD,
	"stage":      types.ContractStage,
	"alternance": types.ContractAlternance,
}

// contractSynonyms are checked in order; the first rule with a matching
// substring wins. "indéterminée" must be tested before "déterminée".
var contractSynonyms = []struct {
	contains []string
	result   types.ContractType
}{
	{[]string{"freelance", "portage"}, types.ContractFreelance},
	{[]string{"cdi", "indéterminée"}, types.ContractCDI},
	{[]string{"cdd", "déterminée"}, types.ContractCDD},
	{[]string{"stage"}, types.ContractStage},
	{[]string{"alternance", "apprentissage"}, types.ContractAlternance},
	{[]string{"freelance", "indépendant"}, types.ContractFreelance},
}

// NormalizeContractType canonicalizes free-text contract input.
// Unrecognized or empty input yields CDI.
func NormalizeContractType(raw string) types.ContractType {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return types.ContractCDI
	}

	if ct, ok := contractExact[normalized]; ok {
		return ct
	}

	for _, rule := range contractSynonyms {
		for _, token := range rule.contains {
			if strings.Contains(normalized, token) {
				return rule.result
			}
		}
	}

	return types.ContractCDI
}

// ParseSheetTimestamp reads the leading YYYY/MM/DD token of a spreadsheet
// timestamp such as "2025/10/13 9:43:20 AM UTC+1" and returns YYYY-MM-DD.
// Anything that is not three numeric parts yields the date of now.
func ParseSheetTimestamp(raw string, now time.Time) string {
	token, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return types.FormatDate(now)
	}
	for _, p := range parts {
		if !isDigits(p) {
			return types.FormatDate(now)
		}
	}

	return parts[0] + "-" + padTwo(parts[1]) + "-" + padTwo(parts[2])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func padTwo(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// NormalizePhone keeps digits and a leading '+', and rewrites 10-digit French
// local numbers (0XXXXXXXXX) to +33XXXXXXXXX.
func NormalizePhone(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '+' && sb.Len() == 0:
			sb.WriteRune(r)
		}
	}

	phone := sb.String()
	if len(phone) == 10 && phone[0] == '0' {
		return "+33" + phone[1:]
	}
	return phone
}

// NormalizeURL prefixes https:// onto non-empty values without an http(s) scheme.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// CapitalizeWords lower-cases s and upper-cases the first letter of every
// whitespace-delimited word. Whitespace is preserved as is.
func CapitalizeWords(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	atWordStart := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			atWordStart = true
			sb.WriteRune(r)
			continue
		}
		if atWordStart {
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ComposeObjective builds a " | "-joined summary from the form answers.
// A stack of "Oui" and wishes of "secteur"/"tecno" are form noise and skipped.
func ComposeObjective(stack, level, wishes string) string {
	segments := make([]string, 0, 3)

	if stack != "" && stack != "Oui" {
		segments = append(segments, "Stack: "+stack)
	}
	if level != "" {
		segments = append(segments, "Niveau: "+level)
	}
	if wishes != "" {
		lower := strings.ToLower(wishes)
		if lower != "secteur" && lower != "tecno" {
			segments = append(segments, "Souhaits: "+wishes)
		}
	}

	if len(segments) == 0 {
		return ObjectivePlaceholder
	}
	return strings.Join(segments, " | ")
}

// SplitFullName splits the form's combined name answer.
//
// One token is a last name only. Two tokens read "Last First". Three or more
// read "First Last Last...".
func SplitFullName(full string) (lastName, firstName string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	case 2:
		return parts[0], parts[1]
	default:
		return strings.Join(parts[1:], " "), parts[0]
	}
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// SanitizeRecord coerces a record read from JSON onto the invariants of the
// collection: canonical contract type and status, non-negative count,
// trimmed email and a capped last-experience text.
func SanitizeRecord(c *types.Candidate) {
	c.Email = strings.TrimSpace(c.Email)
	c.ContractType = NormalizeContractType(string(c.ContractType))
	c.Status = types.NormalizeStatus(string(c.Status))
	c.ApplicationCount = types.ClampApplicationCount(c.ApplicationCount)
	c.LastExperience = Truncate(c.LastExperience, types.MaxLastExperienceLength)
}
