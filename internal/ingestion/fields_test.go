package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"plain fields", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"escaped quote", `a,"b""c",d`, []string{"a", `b"c`, "d"}},
		{"empty fields", "a,,c,", []string{"a", "", "c", ""}},
		{"single field", "alone", []string{"alone"}},
		{"empty line", "", []string{""}},
		{"quote mid field opens quoting", `ab"c,d"e,f`, []string{"abc,de", "f"}},
		{"unterminated quote keeps rest", `a,"b,c,d`, []string{"a", "b,c,d"}},
		{"quoted empty", `"",x`, []string{"", "x"}},
		{"only escaped quotes", `"""",x`, []string{`"`, "x"}},
		{"multibyte content", `"Élodie, Zoé",Prénom`, []string{"Élodie, Zoé", "Prénom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitFields(tt.line))
		})
	}
}

func TestSplitFields_FieldCountMatchesUnquotedCommas(t *testing.T) {
	line := `2025/10/13 9:43:20 AM UTC+1,jdupont,Dupont Jean,jean@example.com,06 12 34 56 78,"Paris, mobile",CDI,Immédiate,Go,Junior,"Stage ""backend""",github.com/jdupont,,Non,Oui`
	fields := SplitFields(line)

	assert.Len(t, fields, 15)
	assert.Equal(t, "Paris, mobile", fields[5])
	assert.Equal(t, `Stage "backend"`, fields[10])
	assert.Equal(t, "", fields[12])
	assert.Equal(t, "Oui", fields[14])
}
