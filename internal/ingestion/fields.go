package ingestion

import "strings"

// SplitFields tokenizes one CSV line into its comma-separated fields.
//
// A double quote opens a quoted region wherever it appears outside one; inside,
// commas are literal and "" yields a single quote. An unterminated quote keeps
// the rest of the line in the current field. The last field is always emitted.
func SplitFields(line string) []string {
	fields := make([]string, 0, 16)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && !inQuotes:
			inQuotes = true
		case ch == '"' && i+1 < len(line) && line[i+1] == '"':
			current.WriteByte('"')
			i++
		case ch == '"':
			inQuotes = false
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	return append(fields, current.String())
}
