// Package observability provides logging setup and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/candidate-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxFailuresToShow is the number of rejected rows listed in an import summary
	maxFailuresToShow = 5
)

// ImportSummary is the printable outcome of an import.
type ImportSummary struct {
	FileName   string
	Mode       types.ImportMode
	Parsed     int
	Added      int
	Duplicates int
	Failed     int
	Replaced   bool
	Failures   []string
}

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to exactly width characters.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func check(done bool) string {
	if done {
		return "✓"
	}
	return "✗"
}

// PrintCandidate outputs every field of one candidate.
func (p *Printer) PrintCandidate(c *types.Candidate) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", c.ID))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", c.Email))
	if c.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", c.Phone))
	}
	sb.WriteString(fmt.Sprintf("Contract: %s\n", c.ContractType))
	sb.WriteString(fmt.Sprintf("Start:    %s\n", c.StartDate))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", c.Status))
	if c.Objective != "" {
		sb.WriteString(fmt.Sprintf("Goal:     %s\n", c.Objective))
	}
	if c.CVLink != "" {
		sb.WriteString(fmt.Sprintf("CV:       %s\n", c.CVLink))
	}
	if c.City != "" {
		sb.WriteString(fmt.Sprintf("City:     %s\n", c.City))
	}
	sb.WriteString("\n")

	sb.WriteString("Tracking:\n")
	sb.WriteString(fmt.Sprintf("  %s Discovery call\n", check(c.DiscoveryCall)))
	sb.WriteString(fmt.Sprintf("  %s CV review\n", check(c.CVReview)))
	sb.WriteString(fmt.Sprintf("  %s LinkedIn review\n", check(c.LinkedInReview)))
	sb.WriteString(fmt.Sprintf("  %s Interview prep\n", check(c.InterviewPrep)))
	sb.WriteString(fmt.Sprintf("  Applications: %d\n", c.ApplicationCount))
	if c.TargetCompanies != "" {
		sb.WriteString(fmt.Sprintf("  Targets:    %s\n", c.TargetCompanies))
	}
	if c.InterviewsPassed != "" {
		sb.WriteString(fmt.Sprintf("  Interviews: %s\n", c.InterviewsPassed))
	}

	p.printBox(strings.ToUpper(c.FullName()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidateTable outputs one line per candidate.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCandidateTable(candidates []types.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(p.out, "No candidates.")
		return
	}

	fmt.Fprintf(p.out, "%-36s  %-24s  %-30s  %-10s  %s\n", "ID", "NAME", "EMAIL", "CONTRACT", "STATUS")
	for i := range candidates {
		c := &candidates[i]
		fmt.Fprintf(p.out, "%-36s  %s  %s  %-10s  %s\n",
			c.ID, pad(c.FullName(), 24), pad(c.Email, 30), c.ContractType, c.Status)
	}
}

// PrintImportSummary outputs the counts of an import and the first rejected rows.
func (p *Printer) PrintImportSummary(s *ImportSummary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s\n", s.FileName))
	sb.WriteString(fmt.Sprintf("Mode:       %s\n", s.Mode))
	sb.WriteString(fmt.Sprintf("Parsed:     %d\n", s.Parsed))
	if s.Replaced {
		sb.WriteString(fmt.Sprintf("Replaced:   collection now holds %d\n", s.Added))
	} else {
		sb.WriteString(fmt.Sprintf("Added:      %d\n", s.Added))
		sb.WriteString(fmt.Sprintf("Duplicates: %d\n", s.Duplicates))
	}
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", s.Failed))

	if len(s.Failures) > 0 {
		sb.WriteString("\nRejected rows:\n")
		count := min(len(s.Failures), maxFailuresToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", s.Failures[i]))
		}
		if len(s.Failures) > maxFailuresToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(s.Failures)-maxFailuresToShow))
		}
	}

	p.printBox("IMPORT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs the per-status counters.
func (p *Printer) PrintStats(s types.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:        %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Hired:        %d\n", s.Hired))
	sb.WriteString(fmt.Sprintf("Interviewing: %d\n", s.Interviewing))
	sb.WriteString(fmt.Sprintf("In progress:  %d\n", s.InProgress))
	sb.WriteString(fmt.Sprintf("Paused:       %d", s.Paused))

	p.printBox("CANDIDATES", sb.String())
}
