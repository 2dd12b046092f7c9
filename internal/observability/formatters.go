// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/superdocs/superdocs/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProjectMetadata outputs a human-readable summary of a connected
// project.
func (p *Printer) PrintProjectMetadata(meta *types.ProjectMetadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", meta.Name))
	sb.WriteString(fmt.Sprintf("Framework:  %s\n", meta.Framework))
	if meta.PackageManager != "" {
		sb.WriteString(fmt.Sprintf("Manager:    %s\n", meta.PackageManager))
	}
	if len(meta.EntryPoints) > 0 {
		sb.WriteString(fmt.Sprintf("Entry:      %s\n", strings.Join(meta.EntryPoints, ", ")))
	}
	if len(meta.EnvFiles) > 0 {
		sb.WriteString(fmt.Sprintf("Env files:  %s\n", strings.Join(meta.EnvFiles, ", ")))
	}

	p.printBox("Project", sb.String())
}

// PrintRankedFiles outputs the top-scored files selected for deep context.
func (p *Printer) PrintRankedFiles(ranked []types.RankedFile) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %2d  %s\n", ranked[i].Score, ranked[i].Path))
	}
	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ranked)-maxItemsToShow))
	}

	p.printBox("Important Files", sb.String())
}

// PrintPlan outputs the planned documentation pages grouped by category.
func (p *Printer) PrintPlan(units []types.GenerationUnit) {
	if len(units) == 0 {
		return
	}

	byCategory := make(map[string][]string)
	var categories []string
	for _, u := range units {
		if _, seen := byCategory[u.Category]; !seen {
			categories = append(categories, u.Category)
		}
		byCategory[u.Category] = append(byCategory[u.Category], u.Title)
	}

	var sb strings.Builder
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("%s:\n", cat))
		for _, title := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("  • %s\n", title))
		}
	}

	p.printBox(fmt.Sprintf("Plan (%d pages)", len(units)), sb.String())
}

// PrintUnitStatus outputs one content-phase transition.
func (p *Printer) PrintUnitStatus(title string, status types.UnitStatus) {
	fmt.Fprintf(p.out, "  [%s] %s\n", status, title) //nolint:errcheck
}
