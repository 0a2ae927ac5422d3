package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Render colors a diff for terminal display: hunk headers in blue,
// additions green, removals red, context dimmed.
func Render(r *Result) string {
	if !r.Changed() {
		return contextStyle.Render("(no changes)")
	}
	var b strings.Builder
	for _, hunk := range r.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		b.WriteString(headerStyle.Render(header))
		b.WriteString("\n")
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAdded:
				b.WriteString(addedStyle.Render("+ " + line.Content))
			case LineRemoved:
				b.WriteString(removedStyle.Render("- " + line.Content))
			default:
				b.WriteString(contextStyle.Render("  " + line.Content))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
