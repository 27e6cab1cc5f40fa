package ui

import (
	"strings"

	"github.com/Necromancer-Labs/relayx/internal/ui/theme"
	"github.com/charmbracelet/lipgloss"
)

// Entry is one row of a two-column table.
type Entry struct {
	Name        string
	Description string
}

// Table renders entries as a borderless two-column table without a header.
// Every entry produces exactly one line.
func Table(entries []Entry) string {
	width := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Name); w > width {
			width = w
		}
	}

	// Width includes the key style's right padding
	keyStyle := theme.TableKeyStyle.Width(width + theme.TableKeyStyle.GetPaddingRight())

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			keyStyle.Render(e.Name),
			theme.TableValueStyle.Render(e.Description),
		))
	}
	return strings.Join(lines, "\n")
}
