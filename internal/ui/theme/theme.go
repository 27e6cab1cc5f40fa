// Package theme provides the visual styling for the relayx client.
//
// This package defines a consistent color palette and lipgloss styles
// used for:
//   - The prompt and the startup banner
//   - Status lines (done, warn, error)
//   - The help and list tables
//   - The connect/send spinner
package theme

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary = lipgloss.Color("#8A2BE2") // Purple - accents
	Success = lipgloss.Color("#22c55e") // Green - done markers, spinner
	Warning = lipgloss.Color("#f59e0b") // Amber - warnings
	Error   = lipgloss.Color("#ef4444") // Red - errors
	Subtle  = lipgloss.Color("250")     // Light gray (ANSI 256) - table values
)

// Styles - reusable lipgloss styles
var (
	// TitleStyle is used for the program title in the banner
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// PromptStyle renders the connection label in the prompt
	PromptStyle = lipgloss.NewStyle().
			Bold(true)

	// DoneStyle marks a completed operation (green check)
	DoneStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// WarnStyle labels non-fatal warnings
	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	// ErrorStyle labels error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// OptionNameStyle is the heading of `set <name>` output
	OptionNameStyle = lipgloss.NewStyle().
			Bold(true).
			Italic(true)

	// TableKeyStyle is the first column of help/list tables
	TableKeyStyle = lipgloss.NewStyle().
			Bold(true).
			PaddingRight(2)

	// TableValueStyle is the second column of help/list tables
	TableValueStyle = lipgloss.NewStyle().
			Foreground(Subtle)

	// SpinnerStyle colors the spinner glyph
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Success)
)
