// Package ui renders everything the operator sees apart from the prompt:
// status lines, tables and the spinner shown while a socket call blocks.
package ui

import (
	"fmt"
	"io"

	"github.com/Necromancer-Labs/relayx/internal/ui/theme"
)

// PrintError prints a styled error line.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintf(w, " %s: %s\n", theme.ErrorStyle.Render("error"), msg)
}

// PrintWarn prints a styled warning line.
func PrintWarn(w io.Writer, msg string) {
	fmt.Fprintf(w, " %s: %s\n", theme.WarnStyle.Render("warn"), msg)
}

// PrintDone confirms a successful operation.
func PrintDone(w io.Writer, msg string) {
	fmt.Fprintf(w, " %s %s\n", theme.DoneStyle.Render("✓"), msg)
}

// PrintOption prints an option heading followed by its description.
func PrintOption(w io.Writer, name, description string) {
	fmt.Fprintf(w, "%s\n%s\n", theme.OptionNameStyle.Render(name), description)
}
