package shell

import (
	"strings"

	"github.com/Necromancer-Labs/relayx/internal/config"
)

// Completer provides tab completion for the relayx prompt.
// The first word completes to command names and aliases; the first argument
// of `set` completes to option names. Nothing else is completed.
type Completer struct {
	commands []string

	// argCompletions maps a command name to candidates for its first argument
	argCompletions map[string][]string
}

// NewCompleter creates a completer over the command table.
func NewCompleter() *Completer {
	return &Completer{
		commands: commandNames(),
		argCompletions: map[string][]string{
			"set": config.OptionNames(),
		},
	}
}

// Do implements readline.AutoCompleter interface.
// Called when user presses TAB.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	// Get the text up to cursor position
	lineStr := string(line[:pos])
	parts := strings.Fields(lineStr)
	trailingSpace := strings.HasSuffix(lineStr, " ")

	// Still typing the first word
	if len(parts) == 0 {
		return complete(c.commands, "")
	}
	if len(parts) == 1 && !trailingSpace {
		return complete(c.commands, parts[0])
	}

	candidates, ok := c.argCompletions[strings.ToLower(parts[0])]
	if !ok {
		return nil, 0
	}

	// Only the first argument is completed
	switch {
	case len(parts) == 1 && trailingSpace:
		return complete(candidates, "")
	case len(parts) == 2 && !trailingSpace:
		return complete(candidates, parts[1])
	default:
		return nil, 0
	}
}

// complete returns the suffixes of candidates starting with prefix, and the
// prefix length readline should treat as already typed.
func complete(candidates []string, prefix string) ([][]rune, int) {
	var matches [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) {
			matches = append(matches, []rune(cand[len(prefix):]+" "))
		}
	}
	return matches, len([]rune(prefix))
}
