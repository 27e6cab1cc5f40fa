package shell

import (
	"github.com/chzyer/readline"
)

// ErrInterrupt is returned by a LineReader when the operator presses Ctrl-C.
var ErrInterrupt = readline.ErrInterrupt

// LineReader reads one line of operator input after showing prompt.
// It returns io.EOF when input ends.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// historySaver is implemented by readers that keep a command history.
// Only command lines are recorded, not answers to "( address ): " prompts.
type historySaver interface {
	SaveHistory(line string) error
}

// ReadlineInput reads lines with github.com/chzyer/readline, giving the
// prompt line editing, persisted history and tab completion.
type ReadlineInput struct {
	rl *readline.Instance
}

// NewReadlineInput creates a readline-backed reader. An empty historyFile
// disables persisted history.
func NewReadlineInput(historyFile string) (*ReadlineInput, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		HistoryFile:            historyFile,
		DisableAutoSaveHistory: true,
		AutoComplete:           NewCompleter(),
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistorySearchFold:      true,
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineInput{rl: rl}, nil
}

// ReadLine shows prompt and reads one line.
func (r *ReadlineInput) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

// SaveHistory appends line to the history.
func (r *ReadlineInput) SaveHistory(line string) error {
	return r.rl.SaveHistory(line)
}

// Close restores the terminal.
func (r *ReadlineInput) Close() error {
	return r.rl.Close()
}
