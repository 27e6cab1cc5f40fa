package ui

import (
	"fmt"
	"io"

	"github.com/Necromancer-Labs/relayx/internal/logx"
	"github.com/Necromancer-Labs/relayx/internal/ui/theme"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Spinner shows progress while fn blocks and returns fn's error.
type Spinner interface {
	Run(msg string, fn func() error) error
}

// Passthrough runs fn with no visual feedback. Used when output is not a terminal.
type Passthrough struct{}

// Run calls fn.
func (Passthrough) Run(msg string, fn func() error) error {
	return fn()
}

// TeaSpinner draws a bubbles spinner on out while fn runs.
type TeaSpinner struct {
	out io.Writer
}

// NewTeaSpinner creates a spinner rendering to out (normally stderr).
func NewTeaSpinner(out io.Writer) *TeaSpinner {
	return &TeaSpinner{out: out}
}

// spinnerDoneMsg tells the model fn has returned.
type spinnerDoneMsg struct{}

// spinnerModel is the Bubble Tea model for a single spinner line.
type spinnerModel struct {
	spinner spinner.Model
	msg     string
	done    bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		// Empty view on the final frame clears the line
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf(" %s %s", m.spinner.View(), m.msg)
}

// Run executes fn on the calling goroutine while the spinner animates on
// its own. The socket call in fn is never touched by the spinner.
func (s *TeaSpinner) Run(msg string, fn func() error) error {
	model := spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.SpinnerStyle),
		),
		msg: msg,
	}

	p := tea.NewProgram(model,
		tea.WithOutput(s.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if _, err := p.Run(); err != nil {
			logx.Debugf("spinner: %v", err)
		}
	}()

	err := fn()

	p.Send(spinnerDoneMsg{})
	<-finished
	return err
}
