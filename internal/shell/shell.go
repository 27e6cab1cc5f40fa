// Package shell provides the relayx read-eval-print loop.
//
// The loop reads one line at a time, dispatches it to a command handler and
// reports handler errors without stopping. It owns the session state (the
// connection link and the configuration) and hands it to every handler:
//   - open, send, close drive the connection.Link state machine
//   - set, list read and change the configuration, persisting every change
//   - help, clear only render
//   - exit shuts the connection down and ends the loop
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Necromancer-Labs/relayx/internal/config"
	"github.com/Necromancer-Labs/relayx/internal/connection"
	"github.com/Necromancer-Labs/relayx/internal/logx"
	"github.com/Necromancer-Labs/relayx/internal/ui"
	"github.com/Necromancer-Labs/relayx/internal/ui/theme"
)

var (
	// ErrExit is returned by Execute when the operator asked to leave.
	ErrExit = errors.New("exit requested")

	// ErrCancelled is returned when the operator presses Ctrl-C at a
	// value prompt. The command is abandoned without an error message.
	ErrCancelled = errors.New("cancelled")
)

// State bundles everything a command may read or change.
type State struct {
	Link   *connection.Link
	Config *config.Config
}

// Options configures a Shell. Out and Input are required.
type Options struct {
	Input   LineReader
	Out     io.Writer
	Err     io.Writer     // defaults to Out
	Spinner ui.Spinner    // defaults to ui.Passthrough
	Store   *config.Store // nil disables persistence
}

// Shell is the interactive command loop for one relayx session.
type Shell struct {
	state   State
	input   LineReader
	out     io.Writer
	errOut  io.Writer
	spinner ui.Spinner
	store   *config.Store
}

// New creates a shell over the given state.
func New(state State, opts Options) *Shell {
	s := &Shell{
		state:   state,
		input:   opts.Input,
		out:     opts.Out,
		errOut:  opts.Err,
		spinner: opts.Spinner,
		store:   opts.Store,
	}
	if s.errOut == nil {
		s.errOut = s.out
	}
	if s.spinner == nil {
		s.spinner = ui.Passthrough{}
	}
	return s
}

// Prompt returns the prompt for the current connection state:
// the label in bold followed by "> ".
func (s *Shell) Prompt() string {
	return theme.PromptStyle.Render(s.state.Link.Label()+">") + " "
}

// Run reads and executes lines until exit or end of input.
// Handler errors are printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		line, err := s.input.ReadLine(s.Prompt())
		if err != nil {
			if errors.Is(err, ErrInterrupt) {
				// Ctrl-C discards the line being typed
				continue
			}
			if errors.Is(err, io.EOF) {
				// Ctrl-D behaves like exit
				s.shutdown()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if h, ok := s.input.(historySaver); ok {
			_ = h.SaveHistory(line)
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			if errors.Is(err, ErrCancelled) {
				continue
			}
			ui.PrintError(s.errOut, err.Error())
		}
	}
}

// ask prompts the operator for one value, e.g. "( address ): ".
func (s *Shell) ask(what string) (string, error) {
	line, err := s.input.ReadLine(fmt.Sprintf("( %s ): ", what))
	if err != nil {
		if errors.Is(err, ErrInterrupt) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return strings.TrimSpace(line), nil
}

// save persists the in-memory configuration.
func (s *Shell) save() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(*s.state.Config); err != nil {
		logx.Debugf("save configuration to %s: %v", s.store.Path(), err)
		return err
	}
	return nil
}

// shutdown closes any open connection, announcing it first.
func (s *Shell) shutdown() {
	if s.state.Link.State() == connection.Connected {
		fmt.Fprintln(s.out, "Shutting down current connection...")
		s.state.Link.Shutdown()
	}
}

// FormatBanner creates the welcome banner shown at startup.
func FormatBanner(version string) string {
	title := theme.TitleStyle.Render("Relayx " + version)
	return fmt.Sprintf("%s\nEnter ?/help to display help message.\n", title)
}
