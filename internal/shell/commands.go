package shell

// Command table, dispatcher and handlers.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Necromancer-Labs/relayx/internal/config"
	"github.com/Necromancer-Labs/relayx/internal/connection"
	"github.com/Necromancer-Labs/relayx/internal/ui"
)

// Errors reported by the dispatcher and handlers. Connection and option
// errors come from the connection and config packages.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrEmptyAddress       = errors.New("address is empty")
	ErrNoRecentConnection = fmt.Errorf("%w and no recent connection available", ErrEmptyAddress)
	ErrTooManyArguments   = errors.New("too many arguments")
)

// command is one entry of the command table. The first name is canonical,
// the rest are aliases.
type command struct {
	names       []string
	description string
	run         func(s *Shell, ctx context.Context, args []string) error
}

// commandTable drives dispatch, help output and completion.
func commandTable() []command {
	return []command{
		{[]string{"open", "o"}, "Open a new TCP connection", (*Shell).handleOpen},
		{[]string{"send", "s"}, "Send a message", (*Shell).handleSend},
		{[]string{"close"}, "Close current connection", (*Shell).handleClose},
		{[]string{"set"}, "Set configuration options", (*Shell).handleSet},
		{[]string{"list", "ls"}, "List current configuration", (*Shell).handleList},
		{[]string{"clear"}, "Clear the console screen", (*Shell).handleClear},
		{[]string{"help", "?"}, "Show this help message", (*Shell).handleHelp},
		{[]string{"exit"}, "Exit relayx", (*Shell).handleExit},
	}
}

// commandNames returns every name and alias, in table order.
func commandNames() []string {
	var names []string
	for _, c := range commandTable() {
		names = append(names, c.names...)
	}
	return names
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commandTable() {
		for _, n := range c.names {
			if n == name {
				return c, true
			}
		}
	}
	return command{}, false
}

// parseCommand splits a line on whitespace into a command and its arguments.
// There is no quoting.
func parseCommand(line string) (string, []string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

// Execute dispatches one line of input. Blank lines do nothing.
// Command names are matched case-insensitively.
func (s *Shell) Execute(ctx context.Context, line string) error {
	name, args := parseCommand(line)
	if name == "" {
		return nil
	}

	cmd, ok := lookupCommand(strings.ToLower(name))
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.run(s, ctx, args)
}

// handleOpen connects to the address given as the only argument, or asks
// for one. An empty answer reuses the most recent connection.
func (s *Shell) handleOpen(ctx context.Context, args []string) error {
	link, cfg := s.state.Link, s.state.Config
	if link.State() == connection.Connected {
		return connection.ErrAlreadyConnected
	}

	var addr string
	if len(args) == 1 {
		addr = args[0]
	} else {
		answer, err := s.ask("address")
		if err != nil {
			return err
		}
		addr = answer
	}

	if addr == "" {
		if cfg.RecentConnection == "" {
			return ErrNoRecentConnection
		}
		addr = cfg.RecentConnection
	}

	if err := connection.ValidateAddress(addr); err != nil {
		return err
	}

	err := s.spinner.Run("Connecting...", func() error {
		return link.Open(ctx, addr, cfg.DialDeadline())
	})
	if err != nil {
		return err
	}
	ui.PrintDone(s.out, "Connection established")

	cfg.RecentConnection = addr
	if err := s.save(); err != nil {
		ui.PrintWarn(s.errOut, fmt.Sprintf("could not remember %s: %v", addr, err))
	}
	return nil
}

// handleSend writes the joined arguments, or a prompted line, to the
// connection and prints the reply when wait_for_response is on.
func (s *Shell) handleSend(ctx context.Context, args []string) error {
	link, cfg := s.state.Link, s.state.Config
	if link.State() != connection.Connected {
		return fmt.Errorf("%w, use 'open' first", connection.ErrNotConnected)
	}

	var msg string
	if len(args) > 0 {
		msg = strings.Join(args, " ")
	} else {
		answer, err := s.ask("message")
		if err != nil {
			return err
		}
		msg = answer
	}

	var reply string
	err := s.spinner.Run("Sending...", func() error {
		var err error
		reply, err = link.Send(msg, cfg.WaitForResponse, cfg.ReadDeadline())
		return err
	})
	if err != nil {
		return err
	}

	if !cfg.WaitForResponse {
		ui.PrintDone(s.out, "Message sent successfully.")
		return nil
	}
	fmt.Fprintln(s.out, reply)
	return nil
}

func (s *Shell) handleClose(ctx context.Context, args []string) error {
	if err := s.state.Link.Close(); err != nil {
		return err
	}
	ui.PrintDone(s.out, "Closed the connection.")
	return nil
}

// handleSet shows an option with one argument and changes it with two.
// A change is saved immediately; a failed save keeps the new value in memory.
func (s *Shell) handleSet(ctx context.Context, args []string) error {
	cfg := s.state.Config

	switch len(args) {
	case 0:
		fmt.Fprintf(s.out, "Nothing to set. Options: %s\n", strings.Join(config.OptionNames(), ", "))
		return nil

	case 1:
		opt, err := config.LookupOption(args[0])
		if err != nil {
			return err
		}
		ui.PrintOption(s.out, opt.Name, opt.Describe(cfg))
		return nil

	case 2:
		opt, err := config.LookupOption(args[0])
		if err != nil {
			return err
		}
		if err := opt.Assign(cfg, args[1]); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return fmt.Errorf("%s changed for this session but not saved: %w", opt.Name, err)
		}
		ui.PrintDone(s.out, fmt.Sprintf("%s set to %s.", opt.Name, args[1]))
		return nil

	default:
		return ErrTooManyArguments
	}
}

func (s *Shell) handleList(ctx context.Context, args []string) error {
	cfg := s.state.Config

	recent := cfg.RecentConnection
	if recent == "" {
		recent = "none"
	}

	entries := []ui.Entry{
		{Name: "wait_for_response", Description: fmt.Sprintf("%t", cfg.WaitForResponse)},
		{Name: "read_timeout", Description: fmt.Sprintf("%d milliseconds", cfg.ReadTimeout)},
		{Name: "connection_timeout", Description: fmt.Sprintf("%d milliseconds", cfg.ConnectionTimeout)},
		{Name: "recent_connection", Description: recent},
	}
	fmt.Fprintf(s.out, "\n%s\n\n", ui.Table(entries))
	return nil
}

func (s *Shell) handleClear(ctx context.Context, args []string) error {
	fmt.Fprint(s.out, "\x1b[2J\x1b[H")
	return nil
}

func (s *Shell) handleHelp(ctx context.Context, args []string) error {
	var entries []ui.Entry
	for _, c := range commandTable() {
		entries = append(entries, ui.Entry{
			Name:        strings.Join(c.names, ", "),
			Description: c.description,
		})
	}
	fmt.Fprintf(s.out, "\n%s\n\n", ui.Table(entries))
	return nil
}

// handleExit closes any connection, ignoring errors, and ends the loop.
func (s *Shell) handleExit(ctx context.Context, args []string) error {
	s.shutdown()
	return ErrExit
}
