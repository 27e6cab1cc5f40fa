package shell

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Necromancer-Labs/relayx/internal/config"
	"github.com/Necromancer-Labs/relayx/internal/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ctrlC in a script makes the reader report an interrupt instead of a line.
const ctrlC = "\x03"

// scriptedInput feeds canned lines and records the prompts it was shown.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (in *scriptedInput) ReadLine(prompt string) (string, error) {
	in.prompts = append(in.prompts, prompt)
	if len(in.lines) == 0 {
		return "", io.EOF
	}
	line := in.lines[0]
	in.lines = in.lines[1:]
	if line == ctrlC {
		return "", ErrInterrupt
	}
	return line, nil
}

type testShell struct {
	*Shell
	input *scriptedInput
	out   *bytes.Buffer
	cfg   *config.Config
	link  *connection.Link
	store *config.Store
}

func newTestShell(t *testing.T, lines ...string) *testShell {
	t.Helper()

	cfg := config.Default()
	cfg.ReadTimeout = 2000
	cfg.ConnectionTimeout = 2000
	link := connection.NewLink()
	t.Cleanup(link.Shutdown)

	input := &scriptedInput{lines: lines}
	out := &bytes.Buffer{}
	store := config.NewStore(filepath.Join(t.TempDir(), "relayx-client.yaml")).WithLegacyPath("")

	sh := New(State{Link: link, Config: &cfg}, Options{
		Input: input,
		Out:   out,
		Store: store,
	})
	return &testShell{Shell: sh, input: input, out: out, cfg: &cfg, link: link, store: store}
}

func (ts *testShell) exec(line string) error {
	return ts.Execute(context.Background(), line)
}

// startEcho runs a loopback echo server and returns its address.
func startEcho(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				io.Copy(conn, conn)
			}()
		}
	}()
	return ln.Addr().String()
}

func TestBlankInputIsNoop(t *testing.T) {
	for _, line := range []string{"", "   ", "\t \t"} {
		ts := newTestShell(t)
		assert.NoError(t, ts.exec(line))
		assert.Empty(t, ts.out.String())
		assert.Empty(t, ts.input.prompts)
	}
}

func TestUnknownCommand(t *testing.T) {
	ts := newTestShell(t)

	err := ts.exec("frobnicate now")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestCommandsAreCaseInsensitive(t *testing.T) {
	for _, line := range []string{"HELP", "Help", "?", "LS", "List"} {
		ts := newTestShell(t)
		require.NoError(t, ts.exec(line), line)
		assert.NotEmpty(t, ts.out.String(), line)
	}
}

func TestRunContinuesAfterErrors(t *testing.T) {
	ts := newTestShell(t, "bogus", "  ", "close", "set", "exit", "help")

	require.NoError(t, ts.Run(context.Background()))

	out := ts.out.String()
	assert.Contains(t, out, "unknown command: bogus")
	assert.Contains(t, out, "no active connection")
	assert.Contains(t, out, "Nothing to set")
	// exit stopped the loop before help ran
	assert.NotContains(t, out, "Show this help message")
	assert.Equal(t, []string{"help"}, ts.input.lines)
}

func TestRunEndsOnEOF(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t, "open "+addr)

	require.NoError(t, ts.Run(context.Background()))
	assert.Equal(t, connection.Disconnected, ts.link.State())
	assert.Contains(t, ts.out.String(), "Shutting down current connection...")
}

func TestInterruptAtValuePromptCancelsQuietly(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t, "open", ctrlC, "open "+addr, "send", ctrlC, "exit")

	require.NoError(t, ts.Run(context.Background()))

	out := ts.out.String()
	assert.NotContains(t, out, "error")
	assert.NotContains(t, out, "Interrupt")
	assert.Contains(t, out, "Connection established")
	assert.Empty(t, ts.input.lines)
}

func TestInterruptAtValuePromptReturnsCancelled(t *testing.T) {
	ts := newTestShell(t, ctrlC)

	err := ts.exec("open")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, connection.Disconnected, ts.link.State())
}

func TestInterruptAtCommandPromptDiscardsLine(t *testing.T) {
	ts := newTestShell(t, ctrlC, "bogus", "exit")

	require.NoError(t, ts.Run(context.Background()))
	assert.Contains(t, ts.out.String(), "unknown command: bogus")
	assert.Empty(t, ts.input.lines)
}

func TestPromptShowsLabel(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t)

	assert.Contains(t, ts.Prompt(), "relayx>")
	assert.True(t, strings.HasSuffix(ts.Prompt(), "> "))

	require.NoError(t, ts.exec("open "+addr))
	assert.Contains(t, ts.Prompt(), addr+">")

	require.NoError(t, ts.exec("close"))
	assert.Contains(t, ts.Prompt(), "relayx>")
}

func TestOpenInvalidAddress(t *testing.T) {
	ts := newTestShell(t)

	err := ts.exec("open bad-address")
	assert.ErrorIs(t, err, connection.ErrInvalidAddress)
	assert.Equal(t, connection.Disconnected, ts.link.State())
	assert.Equal(t, connection.IdleLabel, ts.link.Label())
}

func TestOpenRemembersAddress(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t)

	require.NoError(t, ts.exec("o "+addr))
	assert.Contains(t, ts.out.String(), "Connection established")
	assert.Equal(t, addr, ts.cfg.RecentConnection)

	saved, err := ts.store.Load()
	require.NoError(t, err)
	assert.Equal(t, addr, saved.RecentConnection)
}

func TestOpenWhenAlreadyConnected(t *testing.T) {
	first := startEcho(t)
	second := startEcho(t)
	ts := newTestShell(t)

	require.NoError(t, ts.exec("open "+first))

	err := ts.exec("open " + second)
	assert.ErrorIs(t, err, connection.ErrAlreadyConnected)
	assert.Equal(t, first, ts.link.Label())
	assert.Equal(t, first, ts.cfg.RecentConnection)
}

func TestOpenPromptsForAddress(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t, addr)

	require.NoError(t, ts.exec("open"))
	assert.Equal(t, []string{"( address ): "}, ts.input.prompts)
	assert.Equal(t, addr, ts.link.Label())
}

func TestOpenEmptyAddressWithoutRecent(t *testing.T) {
	ts := newTestShell(t, "")

	err := ts.exec("open")
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.ErrorIs(t, err, ErrNoRecentConnection)
	assert.Equal(t, connection.Disconnected, ts.link.State())
}

func TestOpenEmptyAddressUsesRecent(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t, "   ")
	ts.cfg.RecentConnection = addr

	require.NoError(t, ts.exec("open"))
	assert.Equal(t, connection.Connected, ts.link.State())
	assert.Equal(t, addr, ts.link.Label())
}

func TestOpenRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	ts := newTestShell(t)

	err = ts.exec("open " + addr)
	assert.ErrorIs(t, err, connection.ErrConnectFailed)
	assert.Equal(t, connection.Disconnected, ts.link.State())
	assert.Empty(t, ts.cfg.RecentConnection)
}

func TestSendBeforeOpen(t *testing.T) {
	ts := newTestShell(t, "should not be read")

	err := ts.exec("send hello")
	assert.ErrorIs(t, err, connection.ErrNotConnected)

	err = ts.exec("s")
	assert.ErrorIs(t, err, connection.ErrNotConnected)
	assert.Empty(t, ts.input.prompts)
}

func TestSendEcho(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t)
	require.NoError(t, ts.exec("open "+addr))
	ts.out.Reset()

	require.NoError(t, ts.exec("send hello"))
	assert.Equal(t, "hello\n", ts.out.String())
}

func TestSendJoinsArguments(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t)
	require.NoError(t, ts.exec("open "+addr))
	ts.out.Reset()

	require.NoError(t, ts.exec("send   hello    big  world "))
	assert.Equal(t, "hello big world\n", ts.out.String())
}

func TestSendPromptsForMessage(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t, "from prompt")
	require.NoError(t, ts.exec("open "+addr))
	ts.out.Reset()

	require.NoError(t, ts.exec("send"))
	assert.Equal(t, []string{"( message ): "}, ts.input.prompts)
	assert.Equal(t, "from prompt\n", ts.out.String())
}

func TestSendWithoutWaiting(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t)
	require.NoError(t, ts.exec("open "+addr))
	require.NoError(t, ts.exec("set wait_for_response false"))
	ts.out.Reset()

	require.NoError(t, ts.exec("send hello"))
	assert.Contains(t, ts.out.String(), "Message sent successfully.")
	assert.NotContains(t, ts.out.String(), "hello")
}

func TestClose(t *testing.T) {
	addr := startEcho(t)
	ts := newTestShell(t)

	assert.ErrorIs(t, ts.exec("close"), connection.ErrNotConnected)

	require.NoError(t, ts.exec("open "+addr))
	require.NoError(t, ts.exec("CLOSE"))
	assert.Contains(t, ts.out.String(), "Closed the connection.")
	assert.Equal(t, connection.Disconnected, ts.link.State())
}

func TestExit(t *testing.T) {
	ts := newTestShell(t)
	assert.ErrorIs(t, ts.exec("exit"), ErrExit)
	assert.Empty(t, ts.out.String())

	addr := startEcho(t)
	ts = newTestShell(t)
	require.NoError(t, ts.exec("open "+addr))
	assert.ErrorIs(t, ts.exec("Exit"), ErrExit)
	assert.Contains(t, ts.out.String(), "Shutting down current connection...")
	assert.Equal(t, connection.Disconnected, ts.link.State())
}

func TestSetWaitForResponse(t *testing.T) {
	ts := newTestShell(t)
	ts.cfg.WaitForResponse = false

	require.NoError(t, ts.exec("set wait_for_response true"))
	ts.out.Reset()
	require.NoError(t, ts.exec("set wait_for_response"))
	assert.Contains(t, ts.out.String(), "Current: true")

	err := ts.exec("set wait_for_response maybe")
	assert.ErrorIs(t, err, config.ErrInvalidValue)
	assert.True(t, ts.cfg.WaitForResponse)
}

func TestSetPersists(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.exec("set read_timeout 500"))
	assert.Equal(t, uint64(500), ts.cfg.ReadTimeout)

	reloaded, err := ts.store.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), reloaded.ReadTimeout)
}

func TestSetShowsTimeout(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.exec("set connection_timeout"))
	assert.Contains(t, ts.out.String(), "connection_timeout")
	assert.Contains(t, ts.out.String(), "Current: 2000 milliseconds.")
}

func TestSetArgumentErrors(t *testing.T) {
	ts := newTestShell(t)
	before := *ts.cfg

	require.NoError(t, ts.exec("set"))
	assert.Contains(t, ts.out.String(), "Nothing to set")

	assert.ErrorIs(t, ts.exec("set colour"), config.ErrUnknownOption)
	assert.ErrorIs(t, ts.exec("set colour blue"), config.ErrUnknownOption)
	assert.ErrorIs(t, ts.exec("set read_timeout -5"), config.ErrInvalidValue)
	assert.ErrorIs(t, ts.exec("set read_timeout 1 2"), ErrTooManyArguments)

	assert.Equal(t, before, *ts.cfg)
}

func TestSetSaveFailureKeepsValue(t *testing.T) {
	ts := newTestShell(t)

	// Parent of the config path is a regular file, so saving fails
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	ts.store = config.NewStore(filepath.Join(blocker, "relayx-client.yaml"))
	ts.Shell.store = ts.store

	err := ts.exec("set read_timeout 700")
	assert.Error(t, err)
	assert.Equal(t, uint64(700), ts.cfg.ReadTimeout)
}

func TestList(t *testing.T) {
	ts := newTestShell(t)
	ts.cfg.RecentConnection = "10.0.0.1:80"

	require.NoError(t, ts.exec("list"))

	out := ts.out.String()
	assert.Contains(t, out, "wait_for_response")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "read_timeout")
	assert.Contains(t, out, "2000 milliseconds")
	assert.Contains(t, out, "connection_timeout")
	assert.Contains(t, out, "recent_connection")
	assert.Contains(t, out, "10.0.0.1:80")
}

func TestHelpListsAllCommands(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.exec("help"))

	out := ts.out.String()
	for _, name := range []string{"open, o", "send, s", "close", "set", "list, ls", "clear", "help, ?", "exit"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Exit relayx")
}

func TestClear(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.exec("clear"))
	assert.Equal(t, "\x1b[2J\x1b[H", ts.out.String())
}

func TestFormatBanner(t *testing.T) {
	banner := FormatBanner("1.2.3")

	assert.Contains(t, banner, "Relayx 1.2.3")
	assert.Contains(t, banner, "?/help")
}
