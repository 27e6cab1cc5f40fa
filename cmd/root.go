/*
 * relayx - interactive TCP client
 * https://github.com/Necromancer-Labs/relayx
 *
 * Root command and CLI setup
 */

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Necromancer-Labs/relayx/internal/config"
	"github.com/Necromancer-Labs/relayx/internal/connection"
	"github.com/Necromancer-Labs/relayx/internal/logx"
	"github.com/Necromancer-Labs/relayx/internal/shell"
	"github.com/Necromancer-Labs/relayx/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const Version = "0.4.0"

var (
	flagConfig  string
	flagHistory string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relayx",
	Short: "Relayx - interactive TCP client",
	Long: `relayx - open a TCP connection, send raw text and read the reply.

Commands at the prompt:
  open <host:port>   Connect (empty answer reuses the last address)
  send <message>     Send the message verbatim
  set <name> [val]   Show or change an option
  help               List all commands`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command
func Execute() error {
	defer logx.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		logx.EnableDebug(flagVerbose)
	})

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Configuration file (default <user config dir>/relayx-client.yaml)")
	rootCmd.Flags().StringVar(&flagHistory, "history", "", "Command history file (default ~/.relayx_history)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose debug logging")
}

func runRoot(cmd *cobra.Command, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	store, cfg := loadConfig(stderr)

	input, err := shell.NewReadlineInput(historyPath())
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer input.Close()

	var spin ui.Spinner = ui.Passthrough{}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		spin = ui.NewTeaSpinner(os.Stderr)
	}

	fmt.Fprint(stdout, shell.FormatBanner(Version))

	sh := shell.New(shell.State{
		Link:   connection.NewLink(),
		Config: &cfg,
	}, shell.Options{
		Input:   input,
		Out:     stdout,
		Err:     stderr,
		Spinner: spin,
		Store:   store,
	})
	return sh.Run(cmd.Context())
}

// loadConfig opens the store and loads the configuration. Every failure is
// reported as a warning and falls back to the defaults. The returned store is
// nil when no configuration location could be determined; changes are then
// kept for the session only.
func loadConfig(stderr io.Writer) (*config.Store, config.Config) {
	store, err := openStore()
	if err != nil {
		ui.PrintWarn(stderr, fmt.Sprintf("%v; changes will not be saved.", err))
		ui.PrintWarn(stderr, "using default configuration instead.")
		return nil, config.Default()
	}
	logx.Debugf("configuration file: %s", store.Path())

	if err := store.EnsureExists(); err != nil {
		ui.PrintWarn(stderr, "could not generate default configuration due to file system error.")
		logx.Debugf("ensure configuration: %v", err)
	}

	cfg, err := store.Load()
	if err != nil {
		ui.PrintError(stderr, fmt.Sprintf("cant load your configuration: %v.", err))
		ui.PrintWarn(stderr, "using default configuration instead.")
	}
	return store, cfg
}

// openStore resolves the configuration path from --config or the platform default.
func openStore() (*config.Store, error) {
	if flagConfig != "" {
		return config.NewStore(flagConfig), nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locate configuration directory: %w", err)
	}
	return config.NewStore(path), nil
}

// historyPath returns --history, or ~/.relayx_history. Empty disables history.
func historyPath() string {
	if flagHistory != "" {
		return flagHistory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".relayx_history")
}
