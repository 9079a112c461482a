package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	daybook "github.com/unowned-ai/daybook/pkg"
)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "daybook",
		Short:         "An offline journal organized in folders.",
		Long:          `Daybook keeps journal entries in category folders on your machine, in a single SQLite file.`,
		Version:       daybook.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default: .daybook.yaml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the database file (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&opts.walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&opts.syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	addCompletion(rootCmd)
	addVersion(rootCmd)
	addDB(rootCmd, opts)
	addFolders(rootCmd, opts)
	addJournals(rootCmd, opts)
	addProfile(rootCmd, opts)
	addMCP(rootCmd, opts)
	addTUI(rootCmd, opts)

	return rootCmd
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func addCompletion(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for daybook.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(daybook completion bash)

  Zsh:
    $ daybook completion zsh > "${fpath[1]}/_daybook"

  Fish:
    $ daybook completion fish > ~/.config/fish/completions/daybook.fish

  PowerShell:
    PS> daybook completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// no config or logger needed to print a script
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
