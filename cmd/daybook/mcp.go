package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/daybook/pkg/contextutil"
	"github.com/unowned-ai/daybook/pkg/mcp"
)

func addMCP(rootCmd *cobra.Command, opts *rootOptions) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Run the daybook MCP server (stdio)",
		Long: `Start a Model Context Protocol (MCP) server that exposes folders and journal
entries as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\daybook\daybook.db
- macOS: ~/Library/Application Support/daybook/daybook.db
- Linux: ~/.local/share/daybook/daybook.db

Example:
  daybook mcp
  daybook mcp --db daybook.db --wal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := contextutil.LoggerFromContext(ctx)

			srv, err := mcp.NewDaybookMCPServer(ctx, mcp.Options{
				DBPath:   opts.cfg.DBPath,
				WAL:      opts.cfg.WAL,
				SyncMode: opts.cfg.SyncMode,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(context.WithoutCancel(ctx)); err != nil {
					logger.Error("failed to close database", "error", err)
				}
			}()

			// stdout carries the JSON-RPC stream
			logger.Info("daybook MCP server started", "db", srv.DbPath, "wal", opts.cfg.WAL, "sync", opts.cfg.SyncMode)
			fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

			return srv.Start()
		},
	})
}
