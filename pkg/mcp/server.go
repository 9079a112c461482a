package mcp

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	daybook "github.com/unowned-ai/daybook/pkg"
	"github.com/unowned-ai/daybook/pkg/contextutil"
	pkgdb "github.com/unowned-ai/daybook/pkg/db"
	"github.com/unowned-ai/daybook/pkg/utils"
)

// Options configure the store behind the MCP server.
type Options struct {
	DBPath   string
	WAL      bool
	SyncMode string
}

type DaybookMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	DbPath    string
}

// NewDaybookMCPServer opens (and if needed upgrades) the journal store and
// registers every tool on a new mcp-go server.
func NewDaybookMCPServer(ctx context.Context, opts Options) (*DaybookMCPServer, error) {
	dbPath, err := utils.ResolveAndEnsureDBPath(opts.DBPath)
	if err != nil {
		return nil, err
	}

	dbConn, err := pkgdb.OpenDBConnection(dbPath, opts.WAL, opts.SyncMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pkgdb.UpgradeDB(ctx, dbConn, dbPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", dbPath, err)
	}
	if _, err := pkgdb.EnsureMoodColumn(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}

	return &DaybookMCPServer{
		mcpServer: newServer(dbConn),
		db:        dbConn,
		DbPath:    dbPath,
	}, nil
}

func newServer(db *sql.DB) *server.MCPServer {
	s := server.NewMCPServer(
		"Daybook MCP Server",
		daybook.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)
	RegisterTools(s, db)
	return s
}

// Start runs the stdio event loop until stdin closes.
func (s *DaybookMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *DaybookMCPServer) DB() *sql.DB {
	return s.db
}

// MCPRawServer exposes the raw mcp-go server.
func (s *DaybookMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close checkpoints the WAL and closes the store.
func (s *DaybookMCPServer) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		contextutil.LoggerFromContext(ctx).Warn("WAL checkpoint failed during close", "error", err)
	}
	return s.db.Close()
}
