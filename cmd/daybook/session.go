package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/daybook/pkg/config"
	"github.com/unowned-ai/daybook/pkg/contextutil"
	pkgdb "github.com/unowned-ai/daybook/pkg/db"
	"github.com/unowned-ai/daybook/pkg/prefs"
	"github.com/unowned-ai/daybook/pkg/speech"
	"github.com/unowned-ai/daybook/pkg/utils"
)

// rootOptions holds the persistent flags and the configuration resolved from them.
type rootOptions struct {
	configFile string
	dbPath     string
	walMode    bool
	syncMode   string
	logLevel   string

	cfg *config.Config
}

// setup loads the configuration and puts a run-scoped logger in the command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	o.cfg = cfg

	logger := contextutil.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel).With("run_id", uuid.NewString())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(contextutil.WithLogger(ctx, logger))
	logger.Debug("config loaded", "db", cfg.DBPath, "wal", cfg.WAL, "sync", cfg.SyncMode)
	return nil
}

// openRaw opens the store without touching its schema.
func (o *rootOptions) openRaw() (*sql.DB, string, error) {
	dbPath, err := utils.ResolveAndEnsureDBPath(o.cfg.DBPath)
	if err != nil {
		return nil, "", err
	}
	dbConn, err := pkgdb.OpenDBConnection(dbPath, o.cfg.WAL, o.cfg.SyncMode)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database connection: %w", err)
	}
	return dbConn, dbPath, nil
}

// openDB opens the store and brings it to the current schema, mood column included.
func (o *rootOptions) openDB(ctx context.Context) (*sql.DB, error) {
	dbConn, dbPath, err := o.openRaw()
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(ctx, dbConn, dbPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, err
	}
	if _, err := pkgdb.EnsureMoodColumn(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

func (o *rootOptions) prefs() *prefs.Store {
	return prefs.Open(o.cfg.PrefsDir)
}

// speaker is nil when no speak command is configured.
func (o *rootOptions) speaker() speech.Speaker {
	s, err := speech.NewCommandSpeaker(o.cfg.SpeakCommand)
	if err != nil {
		return nil
	}
	return s
}

func (o *rootOptions) transcriber() speech.Transcriber {
	t, err := speech.NewCommandTranscriber(o.cfg.TranscribeCommand)
	if err != nil {
		return nil
	}
	return t
}
