package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/daybook/pkg/utils"
)

// isolate runs the test from an empty directory so no stray .env or
// .daybook file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("DAYBOOK_CONFIG_PATH", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, utils.GetDefaultDBPathOnly(), cfg.DBPath)
	assert.False(t, cfg.WAL)
	assert.Equal(t, "FULL", cfg.SyncMode)
	assert.Equal(t, "en-US", cfg.SpeechLocale)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SpeakCommand)
	assert.True(t, filepath.IsAbs(cfg.PrefsDir))
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DAYBOOK_DB_PATH", "/tmp/env.db")
	t.Setenv("DAYBOOK_DB_SYNC", "normal")
	t.Setenv("DAYBOOK_SPEECH_SPEAK_COMMAND", "espeak --stdin")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "NORMAL", cfg.SyncMode)
	assert.Equal(t, "espeak --stdin", cfg.SpeakCommand)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := "db:\n  path: /data/journal.db\n  wal: true\nspeech:\n  locale: fr-FR\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/data/journal.db", cfg.DBPath)
	assert.True(t, cfg.WAL)
	assert.Equal(t, "fr-FR", cfg.SpeechLocale)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_SearchesConfigPath(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".daybook.yaml"), []byte("db:\n  sync: extra\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "EXTRA", cfg.SyncMode)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DAYBOOK_SPEECH_LOCALE=de-DE\n"), 0o644))
	// make sure the variable is unset before and after the test
	t.Setenv("DAYBOOK_SPEECH_LOCALE", "")
	require.NoError(t, os.Unsetenv("DAYBOOK_SPEECH_LOCALE"))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.SpeechLocale)
}

func TestLoad_FlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv("DAYBOOK_DB_PATH", "/tmp/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.Bool("wal", false, "")
	flags.String("sync", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/flag.db", "--wal"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DBPath)
	assert.True(t, cfg.WAL)
	// unchanged flags do not mask defaults
	assert.Equal(t, "FULL", cfg.SyncMode)
}
