// Package config loads daybook settings from flags, the environment, a .env
// file and an optional .daybook config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unowned-ai/daybook/pkg/utils"
)

const (
	KeyDBPath            = "db.path"
	KeyDBWAL             = "db.wal"
	KeyDBSync            = "db.sync"
	KeyPrefsDir          = "prefs.dir"
	KeySpeechLocale      = "speech.locale"
	KeySpeakCommand      = "speech.speak_command"
	KeyTranscribeCommand = "speech.transcribe_command"
	KeyLogLevel          = "log.level"
)

// FlagBindings maps config keys to the CLI flags that override them.
var FlagBindings = map[string]string{
	KeyDBPath:   "db",
	KeyDBWAL:    "wal",
	KeyDBSync:   "sync",
	KeyLogLevel: "log-level",
}

// Config is the resolved application configuration.
type Config struct {
	DBPath            string
	WAL               bool
	SyncMode          string
	PrefsDir          string
	SpeechLocale      string
	SpeakCommand      string
	TranscribeCommand string
	LogLevel          string
}

// Load resolves the configuration. configFile, when set, must exist; otherwise
// .daybook.* is searched for in $DAYBOOK_CONFIG_PATH, the working directory
// and the home directory. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// Variables already in the environment win over .env.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyDBPath, utils.GetDefaultDBPathOnly())
	v.SetDefault(KeyDBWAL, false)
	v.SetDefault(KeyDBSync, "FULL")
	v.SetDefault(KeyPrefsDir, utils.GetDefaultPrefsDir())
	v.SetDefault(KeySpeechLocale, "en-US")
	v.SetDefault(KeySpeakCommand, "")
	v.SetDefault(KeyTranscribeCommand, "")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix("DAYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		expanded, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path '%s': %w", configFile, err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", expanded, err)
		}
	} else {
		v.SetConfigName(".daybook")
		if override := os.Getenv("DAYBOOK_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{
		DBPath:            v.GetString(KeyDBPath),
		WAL:               v.GetBool(KeyDBWAL),
		SyncMode:          strings.ToUpper(v.GetString(KeyDBSync)),
		PrefsDir:          v.GetString(KeyPrefsDir),
		SpeechLocale:      v.GetString(KeySpeechLocale),
		SpeakCommand:      v.GetString(KeySpeakCommand),
		TranscribeCommand: v.GetString(KeyTranscribeCommand),
		LogLevel:          v.GetString(KeyLogLevel),
	}

	prefsDir, err := utils.ResolvePath(cfg.PrefsDir)
	if err != nil {
		return nil, err
	}
	cfg.PrefsDir = prefsDir

	return cfg, nil
}
