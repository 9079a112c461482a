package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/daybook/pkg/tui"
)

func addTUI(rootCmd *cobra.Command, opts *rootOptions) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Show terminal UI",
		Long:  `Browse folders and entries, write new entries, and filter by year and month in an interactive terminal UI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			greeting := ""
			if store := opts.prefs(); store.HasDisplayName() {
				greeting = store.Greeting()
			}

			return tui.ShowTUI(cmd.Context(), dbConn, tui.Options{
				Greeting:    greeting,
				Speaker:     opts.speaker(),
				Transcriber: opts.transcriber(),
				Locale:      opts.cfg.SpeechLocale,
			})
		},
	})
}
