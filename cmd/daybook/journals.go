package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/daybook/pkg/contextutil"
	"github.com/unowned-ai/daybook/pkg/datefilter"
	"github.com/unowned-ai/daybook/pkg/journal"
	"github.com/unowned-ai/daybook/pkg/speech"
)

func parseJournalID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid journal ID: %s", s)
	}
	return id, nil
}

// parseMoodFlag maps "" and "none" to a cleared mood.
func parseMoodFlag(s string) (*journal.Mood, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "none") {
		return journal.MoodPtr(""), nil
	}
	m, err := journal.ParseMood(v)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// folderNameOf is "-" for entries whose folder is gone.
func folderNameOf(ctx context.Context, db *sql.DB, id int64) string {
	if f, err := journal.GetFolder(ctx, db, id); err == nil {
		return f.Name
	}
	return "-"
}

func addJournals(rootCmd *cobra.Command, opts *rootOptions) {
	journalsCmd := &cobra.Command{
		Use:     "journals",
		Aliases: []string{"journal", "entries"},
		Short:   "Manage journal entries",
		Long:    `Create, list, update, read aloud, and delete journal entries.`,
	}

	journalsCmd.AddCommand(
		newCreateJournalCmd(opts),
		newGetJournalCmd(opts),
		newListJournalsCmd(opts),
		newUpdateJournalCmd(opts),
		newDeleteJournalCmd(opts),
		newSearchJournalsCmd(opts),
		newSpeakJournalCmd(opts),
	)
	rootCmd.AddCommand(journalsCmd)
}

func newCreateJournalCmd(opts *rootOptions) *cobra.Command {
	var folderRef, title, content, mood string
	var dictation bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a journal entry in a folder",
		Example: `  daybook journals create --folder Work --title "Standup" --content "Shipped the importer." --mood calm
  daybook journals create --folder 2 --title "Walk" --content "" --dictate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var m *journal.Mood
			if cmd.Flags().Changed("mood") {
				parsed, err := parseMoodFlag(mood)
				if err != nil {
					return err
				}
				if *parsed != "" {
					m = parsed
				}
			}

			ctx := cmd.Context()
			if dictation {
				fmt.Fprintln(cmd.ErrOrStderr(), speech.DefaultPrompt)
				var err error
				content, err = speech.Dictate(ctx, opts.transcriber(), opts.cfg.SpeechLocale, content)
				if err != nil {
					return fmt.Errorf("dictation failed: %w", err)
				}
			}

			dbConn, err := opts.openDB(ctx)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			f, err := resolveFolder(ctx, dbConn, folderRef)
			if err != nil {
				return err
			}

			j, err := journal.CreateJournal(ctx, dbConn, f.ID, title, content, m)
			if err != nil {
				return fmt.Errorf("failed to create journal: %w", err)
			}
			contextutil.LoggerFromContext(ctx).Debug("journal created", "id", j.ID, "folder", f.ID)
			printJournal(cmd.OutOrStdout(), j, f.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&folderRef, "folder", "", "Folder ID or category (required)")
	cmd.Flags().StringVar(&title, "title", "", "Title of the entry (required)")
	cmd.Flags().StringVar(&content, "content", "", "Content of the entry")
	cmd.Flags().StringVar(&mood, "mood", "", "Mood (Happy, Calm, Neutral, Sad, Angry, Tired, Excited)")
	cmd.Flags().BoolVar(&dictation, "dictate", false, "Append dictated speech to the content")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newGetJournalCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get [journal-id]",
		Short: "Show a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJournalID(args[0])
			if err != nil {
				return err
			}

			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			j, err := journal.GetJournal(cmd.Context(), dbConn, id)
			if errors.Is(err, journal.ErrJournalNotFound) {
				return fmt.Errorf("journal not found: %d", id)
			}
			if err != nil {
				return fmt.Errorf("failed to get journal: %w", err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), j)
			}

			printJournal(cmd.OutOrStdout(), j, folderNameOf(cmd.Context(), dbConn, j.FolderID))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// dayGroupJSON is one day header and its entries in --json output.
type dayGroupJSON struct {
	Day     string           `json:"day"`
	Entries []journal.Listed `json:"entries"`
}

func newListJournalsCmd(opts *rootOptions) *cobra.Command {
	var folderRef string
	var filter datefilter.Filter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries grouped by day",
		Long: `List entries newest first under one header per day. Use --folder to list a single
folder and --year/--month to narrow the range ("All" matches everything).`,
		Example: `  daybook journals list
  daybook journals list --folder Work --year 2025 --month July`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := filter.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			dbConn, err := opts.openDB(ctx)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			var listed []journal.Listed
			if folderRef != "" {
				f, err := resolveFolder(ctx, dbConn, folderRef)
				if err != nil {
					return err
				}
				journals, err := journal.ListJournalsByFolder(ctx, dbConn, f.ID, filter)
				if err != nil {
					return fmt.Errorf("failed to list journals: %w", err)
				}
				for _, j := range journals {
					listed = append(listed, journal.Listed{Journal: j, FolderName: f.Name, FolderColor: f.Color})
				}
			} else {
				listed, err = journal.ListAllJournals(ctx, dbConn, filter)
				if err != nil {
					return fmt.Errorf("failed to list journals: %w", err)
				}
			}

			groups := datefilter.GroupByDay(listed, func(l journal.Listed) time.Time { return l.DateModified })
			if asJSON {
				out := make([]dayGroupJSON, 0, len(groups))
				for _, g := range groups {
					out = append(out, dayGroupJSON{Day: g.Label, Entries: g.Items})
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), filter.EmptyMessage())
				return nil
			}
			printDayGroups(cmd.OutOrStdout(), groups)
			return nil
		},
	}
	cmd.Flags().StringVar(&folderRef, "folder", "", "Folder ID or category")
	cmd.Flags().StringVar(&filter.Year, "year", datefilter.All, "Year, e.g. 2025")
	cmd.Flags().StringVar(&filter.Month, "month", datefilter.All, "Month name, e.g. July")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	_ = cmd.RegisterFlagCompletionFunc("month", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return datefilter.MonthOptions(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newSearchJournalsCmd(opts *rootOptions) *cobra.Command {
	var folderRef string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "search [word]...",
		Short:   "Find entries containing any of the words",
		Long:    `Find entries whose title or content contains any of the words, ignoring case. Entries matching more words come first.`,
		Example: `  daybook journals search lisbon budget --folder Work`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbConn, err := opts.openDB(ctx)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			var folderID *int64
			if folderRef != "" {
				f, err := resolveFolder(ctx, dbConn, folderRef)
				if err != nil {
					return err
				}
				folderID = &f.ID
			}

			results, err := journal.SearchJournals(ctx, dbConn, folderID, args)
			if err != nil {
				return fmt.Errorf("failed to search journals: %w", err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching entries.")
				return nil
			}
			printMatches(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().StringVar(&folderRef, "folder", "", "Folder ID or category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newUpdateJournalCmd(opts *rootOptions) *cobra.Command {
	var title, content, mood string
	var dictation bool

	cmd := &cobra.Command{
		Use:   "update [journal-id]",
		Short: "Update a journal entry",
		Long: `Update the title, content, or mood of an entry. Fields without a flag keep their
value. --mood none clears the mood. The modified date is set to now.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJournalID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dbConn, err := opts.openDB(ctx)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			existing, err := journal.GetJournal(ctx, dbConn, id)
			if errors.Is(err, journal.ErrJournalNotFound) {
				return fmt.Errorf("journal not found: %d", id)
			}
			if err != nil {
				return fmt.Errorf("failed to get journal: %w", err)
			}

			if !cmd.Flags().Changed("title") {
				title = existing.Title
			}
			if !cmd.Flags().Changed("content") {
				content = existing.Content
			}
			var m *journal.Mood
			if cmd.Flags().Changed("mood") {
				if m, err = parseMoodFlag(mood); err != nil {
					return err
				}
			}
			if dictation {
				fmt.Fprintln(cmd.ErrOrStderr(), speech.DefaultPrompt)
				if content, err = speech.Dictate(ctx, opts.transcriber(), opts.cfg.SpeechLocale, content); err != nil {
					return fmt.Errorf("dictation failed: %w", err)
				}
			}

			j, err := journal.UpdateJournal(ctx, dbConn, id, title, content, m)
			if err != nil {
				return fmt.Errorf("failed to update journal: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Journal updated.")
			printJournal(cmd.OutOrStdout(), j, folderNameOf(ctx, dbConn, j.FolderID))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&mood, "mood", "", "New mood, or none to clear it")
	cmd.Flags().BoolVar(&dictation, "dictate", false, "Append dictated speech to the content")
	return cmd
}

func newDeleteJournalCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [journal-id]",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJournalID(args[0])
			if err != nil {
				return err
			}

			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			j, err := journal.GetJournal(cmd.Context(), dbConn, id)
			if errors.Is(err, journal.ErrJournalNotFound) {
				return fmt.Errorf("journal not found: %d", id)
			}
			if err != nil {
				return fmt.Errorf("failed to get journal: %w", err)
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %q?", j.Title)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := journal.DeleteJournal(cmd.Context(), dbConn, id); err != nil {
				return fmt.Errorf("failed to delete journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Journal %d deleted.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newSpeakJournalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "speak [journal-id]",
		Short: "Read a journal entry aloud",
		Long: `Read the plain text of an entry with the configured speak command
(speech.speak_command, e.g. "espeak --stdin").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJournalID(args[0])
			if err != nil {
				return err
			}

			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			j, err := journal.GetJournal(cmd.Context(), dbConn, id)
			if errors.Is(err, journal.ErrJournalNotFound) {
				return fmt.Errorf("journal not found: %d", id)
			}
			if err != nil {
				return fmt.Errorf("failed to get journal: %w", err)
			}

			err = speech.ReadAloud(cmd.Context(), opts.speaker(), j.Content)
			if errors.Is(err, speech.ErrNothingToRead) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to read.")
				return nil
			}
			return err
		},
	}
}
