package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/daybook/pkg/journal"
)

func addFolders(rootCmd *cobra.Command, opts *rootOptions) {
	foldersCmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Manage folders",
		Long:    `Create, list, and delete the category folders that hold journal entries.`,
	}

	var category, colorName string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder for a category",
		Long: `Create a folder for one of the fixed categories. Each category can have one folder.
The color is a palette name or hex value; see 'daybook folders palette'.`,
		Example: `  daybook folders create --category Work --color Rose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := journal.ParseCategory(category)
			if err != nil {
				return err
			}
			color, ok := journal.LookupColor(colorName)
			if !ok {
				return fmt.Errorf("unknown color %q", colorName)
			}

			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			f, err := journal.AddFolder(cmd.Context(), dbConn, string(c), color.Hex)
			if errors.Is(err, journal.ErrFolderExists) {
				return fmt.Errorf("folder with category %s already exists", c)
			}
			if err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}
			printFolders(cmd.OutOrStdout(), []journal.Folder{f})
			return nil
		},
	}
	createCmd.Flags().StringVar(&category, "category", "", "Folder category (Work, Personal, Creative, Finance, Fitness, School, Travel, Others)")
	createCmd.Flags().StringVar(&colorName, "color", journal.Palette[0].Name, "Palette color name or hex")
	_ = createCmd.MarkFlagRequired("category")
	_ = createCmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(journal.Categories))
		for _, c := range journal.Categories {
			names = append(names, string(c))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			folders, err := journal.ListFolders(cmd.Context(), dbConn)
			if err != nil {
				return fmt.Errorf("failed to list folders: %w", err)
			}
			if len(folders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No folders yet.")
				return nil
			}
			printFolders(cmd.OutOrStdout(), folders)
			return nil
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [folder-id|category]",
		Short: "Delete a folder and every entry in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer dbConn.Close()

			f, err := resolveFolder(cmd.Context(), dbConn, args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete folder %s and all of its entries?", f.Name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			removed, err := journal.DeleteFolder(cmd.Context(), dbConn, f.ID)
			if err != nil {
				return fmt.Errorf("failed to delete folder: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s and %d entries.\n", f.Name, removed)
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "Show folder colors and categories",
		Run: func(cmd *cobra.Command, args []string) {
			printPalette(cmd.OutOrStdout())
		},
	}

	foldersCmd.AddCommand(createCmd, listCmd, deleteCmd, paletteCmd)
	rootCmd.AddCommand(foldersCmd)
}

// resolveFolder accepts a numeric id or a category name.
func resolveFolder(ctx context.Context, db *sql.DB, ref string) (journal.Folder, error) {
	var (
		f   journal.Folder
		err error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		f, err = journal.GetFolder(ctx, db, id)
	} else {
		f, err = journal.GetFolderByName(ctx, db, ref)
	}
	if errors.Is(err, journal.ErrFolderNotFound) {
		return f, fmt.Errorf("folder not found: %s", ref)
	}
	return f, err
}

// confirm asks a yes/no question on the command's input. Anything but y or yes is no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
