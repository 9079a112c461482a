package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addProfile(rootCmd *cobra.Command, opts *rootOptions) {
	var name string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Set the name daybook greets you with",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.prefs()
			if err := store.SetDisplayName(name); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Greeting())
			return nil
		},
	}
	loginCmd.Flags().StringVar(&name, "name", "", "Your name")
	_ = loginCmd.MarkFlagRequired("name")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.prefs().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the stored name",
		Run: func(cmd *cobra.Command, args []string) {
			store := opts.prefs()
			if !store.HasDisplayName() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (not logged in)\n", store.DisplayName())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.DisplayName())
		},
	}

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
