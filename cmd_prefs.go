package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"instant_test/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or clear saved generation preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Print the preferences saved under a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.Open(cmd.Context(), cfg.Prefs.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Get(cmd.Context(), args[0])
		if errors.Is(err, prefs.ErrNotFound) {
			return fmt.Errorf("no preferences saved for profile %q", args[0])
		}
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var prefsClearCmd = &cobra.Command{
	Use:   "clear <profile>",
	Short: "Delete the preferences saved under a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefs.Open(cmd.Context(), cfg.Prefs.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
		return err
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsClearCmd)
}
