package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every date directory and the index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return eris.New("clear deletes all export data; pass --yes to confirm")
		}

		svc, err := initService(ctx, "query")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		removed, err := svc.Clear(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d date directories and reset the index\n", removed)
		return nil
	},
}

func init() {
	clearCmd.Flags().Bool("yes", false, "confirm deletion")
	rootCmd.AddCommand(clearCmd)
}
