package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [date...]",
	Short: "Index date directories into the search index",
	Long: "With no arguments, indexes every date directory the index has not seen yet. " +
		"Named dates are always re-indexed. --all re-indexes everything on disk.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, err := initService(ctx, "query")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		out := cmd.OutOrStdout()
		all, _ := cmd.Flags().GetBool("all")

		switch {
		case len(args) > 0:
			for _, date := range args {
				if err := svc.IndexDate(ctx, date); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "Indexed %s\n", date)
			}
		case all:
			n := svc.Reindex(ctx)
			_, _ = fmt.Fprintf(out, "Re-indexed %d of %d dates\n", n, len(svc.ListDates()))
		default:
			n, err := svc.EnsureIndexed(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Indexed %d new dates\n", n)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().Bool("all", false, "re-index every date directory on disk")
	rootCmd.AddCommand(indexCmd)
}
