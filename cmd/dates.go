package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadindex/internal/model"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List date directories and their index state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, err := initService(ctx, "query")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		dates := svc.ListDates()
		if len(dates) == 0 {
			fmt.Fprintln(os.Stderr, "No date directories found.")
			return nil
		}

		indexed, err := svc.IndexedDates(ctx)
		if err != nil {
			return err
		}

		formatDatesList(cmd.OutOrStdout(), dates, indexed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datesCmd)
}

// formatDatesList writes the date listing joined with index markers to w.
func formatDatesList(out io.Writer, dates []model.DateEntry, indexed []model.IndexedDate) {
	byDate := make(map[string]model.IndexedDate, len(indexed))
	for _, d := range indexed {
		byDate[d.Date] = d
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tLABEL\tINDEXED\tPROVENANCE\tCOMPANIES")
	_, _ = fmt.Fprintln(w, "----\t-----\t-------\t----------\t---------")

	for _, d := range dates {
		m, ok := byDate[d.Date]
		if !ok {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Date, d.DisplayLabel, "-", "-", "-")
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			d.Date,
			d.DisplayLabel,
			m.IndexedAt.Local().Format("2006-01-02 15:04"),
			m.Provenance,
			m.CompanyCount,
		)
	}
	_ = w.Flush()
}
