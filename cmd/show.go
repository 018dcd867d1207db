package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadindex/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show one date's reconciled data read directly from its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, err := initService(ctx, "query")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		data, err := svc.GetDateData(ctx, args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		}

		formatDateData(cmd.OutOrStdout(), data)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "print the full date data as JSON")
	rootCmd.AddCommand(showCmd)
}

// formatDateData writes a date's provenance, stats and summary to w.
func formatDateData(out io.Writer, d *model.DateData) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Date:\t%s\n", d.Date)
	_, _ = fmt.Fprintf(w, "Provenance:\t%s\n", d.Provenance)
	_, _ = fmt.Fprintf(w, "Companies:\t%d\n", d.Stats.Companies)
	_, _ = fmt.Fprintf(w, "  With mail:\t%d\n", d.Stats.WithMail)
	_, _ = fmt.Fprintf(w, "  With audit:\t%d\n", d.Stats.WithAudit)
	_, _ = fmt.Fprintf(w, "  With preview:\t%d\n", d.Stats.WithPreview)
	_, _ = fmt.Fprintf(w, "  Worthy site:\t%d\n", d.Stats.WorthySite)
	_, _ = fmt.Fprintf(w, "  With email:\t%d\n", d.Stats.WithEmail)
	_, _ = fmt.Fprintf(w, "  With domain:\t%d\n", d.Stats.WithDomain)
	_, _ = fmt.Fprintf(w, "People:\t%d\n", d.Stats.People)
	_, _ = fmt.Fprintf(w, "Mails:\t%d\n", d.Stats.Mails)
	_, _ = fmt.Fprintf(w, "Audits:\t%d\n", d.Stats.Audits)
	_, _ = fmt.Fprintf(w, "Evaluations:\t%d\n", d.Stats.Evaluations)

	if len(d.Summary) > 0 {
		_, _ = fmt.Fprintln(w, "Summary:\t")
		keys := make([]string, 0, len(d.Summary))
		for k := range d.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s:\t%s\n", k, d.Summary[k])
		}
	}
	_ = w.Flush()
}
