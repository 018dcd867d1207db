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

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show distinct totals and histograms across all dates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, err := initService(ctx, "query")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		totals, err := svc.GetTotals(ctx)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(totals)
		}

		top, _ := cmd.Flags().GetInt("top")
		formatTotals(cmd.OutOrStdout(), totals, top)
		return nil
	},
}

func init() {
	totalsCmd.Flags().Bool("json", false, "print totals as JSON")
	totalsCmd.Flags().Int("top", 10, "histogram rows to display per section (0 for all)")
	rootCmd.AddCommand(totalsCmd)
}

// formatTotals writes aggregate counts and the top histogram buckets to w.
func formatTotals(out io.Writer, t *model.Totals, top int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Dates:\t%d\n", t.Dates)
	_, _ = fmt.Fprintf(w, "Companies:\t%d\n", t.Companies)
	_, _ = fmt.Fprintf(w, "  With mail:\t%d\n", t.WithMail)
	_, _ = fmt.Fprintf(w, "  With audit:\t%d\n", t.WithAudit)
	_, _ = fmt.Fprintf(w, "  With preview:\t%d\n", t.WithPreview)
	_, _ = fmt.Fprintf(w, "  Worthy site:\t%d\n", t.WorthySite)
	_, _ = fmt.Fprintf(w, "  With email:\t%d\n", t.WithEmail)
	_, _ = fmt.Fprintf(w, "  With domain:\t%d\n", t.WithDomain)
	_, _ = fmt.Fprintf(w, "People:\t%d\n", t.People)
	_, _ = fmt.Fprintf(w, "Mails:\t%d\n", t.Mails)
	_, _ = fmt.Fprintf(w, "Audits:\t%d\n", t.Audits)
	_, _ = fmt.Fprintf(w, "Evaluations:\t%d\n", t.Evaluations)

	for _, h := range []struct {
		title string
		m     map[string]int
	}{
		{"Segments", t.Segments},
		{"Regions", t.Regions},
		{"Domain status", t.DomainStatuses},
	} {
		if len(h.m) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s:\t\n", h.title)
		for _, b := range topBuckets(h.m, top) {
			_, _ = fmt.Fprintf(w, "  %s\t%d\n", b.name, b.count)
		}
	}
	_ = w.Flush()
}

type bucket struct {
	name  string
	count int
}

// topBuckets sorts a histogram by count descending, then name, and keeps
// the first n buckets. n <= 0 keeps all.
func topBuckets(m map[string]int, n int) []bucket {
	out := make([]bucket, 0, len(m))
	for k, v := range m {
		out = append(out, bucket{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
