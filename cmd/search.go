package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadindex/internal/model"
	"github.com/sells-group/leadindex/internal/server"
)

// searchFlagNames are the flags that map one-to-one onto search parameters.
var searchFlagNames = []string{
	"segment", "region",
	"has-mail", "has-audit", "has-preview", "worthy-site", "has-email", "has-domain",
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search companies (and people, when a query is given) across all dates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, err := initService(ctx, "query")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		filter := searchFilterFromFlags(cmd, args)
		res, err := svc.Search(ctx, filter)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		formatSearchResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.String("segment", "", "segment equals (case-insensitive)")
	f.String("region", "", "region equals (case-insensitive)")
	f.String("has-mail", "", "ja/nej filter on generated mail")
	f.String("has-audit", "", "ja/nej filter on website audit")
	f.String("has-preview", "", "ja/nej filter on preview site")
	f.String("worthy-site", "", "ja/nej filter on worth-a-site verdict")
	f.String("has-email", "", "ja/nej filter on known email")
	f.String("has-domain", "", "ja/nej filter on known domain")
	f.Int("limit", 0, "max companies and people to return (default from config)")
	f.Int("offset", 0, "rows to skip")
	f.Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchFilterFromFlags builds a filter with the same lenient token rules
// as the HTTP query string.
func searchFilterFromFlags(cmd *cobra.Command, args []string) model.SearchFilter {
	q := url.Values{}
	if len(args) > 0 {
		q.Set("q", args[0])
	}
	for _, name := range searchFlagNames {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			q.Set(paramName(name), v)
		}
	}
	for _, name := range []string{"limit", "offset"} {
		if v, _ := cmd.Flags().GetInt(name); v > 0 {
			q.Set(name, strconv.Itoa(v))
		}
	}
	return server.ParseFilter(q)
}

// paramName maps a flag name like "has-mail" to its query parameter.
func paramName(flag string) string {
	b := []byte(flag)
	for i, c := range b {
		if c == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

// formatSearchResult writes matching companies and people to w.
func formatSearchResult(out io.Writer, res *model.SearchResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Companies: %d of %d\n", len(res.Companies), res.TotalCompanies)
	if len(res.Companies) > 0 {
		_, _ = fmt.Fprintln(w, "DATE\tFOLDER\tORG_NR\tNAME\tSEGMENT\tREGION\tFLAGS")
		_, _ = fmt.Fprintln(w, "----\t------\t------\t----\t-------\t------\t-----")
		for _, c := range res.Companies {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.Date,
				c.FolderID,
				c.OrgNumber,
				truncate(model.Str(c.Name), 30),
				model.Str(c.Segment),
				model.Str(c.Region),
				flagString(c.Flags),
			)
		}
	}

	if len(res.People) > 0 {
		_, _ = fmt.Fprintf(w, "\nPeople: %d of %d\n", len(res.People), res.TotalPeople)
		_, _ = fmt.Fprintln(w, "DATE\tFOLDER\tNAME\tROLE\tCITY")
		_, _ = fmt.Fprintln(w, "----\t------\t----\t----\t----")
		for _, p := range res.People {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.Date,
				p.FolderID,
				personName(p.Person),
				p.Role,
				model.Str(p.City),
			)
		}
	}
	_ = w.Flush()
}

// flagString renders the set flags as compact letters: M(ail) A(udit)
// P(review) W(orthy) E(mail) D(omain).
func flagString(f model.Flags) string {
	out := []byte("------")
	for i, on := range []bool{f.HasMail, f.HasAudit, f.HasPreview, f.WorthySite, f.HasEmail, f.HasDomain} {
		if on {
			out[i] = "MAPWED"[i]
		}
	}
	return string(out)
}

func personName(p model.Person) string {
	name := model.Str(p.FirstName)
	for _, part := range []string{model.Str(p.MiddleName), model.Str(p.LastName)} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
