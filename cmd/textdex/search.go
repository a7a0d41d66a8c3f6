package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/textdex"
)

type searchFlags struct {
	typ       string
	maxHits   int
	skip      int
	take      int
	minScore  float64
	orderBy   []string
	highlight []string
	asJSON    bool
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index with query-string syntax",
		Long: `Search the index with query-string syntax.

Examples:
  textdex search "Remarks:fishing"
  textdex search --type example.com/app.Person --highlight Remarks "fishing"
  textdex search --order-by -Id --take 10 "*"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer engine.Close()

			req, err := f.request(strings.Join(args, " "))
			if err != nil {
				return err
			}
			rs, err := engine.SearchDocuments(cmd.Context(), req, f.typ, f.highlight...)
			if err != nil {
				return err
			}
			if f.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rs)
			}
			printResults(cmd.OutOrStdout(), rs)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.typ, "type", "t", "", "Restrict hits to one type identity")
	fl.IntVarP(&f.maxHits, "max-hits", "n", 100, "Maximum hits fetched from the index")
	fl.IntVar(&f.skip, "skip", 0, "Skip the first N results")
	fl.IntVar(&f.take, "take", 0, "Return at most N results (0 = all)")
	fl.Float64Var(&f.minScore, "min-score", 0, "Drop hits scoring below this")
	fl.StringSliceVar(&f.orderBy, "order-by", nil, "Sort fields, '-' prefix for descending")
	fl.StringSliceVar(&f.highlight, "highlight", nil, "Fields to highlight")
	fl.BoolVar(&f.asJSON, "json", false, "Output as JSON")
	return cmd
}

func (f *searchFlags) request(q string) (*textdex.SearchRequest, error) {
	req := &textdex.SearchRequest{
		MaxHits:     f.maxHits,
		Skip:        f.skip,
		Take:        f.take,
		MinScore:    f.minScore,
		OrderBy:     f.orderBy,
		NoHighlight: len(f.highlight) == 0,
	}
	if q = strings.TrimSpace(q); q != "" && q != "*" {
		parsed, err := textdex.ParseQueryString(q)
		if err != nil {
			return nil, err
		}
		req.Query = parsed
	}
	return req, nil
}

func printResults(w io.Writer, rs *textdex.ResultSet[textdex.Document]) {
	fmt.Fprintf(w, "%d hit(s), showing %d\n", rs.TotalHits, len(rs.Results))
	for i, r := range rs.Results {
		fmt.Fprintf(w, "\n%d. score=%.4f type=%s\n", i+1, r.Score, r.Data.Type)
		names := make([]string, 0, len(r.Data.Fields))
		for name := range r.Data.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := r.Data.Fields[name]
			if hl, ok := r.Highlights[name]; ok {
				v = hl
			}
			fmt.Fprintf(w, "   %s: %s\n", name, v)
		}
	}
}
