package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"deltavalue/filter"
	"deltavalue/format"
	"deltavalue/models"
)

func newStocksCmd(a *app) *cobra.Command {
	var state filter.State
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "List AI-scored stocks, optionally filtered",
		Example: `  deltavalue stocks
  deltavalue stocks --query tata
  deltavalue stocks --sector banking --mcap "large cap"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}

			state.Sector = canonical(state.Sector, models.Sectors())
			state.MarketCap = canonical(state.MarketCap, models.MarketCaps())
			view := filter.Apply(st.Stocks(), state)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return renderStocks(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVarP(&state.Query, "query", "q", "", "match symbol or name (case-insensitive)")
	cmd.Flags().StringVar(&state.Sector, "sector", models.All, "sector: IT, Banking, Energy, FMCG or all")
	cmd.Flags().StringVar(&state.MarketCap, "mcap", models.All, `market cap: "Large Cap", "Mid Cap", "Small Cap" or all`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// canonical maps a case-insensitive choice onto its display spelling.
// Unknown values pass through unchanged and simply match nothing.
func canonical(value string, choices []string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, models.All) {
		return models.All
	}
	for _, c := range choices {
		if strings.EqualFold(value, c) {
			return c
		}
	}
	return value
}

func renderStocks(w io.Writer, stocks []models.Stock) error {
	if len(stocks) == 0 {
		_, err := fmt.Fprintln(w, "No stocks match your filters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tPRICE\tCHANGE\tAI SCORE\tSECTOR\tMARKET CAP")
	for _, s := range stocks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s (%s)\t%s\t%s\n",
			s.Symbol,
			s.Name,
			format.INR(s.Price),
			format.SignedPercent(s.ChangePercent),
			format.Score(s.AIScore),
			models.BandFor(s.AIScore),
			s.Sector,
			s.MarketCapClass,
		)
	}
	return tw.Flush()
}
