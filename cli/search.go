package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"deltavalue/search"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Ranked full-text search over the stock catalog",
		Long: `Search ranks matches on symbol, name and sector, then blends in the
AI score. Unlike "stocks --query" it tolerates prefixes and partial names
and orders results by relevance instead of catalog order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}

			engine, err := search.NewEngine(a.cfg.Search, st.Stocks())
			if err != nil {
				return fmt.Errorf("failed to initialize search engine: %w", err)
			}
			defer engine.Close()

			return renderStocks(cmd.OutOrStdout(), engine.Search(strings.Join(args, " ")))
		},
	}
}
