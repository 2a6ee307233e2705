package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"deltavalue/filter"
	"deltavalue/models"
)

const browsePrompt = "deltavalue> "

const browseHelp = `Commands:
  q <text>         search symbol or name (q alone clears the search)
  sector <name>    IT, Banking, Energy, FMCG or all
  mcap <name>      Large Cap, Mid Cap, Small Cap or all
  reset            clear every filter
  show             print the current view
  help             show this help
  quit             leave
`

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively filter the stock list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			b := &browser{
				session: filter.NewSession(st.Stocks()),
				in:      cmd.InOrStdin(),
				out:     cmd.OutOrStdout(),
			}
			return b.run()
		},
	}
}

// browser is a line-oriented shell over a filter.Session. Every command
// that changes the filter prints the recomputed view.
type browser struct {
	session *filter.Session
	in      io.Reader
	out     io.Writer
}

func (b *browser) run() error {
	fmt.Fprint(b.out, browseHelp)
	if err := b.show(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(b.in)
	for {
		fmt.Fprint(b.out, browsePrompt)
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		done, err := b.handle(line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// handle runs one command line. It reports true when the shell should exit.
func (b *browser) handle(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(b.out, browseHelp)
		return false, nil
	case "q", "query":
		b.session.SetQuery(arg)
	case "sector":
		b.session.SetSector(canonical(orAll(arg), models.Sectors()))
	case "mcap":
		b.session.SetMarketCap(canonical(orAll(arg), models.MarketCaps()))
	case "reset":
		b.session.Reset()
	case "show":
	default:
		fmt.Fprintf(b.out, "Unknown command: %s  (type help for help)\n", cmd)
		return false, nil
	}
	return false, b.show()
}

func (b *browser) show() error {
	state := b.session.State()
	fmt.Fprintf(b.out, "\nquery=%q sector=%s mcap=%s\n", state.Query, state.Sector, state.MarketCap)
	return renderStocks(b.out, b.session.View())
}

func orAll(s string) string {
	if s == "" {
		return models.All
	}
	return s
}
