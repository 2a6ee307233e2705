// Package cli is the deltavalue command-line entrypoint.
package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"deltavalue/config"
	"deltavalue/data"
	"deltavalue/logging"
	"deltavalue/store"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app holds what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg       *config.Config
	logCloser io.Closer
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "deltavalue",
		Short: "Deltavalue: AI scores for Indian stocks",
		Long: `Deltavalue ranks Indian equities and ETFs by an AI score built from
fundamental, technical, sentiment and risk indicators.

Run "deltavalue serve" for the web dashboard, or use the stocks, browse and
search commands to explore the catalog from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newServeCmd(a),
		newStocksCmd(a),
		newBrowseCmd(a),
		newSearchCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		a.cfg, err = config.LoadFromFile(configFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		a.cfg.Logging.Level = level
	}

	a.logCloser, err = logging.Setup(a.cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

// catalogFS returns the configured data directory, or the embedded catalog.
func (a *app) catalogFS() fs.FS {
	if a.cfg.Data.Dir != "" {
		return os.DirFS(a.cfg.Data.Dir)
	}
	return data.FS()
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(ctx, a.catalogFS())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logrus.WithField("stocks", st.Len()).Debug("Catalog ready")
	return st, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "deltavalue %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
