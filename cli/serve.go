package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"deltavalue/api"
	"deltavalue/search"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			engine, err := search.NewEngine(a.cfg.Search, st.Stocks())
			if err != nil {
				return fmt.Errorf("failed to initialize search engine: %w", err)
			}
			defer engine.Close()

			srv, err := api.NewServer(a.cfg, st, engine)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"stocks": st.Len(),
				"etfs":   len(st.ETFs()),
			}).Info("Catalog loaded")
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "listen port (overrides server.port)")
	return cmd
}
