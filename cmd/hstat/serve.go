package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the H-statistic HTTP API",
		Long: `Serve the HTTP API:
- POST /api/v1/interactions   compute statistics for posted rows and a model spec
- GET  /api/v1/runs           list stored runs (requires DATABASE_URL)
- GET  /api/v1/runs/{id}      fetch a stored run
- GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := setup(ctx, false)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if port == "" {
				port = c.Config.Server.Port
			}
			server := &http.Server{
				Addr:         ":" + port,
				Handler:      c.APIServer(),
				ReadTimeout:  c.Config.Server.ReadTimeout,
				WriteTimeout: c.Config.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening on %s (persistence %t)", server.Addr, c.InteractionService.PersistenceEnabled())
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default: PORT or 8080)")
	return cmd
}

