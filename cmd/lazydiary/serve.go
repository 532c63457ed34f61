package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFn()
			srv := a.httpServer()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("web server running", "addr", "http://localhost"+srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if isServerClosed(err) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			a.logger.Info("shutting down web server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func (a *app) httpServer() *http.Server {
	gin.SetMode(gin.ReleaseMode)
	server := web.NewServer(a.store, a.engine,
		web.WithLogger(a.logger),
		web.WithMetrics(a.metrics, a.registry))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.WebPort),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func isServerClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}
