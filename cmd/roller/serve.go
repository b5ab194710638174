package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/storycraft/roller/internal/api"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, func(app *App) error {
				if addr == "" {
					addr = app.cfg.HTTP.Addr
				}
				return serve(ctx, app, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to HTTP_ADDR)")
	return cmd
}

// serve runs the HTTP server and shuts it down when ctx is done
func serve(ctx context.Context, app *App, addr string) error {
	server := &http.Server{
		Addr: addr,
		Handler: api.NewHandler(&api.Config{
			Characters: app.provider.CharacterService,
			Rolls:      app.provider.RollService,
			Metrics:    app.metrics,
			Logger:     app.logger.Named("http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
