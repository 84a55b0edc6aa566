package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runway/tender-boq/internal/config"
	"github.com/runway/tender-boq/internal/monitoring"
	"github.com/runway/tender-boq/internal/render"
	"github.com/runway/tender-boq/internal/server"
	"github.com/runway/tender-boq/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tender pages, JSON API and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		handler, err := buildHandler(cfg, st, prometheus.NewRegistry())
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("runway", cfg.Runway.BaseURL),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildHandler wires the runway client, renderer and metrics into the router.
func buildHandler(c *config.Config, st store.Store, reg *prometheus.Registry) (http.Handler, error) {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.New(reg)

	r, err := render.New(c.Runway.SiteURL)
	if err != nil {
		return nil, eris.Wrap(err, "load templates")
	}

	return server.New(server.Deps{
		API:         newRunwayClient(c.Runway, metrics.ObserveFetch),
		Store:       st,
		Renderer:    r,
		Metrics:     metrics,
		Gatherer:    reg,
		PageSize:    c.Browse.PageSize,
		StoredLimit: c.Browse.StoredLimit,
		CORSOrigins: c.Server.CORSOrigins,
	}), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
