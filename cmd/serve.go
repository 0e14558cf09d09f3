package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/config"
	"github.com/Zachkp/visualgallery/internal/gallery"
	"github.com/Zachkp/visualgallery/internal/logging"
	"github.com/Zachkp/visualgallery/internal/site"
	"github.com/Zachkp/visualgallery/internal/store"
)

func newServeCmd(envFile *string) *cobra.Command {
	var port, catalogPath, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gallery web server",
		Long: `Starts the gallery site, the analytics store and the admin dashboard.

Configuration comes from the environment file and the process environment.
Flags override the matching variables.`,
		Example: `  # Start on the port from PORT (default 8080)
  visualgallery serve

  # Custom port and catalog, analytics disabled
  visualgallery serve --port 3000 --catalog photos.yaml --db ""`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("catalog") {
				cfg.CatalogPath = catalogPath
			}
			if cmd.Flags().Changed("db") {
				cfg.DatabasePath = dbPath
			}

			logger, err := logging.New(cfg.LogLevel, cfg.Release())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			gin.SetMode(cfg.Mode)

			catalog, err := loadCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			logger.Info("catalog loaded", zap.Int("images", catalog.Len()), zap.String("path", cfg.CatalogPath))

			var st *store.Store
			if cfg.DatabasePath != "" {
				if st, err = store.Open(cfg.DatabasePath, logger); err != nil {
					return err
				}
				defer st.Close()
			} else {
				logger.Warn("analytics disabled: no database path")
			}

			srv, err := site.New(cfg, catalog, st, logger)
			if err != nil {
				return err
			}
			engine, err := srv.Engine()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			srv.Run(ctx)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           engine,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("gallery available", zap.String("addr", addr), zap.String("url", "http://localhost"+addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("server shutdown failed", zap.Error(err))
					return err
				}
				if err := srv.Drain(shutdownCtx); err != nil {
					logger.Warn("analytics writes still pending", zap.Error(err))
				}
				logger.Info("server stopped")
				return nil
			case err := <-serverErr:
				drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if derr := srv.Drain(drainCtx); derr != nil {
					logger.Warn("analytics writes still pending", zap.Error(derr))
				}
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (overrides CATALOG_PATH)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite analytics database, empty disables analytics (overrides DATABASE_PATH)")

	return cmd
}

// loadCatalog reads path, or returns the built-in catalog when path is empty.
func loadCatalog(path string) (*gallery.Catalog, error) {
	if path == "" {
		return gallery.DefaultCatalog(), nil
	}
	return gallery.LoadCatalogFile(path)
}
