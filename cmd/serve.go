package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadindex/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dates, totals, search and uploads over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		svc, err := initService(ctx, "serve")
		if err != nil {
			return err
		}
		defer svc.Close() //nolint:errcheck

		handler := server.New(svc, server.Options{
			AuthToken:   cfg.Server.AuthToken,
			UploadRate:  cfg.Server.UploadRate,
			UploadBurst: cfg.Server.UploadBurst,
			CORSOrigins: cfg.Server.CORSOrigins,
		}).Routes()

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

		if cfg.Server.AuthToken == "" {
			zap.L().Warn("server.auth_token is empty, /api is unauthenticated")
		}
		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.Strings("roots", cfg.Sources.Roots),
			zap.String("index", cfg.Index.Path),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
