package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/atomic-sms/components/notification"
	"github.com/bububa/atomic-sms/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		flags segmentFlags
		addr  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the split and send API over HTTP",
		Long: `Starts the HTTP API:
  POST /v1/split          split a message
  POST /v1/messages       send messages through the log transport
  GET  /v1/messages/{id}  receipt of a sent message
  GET  /v1/stats          delivery totals
  GET  /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.merge(cmd, a.cfg)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			dispatcher, err := newDispatcher(cfg, a.logger, notification.WithHistory(notification.NewHistory(cfg.Dispatch.History)))
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), ln, server.New(dispatcher, a.logger).Routes(), cfg.Server.ShutdownTimeout, a.logger)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, host:port")
	return cmd
}

// serve runs the API on ln until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, ln net.Listener, h http.Handler, shutdownTimeout time.Duration, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("api stopped")
	return nil
}
