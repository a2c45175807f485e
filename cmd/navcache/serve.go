package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/krisalay/navcache/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development page-content endpoint",
	Long: `Serves the built-in pages (or the markdown files in server.pages_dir)
over the same wire format the admin endpoint uses. Point endpoint and
session_token at it to browse against a separate process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		srv, err := newDevServer(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()

		fmt.Fprintf(cmd.OutOrStdout(), "endpoint : http://%s%s\ntoken    : %s\nroutes   : %v\n",
			cfg.Server.Addr, devserver.EndpointPath, srv.Token(), srv.Routes())

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
