package cli

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

	"github.com/pentrail/pentrail/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode()

		addr, _ := cmd.Flags().GetString("addr")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

		cfg := buildConfig()
		if addr != "" {
			cfg.ListenAddr = addr
		}

		srv, err := server.NewServer(server.Config{
			ListenAddr: cfg.ListenAddr,
			AppConfig:  cfg,
			Logger:     buildLogger(),
		})
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		defer srv.Close()

		httpServer := srv.HTTPServer()

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("%s API server listening on %s\n", colorInfo("→"), cfg.ListenAddr)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}
			fmt.Printf("%s Server shutdown complete\n", colorSuccess("✓"))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "address for the API server (default from config)")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "graceful shutdown timeout")
}
