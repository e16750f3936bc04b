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

	"github.com/fergoeqs/second-service/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var shutdownTimeout time.Duration

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  "Start the gateway in front of the organization search service",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}

		server := api.NewServer(
			cfg,
			services.OrgDirectoryService,
			services.AuthService,
			logger,
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info().Msg("shutting down gracefully")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown error: %w", err)
			}
			return nil
		})

		logger.Info().
			Str("upstream", services.SearchClient.URL()).
			Bool("auth", services.AuthService != nil).
			Msg("server is ready")

		if err := g.Wait(); err != nil {
			return err
		}

		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serverCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serverCmd)
}
