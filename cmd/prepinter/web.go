package main

import (
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prepinter/prepinter/internal/core/service"
	"github.com/prepinter/prepinter/internal/web"
	"github.com/prepinter/prepinter/pkg/logger"
)

func newWebCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the frontend shell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := setup(ctx, "web")
			if err != nil {
				return err
			}
			log := logger.Get()

			if apiURL == "" {
				apiURL = "http://localhost:" + cfg.Port
			}
			shell := web.NewServer(web.Config{
				DistDir:  cfg.Shell.DistDir,
				APIURL:   apiURL,
				Verifier: service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
				Log:      log,
			})

			log.Info().
				Str("port", cfg.Shell.Port).
				Str("dist", cfg.Shell.DistDir).
				Msg("shell running")
			return serve(ctx, shell, net.JoinHostPort("", cfg.Shell.Port))
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "", "public base URL of the API (default http://localhost:$PORT)")
	return cmd
}
