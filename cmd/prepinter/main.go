// Command prepinter runs the PrepInter API and its frontend shell.
//
//	@title						PrepInter API
//	@version					1.0
//	@description				Mock interview practice platform API.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prepinter/prepinter/internal/infrastructure/config"
	"github.com/prepinter/prepinter/pkg/logger"
)

const serviceName = "prepinter"

var rootCmd = &cobra.Command{
	Use:           "prepinter",
	Short:         "PrepInter mock interview platform",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	rootCmd.AddCommand(newAPICmd(), newWebCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initialises the logger shared by every
// subcommand.
func setup(ctx context.Context, component string) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName + "-" + component,
		Env:     cfg.Env,
	})
	return cfg, nil
}
