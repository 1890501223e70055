package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dsalta/compliance-api/internal/app"
	"github.com/dsalta/compliance-api/internal/infrastructure/config"
	"github.com/dsalta/compliance-api/pkg/logger"
)

const serviceName = "compliance-api"

type loadFunc func(ctx context.Context) (*config.Config, error)

func execute() int {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(load loadFunc) *cobra.Command {
	var pretty bool

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Compliance task tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable console logs")

	rootCmd.AddCommand(
		newServeCmd(load, &pretty),
		newSeedCmd(load, &pretty),
	)
	return rootCmd
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context, load loadFunc, pretty bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  pretty && !cfg.IsProduction(),
		Service: serviceName,
		Env:     cfg.Env,
	})
	return cfg, log, nil
}

func newServeCmd(load loadFunc, pretty *bool) *cobra.Command {
	var (
		port     string
		skipSeed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, err := setup(ctx, load, *pretty)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					log.Error().Err(err).Msg("closing connections")
				}
			}()

			if cfg.Seed.DefaultUsers && !skipSeed {
				if _, err := a.Seed(ctx); err != nil {
					return err
				}
			}
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not create the default accounts")
	return cmd
}

func newSeedCmd(load loadFunc, pretty *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and standard accounts if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup(ctx, load, *pretty)
			if err != nil {
				return err
			}

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			created, err := a.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d account(s)\n", created)
			return nil
		},
	}
}
