package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/storekit/config"
	"github.com/kbukum/storekit/service"
	"github.com/kbukum/storekit/version"
)

func serveCmd() *cobra.Command {
	var (
		configFile string
		envFile    string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the store and its HTTP server",
		Long: `Load config.yml and .env (or the files given by flags), start the store,
the watch hub and the HTTP server, and run until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []config.LoaderOption
			if configFile != "" {
				opts = append(opts, config.WithConfigFile(configFile))
			}
			if envFile != "" {
				opts = append(opts, config.WithEnvFile(envFile))
			}

			var cfg config.Config
			if err := config.Load("storekit", &cfg, opts...); err != nil {
				return err
			}
			if cfg.Version == "" {
				cfg.Version = version.Short()
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, err := service.New(ctx, &cfg)
			if err != nil {
				return err
			}
			return svc.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: search config.yml)")
	cmd.Flags().StringVar(&envFile, "env-file", "", ".env file to load before the config")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port, overrides server.port")

	return cmd
}
