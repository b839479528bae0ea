package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/storekit/auth"
	"github.com/kbukum/storekit/config"
)

func tokenCmd() *cobra.Command {
	var (
		configFile string
		subject    string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the store routes",
		Long:  `Sign a token with the auth section of the config, for use as "Authorization: Bearer <token>".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []config.LoaderOption
			if configFile != "" {
				opts = append(opts, config.WithConfigFile(configFile))
			}
			var cfg config.Config
			if err := config.Load("storekit", &cfg, opts...); err != nil {
				return err
			}
			cfg.Auth.ApplyDefaults()

			v, err := auth.NewVerifier(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := v.Issue(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: search config.yml)")
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")

	return cmd
}
