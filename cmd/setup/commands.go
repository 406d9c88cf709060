package main

import (
	"context"
	"fmt"

	"daily-report/internal/app"
	"daily-report/internal/config"
	"daily-report/internal/logger"
	"daily-report/internal/service"

	"github.com/spf13/cobra"
)

func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logs := logger.Init(cfg.Log)
	cobra.OnFinalize(func() { logs.Close() })
	return cfg, cfg.Validate()
}

func newInitCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create schema and seed the default report and admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			// Seed the admin regardless of the serving auth mode.
			cfg.Auth.Mode = config.AuthStore
			a, err := app.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			reports, err := a.Store.ListReports(cmd.Context(), 0)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store ready: %d report(s)\n", cfg.Store.Backend, len(reports))
			return nil
		},
	}
}

func newPasswdCmd(configFile *string) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Set an admin password in the user table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			return changePassword(cmd.Context(), cfg, args[0], password)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func changePassword(ctx context.Context, cfg *config.Config, username, password string) error {
	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	admin := a.Admin
	if admin == nil {
		admin = service.NewAuthService(a.Store, cfg.Store.Timeout, 0)
	}
	if err := admin.ChangePassword(ctx, username, password); err != nil {
		return err
	}
	logger.Info("password updated", "username", username)
	return nil
}
