package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/logging"
)

var (
	flagEnv        string
	flagConfigPath string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "fittrackctl",
	Short:         "fittrack admin tool",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.LoggerSetupParams{
			LogLevel: flagLogLevel,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level")

	rootCmd.AddCommand(migrateCmd, userCmd, hashPasswordCmd)
}

// dbParams loads the config and the env secrets into pool params.
func dbParams(ctx context.Context) (db.NewDBPoolParams, error) {
	cfg, err := config.Load(flagEnv, flagConfigPath)
	if err != nil {
		return db.NewDBPoolParams{}, err
	}
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return db.NewDBPoolParams{}, fmt.Errorf("load secrets: %w", err)
	}
	return db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	}, nil
}
