package cmd

import (
	"fmt"

	"freight/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "freight",
	Short:         "Freight load and shipment coordination service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "dotenv file read before the environment")
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newOutboxCmd())
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// bootstrap loads the configuration, builds the logger and connects to the
// database. Callers close the returned root.
func bootstrap() (*CompositionRoot, Config, *zap.Logger, error) {
	cfg, err := LoadConfig(envFile)
	if err != nil {
		return nil, Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, Config{}, nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, Config{}, nil, err
	}
	root, err := NewCompositionRoot(cfg, db, log)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, Config{}, nil, err
	}
	return root, cfg, log, nil
}

func openDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
