package cmd

import (
	"fmt"
	"os"

	"recipe-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "recipe-manager",
	Short: "Recipe Manager Service",
	Long: `Recipe Manager serves recipes with their ingredients, instructions,
categories and media over a REST API. Media live on the local filesystem or
in an S3-compatible bucket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configDir is the directory holding the optional .env file.
var configDir string

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing the .env file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with ISO8601 timestamps reads better on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
