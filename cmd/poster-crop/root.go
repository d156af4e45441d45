package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	postercrop "github.com/menta2k/poster-cropper"
	"github.com/menta2k/poster-cropper/internal/config"
	"github.com/menta2k/poster-cropper/internal/logging"
)

const (
	// skipLogAnnotation marks commands that never write crop log records
	skipLogAnnotation = "skip-log"
	// defaultsOnErrorAnnotation marks commands that must run even when the
	// config file is invalid, falling back to the defaults
	defaultsOnErrorAnnotation = "defaults-on-config-error"
)

var (
	// cfg is the effective configuration, loaded before every command
	cfg *config.Config
	// logger receives one record per crop
	logger = zap.NewNop()

	closeLog = func() {}
	cfgFile  string
	logFile  string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:     "poster-crop",
	Short:   "Crop the five LethalPosters regions out of a 1024x1024 sheet",
	Version: postercrop.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			if cmd.Annotations[defaultsOnErrorAnnotation] != "true" {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = config.Default()
		}
		if logFile != "" {
			cfg.Log.File = logFile
		}
		if verbose {
			cfg.Log.Console = true
			cfg.Log.Level = "debug"
		}

		if cmd.Annotations[skipLogAnnotation] == "true" {
			return nil
		}
		logger, closeLog, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownLog()
	},
}

// shutdownLog flushes and closes the log file. Safe to call more than once.
func shutdownLog() {
	closeLog()
	closeLog = func() {}
	logger = zap.NewNop()
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		shutdownLog()
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.GetConfigPath(), "Path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append crop records to this file (default from config: log.txt)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to stderr at debug level")
}
