package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"surveyflow/internal/config"
)

var (
	// Version information (set by build flags)
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Global config
	cfg *config.Config
)

func main() {
	setupCommands()
	if err := rootCmd.Execute(); err != nil {
		var exitErr ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", exitErr.Error())
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCodeGeneralError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "surveyflow",
	Short: "Surveyflow - conditional survey engine",
	Long: `Surveyflow serves surveys whose questions and groups appear or hide
depending on earlier answers, and tracks each respondent's progress
until submission.

Commands:
  serve    Run the HTTP and WebSocket API
  import   Store a YAML survey definition in MongoDB
  check    Validate a definition and dry-run answers offline`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		if err := initLogging(); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return ExitError{Code: ExitCodeConfigError, Err: fmt.Errorf("failed to load configuration: %w", err)}
		}

		// Flags win over the config file
		if !cmd.Flags().Changed("log-format") && cfg.IsJSONFormat() {
			logFormat = "json"
			if err := initLogging(); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("log-level") {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(level)
		} else {
			zerolog.SetGlobalLevel(cfg.GetLogLevel())
		}

		log.Debug().
			Str("version", version).
			Str("config_file", cfgFile).
			Msg("Surveyflow initialized")

		return nil
	},
}

func setupCommands() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: surveyflow.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	setupServeFlags()
	setupImportFlags()
	setupCheckFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(checkCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("Surveyflow v%s\n", version))
}

func initLogging() error {
	if logFormat == "console" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	return nil
}

func parseLogLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
}
