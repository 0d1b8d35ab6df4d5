package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hall-management-backend/config"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	jsonLogs   bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "halld",
		Short:         "Hall seat management backend",
		Long:          `Manages hall rooms, students and seat assignments, and serves the admin and student API.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "./config/config.yaml" // Default path for local development
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfig, "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "emit logs as JSON")

	rootCmd.AddCommand(newServeCmd(opts), newAllocateCmd(opts))
	return rootCmd
}

// load reads .env (if present), configures logging and loads the config file.
func (o *options) load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if o.jsonLogs {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	logrus.Infof("Configuration loaded from %s", o.configPath)
	o.cfg = cfg
	return nil
}
