package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/kompox/amlops/adapters/drivers/provider/aml"
	"github.com/kompox/amlops/internal/logging"
)

const (
	defaultLogDir           = ".amlops/logs"
	defaultLogRetentionDays = 7
)

func newRootCmd() *cobra.Command {
	var logFile *logging.LogFile

	cmd := &cobra.Command{
		Use:     "amlops",
		Short:   "Azure Machine Learning provisioning CLI",
		Long:    "amlops provisions an Azure Machine Learning workspace with a GPU compute cluster, a notebook instance and an environment.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultDB := os.Getenv("AMLOPS_DB_URL")
	if defaultDB == "" {
		defaultDB = defaultDBURL
	}
	cmd.PersistentFlags().String("db-url", defaultDB, "Run journal database URL (env AMLOPS_DB_URL) (inmem: | sqlite:/path/to.db)")
	defaultConfig := os.Getenv("AMLOPS_CONFIG")
	cmd.PersistentFlags().String("config", defaultConfig, "Path to "+defaultConfigPath+" (env AMLOPS_CONFIG); read from the working directory when present")
	cmd.PersistentFlags().String("env-file", defaultEnvFilePath, "Dotenv file loaded before reading the environment")
	cmd.PersistentFlags().String("log-format", "human", "Log format (human|text|json) (env AMLOPS_LOG_FORMAT)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error) (env AMLOPS_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-file", "", "Log output (-|none|auto|/path/to/file); auto writes to "+defaultLogDir)

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("AMLOPS_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		levelStr, _ := c.Flags().GetString("log-level")
		if env := os.Getenv("AMLOPS_LOG_LEVEL"); env != "" {
			levelStr = env
		}
		level, err := logging.ParseLevel(levelStr)
		if err != nil {
			return err
		}

		output, _ := c.Flags().GetString("log-file")
		lf, err := logging.OpenLogFile(output, defaultLogDir)
		if err != nil {
			return err
		}
		logFile = lf

		l, err := logging.NewWithWriter(format, level, lf.Writer())
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)

		if lf.Path != "" && output == "auto" {
			if err := logging.CleanupOldLogFiles(defaultLogDir, logRetentionDays()); err != nil {
				l.Warn(ctx, "log cleanup failed", "err", err)
			}
		}
		return nil
	}
	cmd.PersistentPostRunE = func(c *cobra.Command, _ []string) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdSetup())
	cmd.AddCommand(newCmdRuns())
	return cmd
}

func logRetentionDays() int {
	if v := os.Getenv("AMLOPS_LOG_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultLogRetentionDays
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetContext(ctx)
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		stop()
		os.Exit(1)
	}
}
