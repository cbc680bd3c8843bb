// Package cmd provides the minisearch CLI commands.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/logger"
)

// globals carries persistent flags and the loaded config to subcommands.
type globals struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "minisearch",
		Short: "Minimal full-text search over a directory of text files",
		Long: `minisearch builds an inverted index over the .txt files in a directory
and answers queries whose terms must all appear in a document.

The first line of every file is its title. Results are listed in the
order documents were indexed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if g.logLevel != "" {
				cfg.Logging.Level = g.logLevel
			}
			logger.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			g.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(newIndexCmd(g))
	cmd.AddCommand(newSearchCmd(g))
	cmd.AddCommand(newQueryCmd(g))
	cmd.AddCommand(newServeCmd(g))

	return cmd
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errorMessage(err))
	}
	return err
}

// errorMessage prefers the user-facing AppError message.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
