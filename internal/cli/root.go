// Package cli wires the pontos commands together with cobra.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nichtsfrei/pontos/internal/buildinfo"
	"github.com/nichtsfrei/pontos/internal/config"
	"github.com/nichtsfrei/pontos/internal/errors"
	"github.com/nichtsfrei/pontos/internal/git"
	"github.com/nichtsfrei/pontos/internal/logger"
)

var (
	verboseFlag    bool
	configPathFlag string

	// cfg is loaded once in the persistent pre-run and shared by all
	// commands.
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "pontos",
	Short: "Release bookkeeping for Keep a Changelog projects",
	Long: `pontos maintains a project's release bookkeeping: it extracts and
rewrites Keep a Changelog formatted changelogs, bumps version files, and
performs full releases with git tags and GitHub releases.`,
	Version:       buildinfo.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verboseFlag {
			logger.SetVerbose(true)
			git.SetDebugLogger(logger.Debug)
			if buildinfo.IsDevBuild() {
				logger.Info("pontos development build")
			} else {
				logger.Info("pontos %s", buildinfo.Version)
			}
		}

		loaded, err := config.Load(configPathFlag)
		if err != nil {
			return errors.Wrap(err, errors.Configuration,
				"check the config file for syntax errors",
				"run with --config to point at a different file")
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "",
		"Config file path (default: .pontos/config.yml)")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
		switch cliErr.Category {
		case errors.Argument:
			return ExitInvalidArguments
		case errors.Prerequisite:
			return ExitMissingPrerequisites
		default:
			return ExitFailure
		}
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitFailure
}
