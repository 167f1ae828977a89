package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nichtsfrei/pontos/internal/errors"
	"github.com/nichtsfrei/pontos/internal/git"
	"github.com/nichtsfrei/pontos/internal/github"
	"github.com/nichtsfrei/pontos/internal/progress"
	"github.com/nichtsfrei/pontos/internal/release"
)

var (
	releaseProjectDirFlag string
	releaseTagPrefixFlag  string
	releaseSpaceFlag      string
	releaseProjectFlag    string
	releaseRemoteFlag     string
	releaseNameFlag       string
	releaseTargetFlag     string
	releaseDraftFlag      bool
	releasePrereleaseFlag bool
	releaseSkeletonFlag   bool
	releaseDryRunFlag     bool
)

var releaseCmd = &cobra.Command{
	Use:   "release <version>",
	Short: "Release a new version",
	Long: `Perform a full release: bump the version files, rewrite the
changelog, commit and tag the changes, push them, and create a GitHub
release with the changelog section as its body.

A GitHub token is read from PONTOS_GITHUB_TOKEN or GITHUB_TOKEN, with a
.env file in the working directory loaded first.

Examples:
  pontos release 1.2.3
  pontos release 1.2.3 --space greenbone --dry-run
  pontos release 1.2.3 --draft --release-name "Widget 1.2.3"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().StringVarP(&releaseProjectDirFlag, "directory", "C", ".",
		"Project directory to release from")
	releaseCmd.Flags().StringVar(&releaseTagPrefixFlag, "git-tag-prefix", "",
		"Tag prefix (default: from config)")
	releaseCmd.Flags().StringVar(&releaseSpaceFlag, "space", "",
		"GitHub owner (default: from config)")
	releaseCmd.Flags().StringVar(&releaseProjectFlag, "project", "",
		"GitHub repository (default: from config or manifest)")
	releaseCmd.Flags().StringVar(&releaseRemoteFlag, "remote", "",
		"Git remote to push to (default: from config, origin)")
	releaseCmd.Flags().StringVar(&releaseNameFlag, "release-name", "",
		"GitHub release title (default: from config)")
	releaseCmd.Flags().StringVar(&releaseTargetFlag, "target-commitish", "",
		"Branch or commit to release (default: from config)")
	releaseCmd.Flags().BoolVar(&releaseDraftFlag, "draft", false,
		"Create the GitHub release as a draft")
	releaseCmd.Flags().BoolVar(&releasePrereleaseFlag, "prerelease", false,
		"Mark the GitHub release as a prerelease")
	releaseCmd.Flags().BoolVar(&releaseSkeletonFlag, "skeleton", false,
		"Insert a fresh empty Unreleased section")
	releaseCmd.Flags().BoolVar(&releaseDryRunFlag, "dry-run", false,
		"Print the changelog body without releasing anything")
}

func runRelease(cmd *cobra.Command, releaseVersion string) error {
	opts := release.Options{
		ProjectDir:      releaseProjectDirFlag,
		ReleaseVersion:  releaseVersion,
		ChangelogFile:   changelogFile(),
		ManifestFile:    manifestFile(),
		DryRun:          releaseDryRunFlag,
		InsertSkeleton:  releaseSkeletonFlag || cfg.InsertSkeleton,
		Draft:           releaseDraftFlag || cfg.Release.Draft,
		Prerelease:      releasePrereleaseFlag || cfg.Release.Prerelease,
		ReleaseName:     firstNonEmpty(releaseNameFlag, cfg.Release.Name),
		TargetCommitish: firstNonEmpty(releaseTargetFlag, cfg.Release.TargetCommitish),
		Space:           firstNonEmpty(releaseSpaceFlag, cfg.Space),
		Project:         firstNonEmpty(releaseProjectFlag, cfg.Project),
		Remote:          firstNonEmpty(releaseRemoteFlag, cfg.Remote),
	}
	if cmd.Flags().Changed("git-tag-prefix") {
		opts.TagPrefix = releaseTagPrefixFlag
	} else {
		opts.TagPrefix = cfg.TagPrefix
	}
	if cfg.Timeout > 0 {
		opts.PushTimeout = time.Duration(cfg.Timeout) * time.Second
	}

	if opts.Space == "" {
		return errors.NewConfigError("no GitHub owner configured",
			"pass --space",
			"or set space in .pontos/config.yml")
	}

	if !git.IsRepository(opts.ProjectDir) {
		return errors.NewPrerequisiteError(
			fmt.Sprintf("%s is not a git repository", opts.ProjectDir),
			"run pontos inside a git checkout",
			"or pass --directory")
	}

	if !opts.DryRun {
		token, err := github.Token()
		if err != nil {
			return errors.Wrap(err, errors.Prerequisite,
				"export PONTOS_GITHUB_TOKEN or GITHUB_TOKEN",
				"or put the token in a .env file")
		}
		opts.Client = github.NewClient(token)
	}

	display := progress.NewDisplay(progress.DetectTerminalCapabilities())
	runner, err := release.NewRunner(opts, display)
	if err != nil {
		return errors.Wrap(err, errors.Argument)
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		runner.SetOutput(out)
	}

	if err := runner.Run(context.Background()); err != nil {
		if stderrors.Is(err, release.ErrNothingToRelease) {
			return NewExitError(ExitNothingToRelease)
		}
		return err
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
