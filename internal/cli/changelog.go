package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nichtsfrei/pontos/internal/changelog"
	"github.com/nichtsfrei/pontos/internal/errors"
)

var (
	changelogFileFlag      string
	containingVersionFlag  string
	releaseVersionFlag     string
	changelogTagPrefixFlag string
	changelogSpaceFlag     string
	changelogProjectFlag   string
	changelogSkeletonFlag  bool
	changelogDryRunFlag    bool
	changelogShowLinesFlag bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Inspect and rewrite Keep a Changelog files",
}

var changelogExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the current Unreleased section",
	Long: `Print the body of the Unreleased section of the changelog.

The section starts at the first heading containing the word "unreleased"
(any casing) and ends before the next heading of the same or shallower
depth.

Examples:
  pontos changelog extract
  pontos changelog extract --containing-version 22.4
  pontos changelog extract --lines`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogExtract(cmd)
	},
}

var changelogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Turn the Unreleased section into a release entry",
	Long: `Rewrite the changelog for a release.

The Unreleased heading is renamed to the release version with today's
date, and the [Unreleased] comparison link is re-pointed at the release
tag. With --skeleton a fresh empty Unreleased section is inserted ahead
of the new entry.

Examples:
  pontos changelog update --release-version 1.2.3
  pontos changelog update --release-version 1.2.3 --skeleton
  pontos changelog update --release-version 1.2.3 --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogUpdate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogExtractCmd)
	changelogCmd.AddCommand(changelogUpdateCmd)

	changelogCmd.PersistentFlags().StringVar(&changelogFileFlag, "changelog-file", "",
		"Changelog file (default: from config, CHANGELOG.md)")
	changelogCmd.PersistentFlags().StringVar(&containingVersionFlag, "containing-version", "",
		"Only match an Unreleased heading containing this version")

	changelogExtractCmd.Flags().BoolVar(&changelogShowLinesFlag, "lines", false,
		"Also print the line range of the section")

	changelogUpdateCmd.Flags().StringVar(&releaseVersionFlag, "release-version", "",
		"Version the Unreleased section is released as")
	changelogUpdateCmd.Flags().StringVar(&changelogTagPrefixFlag, "git-tag-prefix", "",
		"Tag prefix for comparison links (default: from config)")
	changelogUpdateCmd.Flags().StringVar(&changelogSpaceFlag, "space", "",
		"GitHub owner for comparison links (default: from config)")
	changelogUpdateCmd.Flags().StringVar(&changelogProjectFlag, "project", "",
		"GitHub repository for comparison links (default: from config)")
	changelogUpdateCmd.Flags().BoolVar(&changelogSkeletonFlag, "skeleton", false,
		"Insert a fresh empty Unreleased section")
	changelogUpdateCmd.Flags().BoolVar(&changelogDryRunFlag, "dry-run", false,
		"Print the result without writing the changelog")
}

func changelogFile() string {
	if changelogFileFlag != "" {
		return changelogFileFlag
	}
	return cfg.ChangelogFile
}

func runChangelogExtract(cmd *cobra.Command) error {
	doc, err := os.ReadFile(changelogFile())
	if err != nil {
		return errors.Wrap(err, errors.Prerequisite,
			"run pontos from the project root",
			"or pass --changelog-file")
	}

	start, end, body, err := changelog.NewParser(string(doc)).FindUnreleased(containingVersionFlag)
	if err != nil {
		var notFound *changelog.NoUnreleasedError
		if stderrors.As(err, &notFound) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No unreleased section found.")
			return NewExitError(ExitNothingToRelease)
		}
		return err
	}

	if changelogShowLinesFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "Lines %d-%d\n\n", start, end)
	}
	fmt.Fprintln(cmd.OutOrStdout(), body)
	return nil
}

func runChangelogUpdate(cmd *cobra.Command) error {
	if releaseVersionFlag == "" {
		return errors.NewArgumentErrorWithUsage(
			"no release version given",
			"pontos changelog update --release-version <version>",
			"pass --release-version with the version to release")
	}

	tagPrefix := changelogTagPrefixFlag
	if !cmd.Flags().Changed("git-tag-prefix") {
		tagPrefix = cfg.TagPrefix
	}
	space := changelogSpaceFlag
	if space == "" {
		space = cfg.Space
	}
	project := changelogProjectFlag
	if project == "" {
		project = cfg.Project
	}
	insertSkeleton := changelogSkeletonFlag || cfg.InsertSkeleton
	if insertSkeleton && (space == "" || project == "") {
		return errors.NewConfigError(
			"--skeleton needs a GitHub owner and repository for the comparison link",
			"pass --space and --project",
			"or set space and project in .pontos/config.yml")
	}

	path := changelogFile()
	doc, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.Prerequisite,
			"run pontos from the project root",
			"or pass --changelog-file")
	}

	result := changelog.NewParser(string(doc)).Update(changelog.UpdateOptions{
		NewVersion:        releaseVersionFlag,
		ContainingVersion: containingVersionFlag,
		TagPrefix:         tagPrefix,
		InsertSkeleton:    insertSkeleton,
		CompareBase:       fmt.Sprintf("https://github.com/%s/%s", space, project),
	})
	if !result.Released() {
		fmt.Fprintln(cmd.ErrOrStderr(), "No unreleased section found.")
		return NewExitError(ExitNothingToRelease)
	}

	if changelogDryRunFlag {
		fmt.Fprintln(cmd.OutOrStdout(), result.ChangelogBody)
		return nil
	}

	if err := os.WriteFile(path, []byte(result.Updated), 0o644); err != nil {
		return errors.NewRuntimeError(fmt.Sprintf("writing %s: %v", path, err),
			"check the file permissions")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s for release %s\n", path, releaseVersionFlag)
	return nil
}
