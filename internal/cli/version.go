package cli

import (
	"github.com/spf13/cobra"

	"github.com/nichtsfrei/pontos/internal/errors"
	"github.com/nichtsfrei/pontos/internal/version"
)

var (
	manifestFileFlag string
	versionForceFlag bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show, verify, and update the project version",
}

var versionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current project version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vc, err := versionCommand(cmd)
		if err != nil {
			return err
		}
		return vc.Show()
	},
}

var versionVerifyCmd = &cobra.Command{
	Use:   "verify <version|current>",
	Short: "Verify the recorded version is consistent",
	Long: `Verify that the version file and the manifest agree and are in
normalized semantic version form. Passing "current" only checks
consistency; passing a version additionally checks it matches.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vc, err := versionCommand(cmd)
		if err != nil {
			return err
		}
		if err := vc.Verify(args[0]); err != nil {
			return errors.Wrap(err, errors.Runtime,
				"run 'pontos version update <version>' to fix the recorded version")
		}
		return nil
	},
}

var versionUpdateCmd = &cobra.Command{
	Use:   "update <version>",
	Short: "Set a new project version",
	Long: `Write a new version to the manifest and the version file it names.
Go version files are regenerated, plain files are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		newVersion := version.Strip(args[0])
		if !version.IsSemver(newVersion) {
			return errors.NewArgumentErrorWithUsage(
				"version "+args[0]+" is not a semantic version",
				"pontos version update <major>.<minor>.<patch>")
		}

		vc, err := versionCommand(cmd)
		if err != nil {
			return err
		}
		if _, err := vc.Update(newVersion, versionForceFlag); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.AddCommand(versionShowCmd)
	versionCmd.AddCommand(versionVerifyCmd)
	versionCmd.AddCommand(versionUpdateCmd)

	versionCmd.PersistentFlags().StringVar(&manifestFileFlag, "manifest-file", "",
		"Manifest file (default: from config, pontos.toml)")
	versionUpdateCmd.Flags().BoolVar(&versionForceFlag, "force", false,
		"Rewrite the version files even when the version is unchanged")
}

func manifestFile() string {
	if manifestFileFlag != "" {
		return manifestFileFlag
	}
	return cfg.ManifestFile
}

func versionCommand(cmd *cobra.Command) (*version.Command, error) {
	vc, err := version.NewCommand(manifestFile(), cmd.OutOrStdout())
	if err != nil {
		return nil, errors.Wrap(err, errors.Prerequisite,
			"create a pontos.toml with a [pontos.version] section",
			"or pass --manifest-file")
	}
	return vc, nil
}
