package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdkup/sdkup/internal/tui"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sdkup",
	Short: "Pick and install agent-development SDKs from a curated catalog",
	Long: `sdkup clones agent-development SDKs from their git repositories and
runs each one's install steps.

Run without arguments for the interactive picker: filter the catalog by
ecosystem, choose packages, and watch the install run. Use the install
and list subcommands for scripted, non-interactive use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		targetDir, err := resolveTargetDir(cmd, d)
		if err != nil {
			return err
		}

		return tui.Run(tui.Options{
			CatalogPath: resolveCatalogPath(cmd, d),
			TargetDir:   targetDir,
			Overrides:   d.settings.CloneURLOverrides,
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sdkup %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "", "Path to a catalog file replacing the embedded one")
	rootCmd.Flags().String("dir", "", "Directory to install packages into")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
