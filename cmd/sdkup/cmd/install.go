package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sdkup/sdkup/internal/core"
	"github.com/sdkup/sdkup/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install [name]...",
	Short: "Install packages from the catalog without the picker",
	Long: `Install the named catalog packages: clone each one from its git
repository into the target directory and run its install steps.

Each package succeeds or fails on its own; a failure never aborts the
rest of the batch, and the command exits 0 as long as the run itself
could start. Interrupting with ctrl+c stops between packages, after the
one in flight completes.

A package whose directory already holds a matching clone is skipped
unless --update is given. With neither --update nor --skip-existing,
sdkup asks per package when run on a terminal and skips otherwise.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if len(args) == 0 && !all {
			return fmt.Errorf("name at least one package, or pass --all")
		}

		update, _ := cmd.Flags().GetBool("update")
		skipExisting, _ := cmd.Flags().GetBool("skip-existing")
		if update && skipExisting {
			return fmt.Errorf("--update and --skip-existing are mutually exclusive")
		}

		d, err := newDeps()
		if err != nil {
			return err
		}

		cat, err := loadCatalog(cmd, d)
		if err != nil {
			return err
		}

		targetDir, err := resolveTargetDir(cmd, d)
		if err != nil {
			return err
		}

		session := core.NewSession()
		if err := session.Begin(cat, targetDir); err != nil {
			return err
		}

		if all {
			session.Selection.SelectAllVisible()
		}
		for _, name := range args {
			pkg, ok := cat.FindPackage(name)
			if !ok {
				return fmt.Errorf("package %q is not in the catalog", name)
			}
			if session.Selection.IsChosen(pkg.Name) {
				continue
			}
			if err := session.Selection.TogglePackage(pkg.Name); err != nil {
				return err
			}
		}

		inst := newInstaller(d, os.Stdout)
		inst.SkipSteps, _ = cmd.Flags().GetBool("only-clone")

		decide := resolveDecide(update, skipExisting)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report := session.RunBatch(ctx, inst, decide, core.BatchEvents{
			OnStart: func(pkg core.Package, index, total int) {
				ui.Header(fmt.Sprintf("%s (%d/%d)", pkg.Name, index+1, total))
			},
			OnDone: func(res core.PackageResult) {
				switch res.Outcome {
				case core.OutcomeSucceeded:
					ui.Success("%s installed", res.Package.Name)
				case core.OutcomeSkipped:
					ui.Info("%s already present, skipped", res.Package.Name)
				case core.OutcomeFailed:
					ui.Error("%s failed: %v", res.Package.Name, res.Err)
				}
			},
		})

		if ctx.Err() != nil {
			ui.Warning("Interrupted, remaining packages were not installed")
		}

		ui.Report(report)
		return nil
	},
}

// resolveDecide maps the update flags to a per-package decision. With
// neither flag, a terminal gets a prompt and anything else skips.
func resolveDecide(update, skipExisting bool) core.DecideUpdate {
	switch {
	case update:
		return func(core.Package, string) bool { return true }
	case skipExisting:
		return nil
	case !ui.IsTTY():
		return nil
	}

	return func(pkg core.Package, path string) bool {
		answer, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(false).
			Show(fmt.Sprintf("%s already exists at %s. Pull latest and rerun its steps?", pkg.Name, path))
		if err != nil {
			return false
		}
		return answer
	}
}

func init() {
	installCmd.Flags().String("dir", "", "Directory to install packages into")
	installCmd.Flags().Bool("all", false, "Install every package in the catalog")
	installCmd.Flags().Bool("update", false, "Pull latest changes for packages that are already cloned")
	installCmd.Flags().Bool("skip-existing", false, "Never touch packages that are already cloned")
	installCmd.Flags().Bool("only-clone", false, "Clone repositories but skip their install steps")
	rootCmd.AddCommand(installCmd)
}
