package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdkup/sdkup/internal/core"
	"github.com/sdkup/sdkup/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packages available in the catalog",
	Long: `List every package in the catalog, grouped by ecosystem.

Use --tag to restrict the output to one or more ecosystems:
  sdkup list --tag python,rust`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		cat, err := loadCatalog(cmd, d)
		if err != nil {
			return err
		}

		sel := core.NewSelection(cat)
		if tagFilter, _ := cmd.Flags().GetStringSlice("tag"); len(tagFilter) > 0 {
			if err := restrictToTags(sel, tagFilter); err != nil {
				return err
			}
		}

		ui.CatalogTable(sel.VisibleTags())
		ui.Info("%d packages, %d ecosystems", len(sel.VisiblePackages()), sel.ActiveCount())
		return nil
	},
}

// restrictToTags deactivates every tag not named in the filter.
func restrictToTags(sel *core.Selection, wanted []string) error {
	keep := make(map[string]bool, len(wanted))
	for _, key := range wanted {
		keep[key] = true
	}

	for _, tv := range sel.VisibleTags() {
		if keep[tv.Key] {
			delete(keep, tv.Key)
			continue
		}
		if err := sel.ToggleTag(tv.Key); err != nil {
			return err
		}
	}

	for key := range keep {
		return fmt.Errorf("unknown tag %q", key)
	}
	return nil
}

func init() {
	listCmd.Flags().StringSlice("tag", nil, "Only show these ecosystems (comma-separated keys)")
	rootCmd.AddCommand(listCmd)
}
