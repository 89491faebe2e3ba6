package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sdkup/sdkup/internal/core"
	"github.com/sdkup/sdkup/internal/ui"
)

// resolveTargetDir resolves the install directory: --dir flag, then the
// settings file, then the built-in default. A leading ~ is expanded.
func resolveTargetDir(cmd *cobra.Command, d *deps) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = d.settings.TargetDir
	}
	return core.ExpandPath(dir), nil
}

// resolveCatalogPath resolves the catalog source: --catalog flag, then
// the settings file. Empty means the embedded catalog.
func resolveCatalogPath(cmd *cobra.Command, d *deps) string {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = d.settings.Catalog
	}
	if path == "" {
		return ""
	}
	return core.ExpandPath(path)
}

// loadCatalog loads the resolved catalog and prints any advisory
// warnings. Warnings never fail the command.
func loadCatalog(cmd *cobra.Command, d *deps) (*core.Catalog, error) {
	path := resolveCatalogPath(cmd, d)

	var cat *core.Catalog
	var err error
	if path != "" {
		cat, err = core.LoadCatalog(path)
	} else {
		cat, err = core.DefaultCatalog()
	}
	if err != nil {
		return nil, err
	}

	for _, w := range cat.Warnings() {
		ui.Warning("%s", w)
	}
	return cat, nil
}

// newInstaller builds an installer honoring the settings' clone URL
// overrides, writing process output to out.
func newInstaller(d *deps, out io.Writer) *core.Installer {
	inst := core.NewInstaller(out)
	inst.Overrides = d.settings.CloneURLOverrides
	return inst
}
