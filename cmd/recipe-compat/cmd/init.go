package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/config"
)

var initForce bool

// initTemplate is the default recipe-compat.yaml scaffold.
const initTemplate = `# recipe-compat configuration
version: 1

# Selector namespace used by 'load', 'requirements' and 'tests'.
# Entries here win over the flags derived from target_platform.
selectors:
  unix: true

# Adds linux/osx/win, architecture and unix flags for a conda subdir.
target_platform: linux-64

# Treat selector names that are not defined as true.
allow_missing_selectors: false

# Variant configuration files used by 'render' and 'check',
# relative to this file.
variants:
  - .ci_support/*.yaml

# Replace context.version before rendering sources.
# override_version: "1.2.3"

# render:
#   concurrency: 4

lockfile: recipe-sources.lock
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter recipe-compat.yaml configuration",
	Long: `Creates a recipe-compat.yaml file in the current directory with a
commented template covering selectors, target_platform, variant files and
the sources lockfile.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if outPath == "" {
			outPath = config.FileName
		}
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Set target_platform and selectors for your build")
		info("  2. Run 'recipe-compat render recipe.yaml --write-lock' to pin sources")
		info("  3. Run 'recipe-compat check recipe.yaml' in CI")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
