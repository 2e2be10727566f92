package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/config"
	"github.com/bianoble/recipe-compat/internal/engine"
	"github.com/bianoble/recipe-compat/internal/lock"
)

var (
	renderVariants        []string
	renderOverrideVersion string
	renderWriteLock       bool
	renderFormat          string
)

var renderCmd = &cobra.Command{
	Use:   "render <recipe>",
	Short: "Render recipe sources over variant combinations",
	Long: `Expands every variant file into its combinations (honoring zip_keys),
renders the context section and each source url, sha256 and md5 per
combination, and prints the distinct sources.

Variant files come from --variants globs, or the config's variants
patterns. Without any, the recipe renders once with an empty combination.

Use --write-lock to save the result as the sources lockfile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(args[0])
		if err != nil {
			return err
		}

		files, err := config.ExpandGlobs(renderVariants)
		if err != nil {
			return err
		}

		res, err := eng.Render(cmd.Context(), args[0], engine.RenderOptions{
			VariantFiles:    files,
			OverrideVersion: renderOverrideVersion,
		})
		if err != nil {
			return err
		}
		for _, f := range res.VariantFiles {
			detail("variant file %s", f)
		}

		if renderWriteLock {
			path := resolveLockfile(eng.Config)
			if err := eng.WriteLock(args[0], path, res); err != nil {
				return err
			}
			info("Locked %d source(s) in %s", res.Sources.Len(), path)
			return nil
		}

		lf := lock.New(args[0], res.OverrideVersion, res.Sources)
		return writeOutput(cmd.OutOrStdout(), renderFormat, lf.Sources)
	},
}

func init() {
	renderCmd.Flags().StringArrayVar(&renderVariants, "variants", nil, "variant file glob (repeatable, overrides config)")
	renderCmd.Flags().StringVar(&renderOverrideVersion, "override-version", "", "replace context.version before rendering")
	renderCmd.Flags().BoolVar(&renderWriteLock, "write-lock", false, "write the sources lockfile instead of printing")
	renderCmd.Flags().StringVar(&renderFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(renderCmd)
}
