package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check <recipe>",
	Short: "Verify that rendered sources match the lockfile",
	Long: `Re-renders the recipe sources with the lockfile's override_version and
compares them with the sources lockfile. Reports sources that were added
or removed since the lockfile was written.
Exit 0 if everything matches; exit non-zero on drift. Suitable for CI pipelines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(args[0])
		if err != nil {
			return err
		}
		path := resolveLockfile(eng.Config)

		result, err := eng.Check(cmd.Context(), args[0], path, engine.RenderOptions{})
		if errors.Is(err, fs.ErrNotExist) {
			errorf("no lockfile at %s, run 'recipe-compat render --write-lock' first", path)
			return err
		}
		if err != nil {
			return err
		}

		if result.Clean {
			info("All sources match the lockfile.")
			return nil
		}

		for _, r := range result.Added {
			info("  added     %s", r.URL())
			if r.SHA256 != "" {
				detail("sha256: %s", r.SHA256)
			}
		}
		for _, ls := range result.Removed {
			info("  removed   %s", ls.URL)
			if ls.SHA256 != "" {
				detail("sha256: %s", ls.SHA256)
			}
		}

		total := len(result.Added) + len(result.Removed)
		return fmt.Errorf("check failed: %d source(s) out of sync with %s", total, path)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
