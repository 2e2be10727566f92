package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/node"
)

var loadFormat string

var loadCmd = &cobra.Command{
	Use:   "load <recipe>",
	Short: "Resolve a recipe and print the normalized tree",
	Long: `Loads the recipe, resolves every if/then/else conditional against the
selector namespace (config selectors and target_platform, overlaid with
--selector flags), removes empty keys, flattens nested lists and prints
the result.

With --allow-missing-selectors, undefined selector names are treated as
true instead of failing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := parseSelectors(selectorFlags)
		if err != nil {
			return err
		}
		eng, err := newEngine(args[0])
		if err != nil {
			return err
		}

		res, err := eng.Load(args[0], extra)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if loadFormat == "json" {
			return writeOutput(out, loadFormat, node.ToAny(res.Tree))
		}
		data, err := node.Marshal(res.Tree)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(loadCmd)
}
