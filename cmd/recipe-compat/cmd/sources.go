package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/node"
)

var sourcesAll bool

var sourcesCmd = &cobra.Command{
	Use:   "sources <recipe>",
	Short: "List the source urls of a recipe",
	Long: `Prints the first url of every source record found under source,
cache.source and outputs[].source. Selectors are not evaluated: both
branches of each conditional are listed and templates are left as written.

Use --all to print the full source records as YAML instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if sourcesAll {
			records, err := eng.Sources(args[0])
			if err != nil {
				return err
			}
			data, err := node.Marshal(node.Sequence(records))
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		urls, err := eng.URLs(args[0])
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(out, u)
		}
		return nil
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesAll, "all", false, "print full source records")
	rootCmd.AddCommand(sourcesCmd)
}
