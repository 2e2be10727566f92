package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var variantsCmd = &cobra.Command{
	Use:   "variants [file...]",
	Short: "Print the combinations of variant files",
	Long: `Expands each variant file into its combinations: the cartesian product
of its list-valued keys, with keys grouped under zip_keys advancing
together. Without arguments the config's variants patterns are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine("")
		if err != nil {
			return err
		}
		combs, err := eng.Combinations(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range combs {
			fmt.Fprintln(out, c.String())
		}
		detail("%d combination(s)", len(combs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}
