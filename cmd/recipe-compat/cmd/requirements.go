package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/node"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements <recipe>",
	Short: "Print the resolved requirements of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := parseSelectors(selectorFlags)
		if err != nil {
			return err
		}
		eng, err := newEngine(args[0])
		if err != nil {
			return err
		}
		sections, err := eng.Requirements(args[0], extra)
		if err != nil {
			return err
		}

		m := node.NewMapping()
		for _, s := range sections {
			m.Set(s.Name, node.Sequence(s.Entries))
		}
		data, err := node.Marshal(m)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var testsCmd = &cobra.Command{
	Use:   "tests <recipe>",
	Short: "Print the resolved tests of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := parseSelectors(selectorFlags)
		if err != nil {
			return err
		}
		eng, err := newEngine(args[0])
		if err != nil {
			return err
		}
		tests, err := eng.Tests(args[0], extra)
		if err != nil {
			return err
		}
		if len(tests) == 0 {
			info("No tests.")
			return nil
		}
		data, err := node.Marshal(node.Sequence(tests))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
	rootCmd.AddCommand(testsCmd)
}
