package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/config"
	"github.com/bianoble/recipe-compat/internal/engine"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about recipe-compat configuration",
	Long: `Displays the recipe-compat version, the configuration chain, lockfile
path, target platform, the resolved selector namespace and the variant
files matched by the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hr, err := loadConfigHierarchical(".")
		if err != nil {
			errorf("%v", err)
		}
		cfg := config.Default()
		var layers []config.ConfigLayerInfo
		project := configPath
		if hr != nil {
			cfg = hr.Config
			layers = hr.Layers
			project = hr.ProjectPath
		}

		result, err := engine.Info(version, cfg, layers, project, resolveLockfile(cfg))
		if err != nil {
			return err
		}

		fmt.Printf("recipe-compat %s\n", result.Version)
		fmt.Printf("  config version: %d\n", result.ConfigVersion)

		if len(result.ConfigChain) > 1 {
			fmt.Println("  config chain:")
			for _, layer := range result.ConfigChain {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Printf("    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		} else {
			fmt.Printf("  config:         %s\n", orNone(result.ConfigPath))
		}

		fmt.Printf("  lockfile:       %s\n", result.LockPath)
		fmt.Printf("  platform:       %s\n", orNone(result.TargetPlatform))
		fmt.Printf("  allow missing:  %t\n", result.AllowMissing)

		if len(result.VariantFiles) > 0 {
			fmt.Println("\nVariant files:")
			for _, f := range result.VariantFiles {
				fmt.Printf("  %s\n", f)
			}
		}
		if len(result.Selectors) > 0 {
			fmt.Println("\nSelectors:")
			for _, s := range result.Selectors {
				fmt.Printf("  %s\n", s)
			}
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
