package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/recipe-compat/internal/logging"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath    string
	lockfilePath  string
	verbose       bool
	quiet         bool
	logLevel      string
	selectorFlags []string
	allowMissing  bool
	noInherit     bool
)

// logger is set up before every command runs.
var logger = slog.New(slog.DiscardHandler)

var rootCmd = &cobra.Command{
	Use:   "recipe-compat",
	Short: "Read conda recipes with if/then/else conditional lists",
	Long: `recipe-compat resolves the if/then/else conditional lists of conda
recipe files against a selector namespace, extracts their sources, and
renders every source url over the combinations of variant configuration
files. Rendered sources can be pinned in a lockfile and checked in CI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		if verbose && level == "" {
			level = "debug"
		}
		logger = logging.New(os.Stderr, level)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("recipe-compat %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
		fmt.Printf("  config:  v1\n")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: nearest recipe-compat.yaml above the recipe)")
	rootCmd.PersistentFlags().StringVar(&lockfilePath, "lockfile", "", "path to sources lockfile (default from config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or warn)")
	rootCmd.PersistentFlags().StringArrayVar(&selectorFlags, "selector", nil, "set a selector, name=true|false (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&allowMissing, "allow-missing-selectors", false, "treat undefined selectors as true")
	rootCmd.PersistentFlags().BoolVar(&noInherit, "no-inherit", false, "skip system and user config layers")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
