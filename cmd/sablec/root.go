package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sablelang/sablec/internal/config"
	"github.com/sablelang/sablec/internal/xlog"
	"github.com/spf13/cobra"
)

var (
	// Version info, set by ldflags during build.
	Version = "dev"
	Commit  = "unknown"

	configPath string
	moduleRoot string
	logLevel   string

	bold = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "sablec",
	Short:   "Compiler core for the Sable language",
	Version: Version,
	Long: bold("sablec") + ` drives the Sable compiler core: identity-stable text/
binary sync, type checking and concurrency analysis, DI wiring, and
lowering to the low-level register IR. It reads and writes the binary
AST file format; source parsing is an external collaborator's job.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := config.Default()
		if configPath != "" {
			loaded, err := config.LoadOptions(configPath)
			if err != nil {
				return err
			}
			opts = loaded
		}
		if logLevel != "" {
			opts.LogLevel = logLevel
		}
		lvl, err := xlog.ParseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		xlog.Default.SetLevel(lvl)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("sablec version {{.Version}}\ncommit: %s\n", Commit))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a sablec.yaml options file")
	rootCmd.PersistentFlags().StringVar(&moduleRoot, "module-root", ".", "directory binary AST modules are loaded from")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug|info|warn|error)")
}

func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", color.RedString("error"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
