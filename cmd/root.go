// Package cmd implements the CLI commands for wikimirror using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/wikimirror/config"
	"github.com/gaurav-prasanna/wikimirror/logger"
)

var (
	flagVerbose    bool
	flagQuiet      bool
	flagConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "wikimirror",
	Short: "wikimirror — turn a Wikipedia article into a self-contained mirror page",
	Long: `wikimirror converts a Wikipedia article (URL or saved HTML file) into a
single HTML page where every link that leaves the article is intercepted
by a warning modal. With --offline, stylesheets, images and fonts are
embedded so the page works without network access.

Usage:
  wikimirror convert <url_or_file> [output_file] [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(flagVerbose)
		logger.SetQuiet(flagQuiet)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default: ~/.wikimirror/config.yaml)")
}

// configLoader honours --config, falling back to the home directory file.
func configLoader() (*config.Loader, error) {
	if flagConfigPath != "" {
		return config.NewLoaderWithPath(flagConfigPath), nil
	}
	return config.NewLoader()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
		os.Exit(1)
	}
}
