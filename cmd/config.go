package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/wikimirror/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage wikimirror configuration.

Config file location: ~/.wikimirror/config.yaml (override with --config)

Subcommands:
  show    Print the effective configuration
  init    Write a default config file
  path    Print the config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := configLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := configLoader()
	if err != nil {
		return fmt.Errorf("initializing config loader: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if loader.Exists() {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: (defaults)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("printing config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := configLoader()
	if err != nil {
		return fmt.Errorf("initializing config loader: %w", err)
	}

	if loader.Exists() && !configForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", loader.ConfigPath())
	}
	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file created: %s\n", loader.ConfigPath())
	return nil
}
