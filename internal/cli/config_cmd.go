package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockfix/stockfix/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

// newConfigInitCmd writes a starter stockfix.yaml with default values.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Example: `  # Create stockfix.yaml in the working directory
  stockfix config init

  # Overwrite an existing file
  stockfix config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigFile
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			cmd.Printf("Configuration initialized at %s\n", path)
			cmd.Printf("Set %s in the environment before running plan or apply\n", config.EnvOdooPassword)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	return cmd
}

// newConfigValidateCmd checks the effective configuration, connection
// settings included.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Global()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ValidateConnection(); err != nil {
				return err
			}
			cmd.Println("Configuration is valid")
			return nil
		},
	}
}
