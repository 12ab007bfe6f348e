package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// secretKeys are settings never echoed by config show.
var secretKeys = []string{"runs-db-connect"}

// configFilePath returns --config, the config file viper found, or
// .githeat.yaml in the working directory.
func configFilePath() (string, error) {
	if err := loadConfigFile(); err != nil {
		return "", err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	return contract.ConfigFileName, nil
}

// configCmd manages the config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the githeat config file",
	Long: `Inspect and edit the config file (` + contract.ConfigFileName + ` in the current directory, then $HOME, or --config).

Subcommands:
  show        - Print the effective settings
  add-repo    - Add a repository to the "repositories" list
  remove-repo - Remove a repository from the "repositories" list
  init        - Write a default config file`,
}

// configShowCmd prints the effective settings.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file location and effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		settings := viper.AllSettings()
		for _, key := range secretKeys {
			if v, ok := settings[key]; ok && v != "" {
				settings[key] = "********"
			}
		}
		delete(settings, "config")

		out, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("cannot render settings: %w", err)
		}
		if _, statErr := os.Stat(path); statErr != nil {
			cmd.Printf("# %s not found, showing defaults\n", path)
		} else {
			cmd.Printf("# %s\n", path)
		}
		cmd.Print(string(out))
		return nil
	},
}

// configAddRepoCmd adds a repository to the config file.
var configAddRepoCmd = &cobra.Command{
	Use:   "add-repo <path>",
	Short: "Add a repository to the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		added, err := contract.AddRepository(path, args[0])
		if err != nil {
			return fmt.Errorf("cannot add repository: %w", err)
		}
		if !added {
			cmd.Printf("Repository %s is already configured in %s\n", args[0], path)
			return nil
		}
		cmd.Printf("Added %s to %s\n", args[0], path)
		return nil
	},
}

// configRemoveRepoCmd removes a repository from the config file.
var configRemoveRepoCmd = &cobra.Command{
	Use:   "remove-repo <path>",
	Short: "Remove a repository from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		removed, err := contract.RemoveRepository(path, args[0])
		if err != nil {
			return fmt.Errorf("cannot remove repository: %w", err)
		}
		if !removed {
			cmd.Printf("Repository %s is not configured in %s\n", args[0], path)
			return nil
		}
		cmd.Printf("Removed %s from %s\n", args[0], path)
		return nil
	},
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := viper.GetString("config")
		if path == "" {
			path = contract.ConfigFileName
		}
		if err := contract.InitConfigFile(path, viper.GetBool("force")); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}
