package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/pimonitor/internal/config"
	"github.com/Dicklesworthstone/pimonitor/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration pimonitor would run with, after merging the
system file, the user file, --config, PIMONITOR_* environment variables
and command-line flags.

Examples:
  pimonitor config
  PIMONITOR_DISPLAY_DRIVER=terminal pimonitor config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return printConfig(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func printConfig(cmd *cobra.Command, cfg *config.Config) error {
	for _, f := range cfg.Files {
		cmd.Printf("# merged %s\n", f)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode configuration",
			"Report this as a bug")
	}
	cmd.Print(string(out))
	return nil
}
