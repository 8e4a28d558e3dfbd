package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tvm/core/ui"
	"tvm/internal/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the settings file",
		Long: `Inspect and create the settings file.

Settings are read from ` + config.DefaultPath() + ` unless --config
names another file. TVM_FREQUENCY, TVM_TIMING, TVM_CURRENCY, TVM_PRECISION,
TVM_LOG_LEVEL and TVM_LOG_FORMAT override the file, and may also be set in a
.env file in the working directory.`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(config.Get())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := settingsPath(g)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				ui.NewWriter(cmd.ErrOrStderr(), g.noColor || !config.Get().Color).
					Info("no settings file yet; tvm config init creates one")
			}
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			ui.NewWriter(cmd.OutOrStdout(), g.noColor || !config.Get().Color).Success("wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")

	configCmd.AddCommand(showCmd, pathCmd, initCmd)
	return configCmd
}

func settingsPath(g *globalOptions) string {
	if g.cfgFile != "" {
		return g.cfgFile
	}
	return config.Discover()
}
