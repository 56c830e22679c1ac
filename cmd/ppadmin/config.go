package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change ppadmin settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting and where it can be overridden",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		printStatus("File", "%s", config.ConfigFilePath())
		for _, info := range config.ShowAll(cfg) {
			source := "$" + info.EnvVar
			if os.Getenv(info.EnvVar) != "" {
				source += " (active)"
			}
			fmt.Printf("  %-18s %-32s %s\n", colorize(colorBold, info.Key), info.Value, colorize(colorCyan, source))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting in the config file",
	Long: "Persist a setting in the config file.\n\nKeys: " + strings.Join(config.ValidKeys(), ", ") +
		"\nLog levels: " + strings.Join(config.LogLevels, ", "),
	Example: "  ppadmin config set api.base_url https://admin.example.com/api/v1\n  ppadmin config set list.page_size 25",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("%s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
