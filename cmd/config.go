/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/chattran/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change translation settings",
	Long: fmt.Sprintf(`Show and change translation settings.

Keys: %s

Every key can be overridden with an environment variable, e.g.
%s_TARGET_LANGUAGE=German.`, strings.Join(settings.Keys, ", "), settings.EnvPrefix),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "file = %s\n", conf.Path())
		for _, key := range settings.Keys {
			value, err := conf.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		value, err := conf.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		return conf.Set(args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
