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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage prompt presets",
	Long: `List, add, edit and select the prompt presets used to build translation
requests. Prompts use the {{language}} and {{targetmessage}} placeholders.`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		c := conf.Snapshot()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tSELECTED\tNAME\tPROMPT")
		for i, p := range c.Presets {
			selected := ""
			if i == c.SelectedPreset {
				selected = "*"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, selected, p.Name, truncate(p.Prompt, 50))
		}
		return w.Flush()
	},
}

var presetAddCmd = &cobra.Command{
	Use:   "add <name> [prompt]",
	Short: "Add a preset and select it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		prompt := ""
		if len(args) == 2 {
			prompt = args[1]
		}
		index, err := conf.AddPreset(args[0], prompt)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added preset %d: %s\n", index, args[0])
		return nil
	},
}

var presetRenameCmd = &cobra.Command{
	Use:   "rename <index> <name>",
	Short: "Rename a preset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		conf, err := openSettings()
		if err != nil {
			return err
		}
		return conf.RenamePreset(index, args[1])
	},
}

var presetSetPromptCmd = &cobra.Command{
	Use:   "set-prompt <index> <prompt>",
	Short: "Replace the prompt template of a preset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		conf, err := openSettings()
		if err != nil {
			return err
		}
		return conf.SetPresetPrompt(index, args[1])
	},
}

var presetRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		conf, err := openSettings()
		if err != nil {
			return err
		}
		if err := conf.RemovePreset(index); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed preset %d\n", index)
		return nil
	},
}

var presetSelectCmd = &cobra.Command{
	Use:   "select <index>",
	Short: "Select the preset used for translations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		conf, err := openSettings()
		if err != nil {
			return err
		}
		return conf.SelectPreset(index)
	},
}

var presetExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write presets as YAML to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return conf.ExportPresets(cmd.OutOrStdout())
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		if err := conf.ExportPresets(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

var presetImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace presets with the ones in a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		if err := conf.ImportPresets(f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d presets\n", len(conf.Snapshot().Presets))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetAddCmd)
	presetCmd.AddCommand(presetRenameCmd)
	presetCmd.AddCommand(presetSetPromptCmd)
	presetCmd.AddCommand(presetRemoveCmd)
	presetCmd.AddCommand(presetSelectCmd)
	presetCmd.AddCommand(presetExportCmd)
	presetCmd.AddCommand(presetImportCmd)
}
