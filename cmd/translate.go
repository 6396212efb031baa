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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/chattran/internal/orchestrator"
	"github.com/valpere/chattran/internal/render"
)

var (
	translateLang  string
	translateInput string
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text or the latest chat message",
	Long: `Translate the given text to the target language and print the result.

Without text, the latest message of the transcript is translated in place.
--lang overrides the target language for this call only; it accepts names
("Japanese") and BCP 47 codes ("ja").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if translateInput != "" {
			data, err := os.ReadFile(translateInput)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(data)
		}

		ctx := context.Background()
		a, err := openApp(ctx, appOptions{renderer: render.NewTerminal(cmd.OutOrStdout())})
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.orch.RunCommand(ctx, orchestrator.CommandArgs{Language: translateLang, Text: text})
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) != "" && out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&translateLang, "lang", "l", "", "Target language for this call only")
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "Read the text to translate from a file")
}
