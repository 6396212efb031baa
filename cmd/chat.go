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
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/chattran/internal/chat"
	"github.com/valpere/chattran/internal/render"
)

var chatDirection string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Manage the chat transcript",
	Long: `Add, list, toggle and regenerate transcript messages.

New and regenerated messages are translated automatically when auto_mode
covers their direction.`,
}

var chatAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append a message to the transcript",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		direction, err := chat.ParseDirection(chatDirection)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx, appOptions{renderer: render.NewTerminal(cmd.OutOrStdout())})
		if err != nil {
			return err
		}
		defer a.Close()

		_, _, err = a.session.Add(ctx, direction, strings.Join(args, " "))
		return err
	},
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx, appOptions{renderer: render.NewTerminal(cmd.OutOrStdout())})
		if err != nil {
			return err
		}
		defer a.Close()

		if a.session.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Transcript is empty.")
			return nil
		}
		return a.session.RenderAll(ctx)
	},
}

var chatToggleCmd = &cobra.Command{
	Use:   "toggle <index>",
	Short: "Switch a message between its original and translated text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx, appOptions{renderer: render.NewTerminal(cmd.OutOrStdout())})
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.orch.Toggle(ctx, index)
		return err
	},
}

var chatRegenerateCmd = &cobra.Command{
	Use:   "regenerate <index> <text>",
	Short: "Replace the text of a message with a new version",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx, appOptions{renderer: render.NewTerminal(cmd.OutOrStdout())})
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.session.Regenerate(ctx, index, strings.Join(args[1:], " "))
		return err
	},
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all messages from the transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Transcript cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatAddCmd.Flags().StringVarP(&chatDirection, "direction", "d", "outbound", "Message direction (inbound, outbound)")

	chatCmd.AddCommand(chatAddCmd)
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatToggleCmd)
	chatCmd.AddCommand(chatRegenerateCmd)
	chatCmd.AddCommand(chatClearCmd)
}
