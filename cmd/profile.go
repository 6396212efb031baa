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
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/chattran/internal/translator"
)

var (
	profileProvider string
	profileBaseURL  string
	profileModel    string
	profileAPIKey   string
	profileTimeout  time.Duration
	profileUse      bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage backend connection profiles",
	Long: `A connection profile names a backend (provider, base URL, model and
credentials). The active profile serves every translation.

Available providers:
  - ollama      Ollama LLM (self-hosted)
  - openai      OpenAI or any OpenAI-compatible API (requires API key)
  - openrouter  OpenRouter LLM (requires API key)`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		c := conf.Snapshot()

		if len(c.Profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No connection profiles configured.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ACTIVE\tID\tPROVIDER\tMODEL\tBASE URL\tTIMEOUT")
		for _, p := range c.Profiles {
			active := ""
			if p.ID == c.ConnectionProfile {
				active = "*"
			}
			timeout := "-"
			if p.Timeout > 0 {
				timeout = p.Timeout.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", active, p.ID, p.Provider, p.Model, p.BaseURL, timeout)
		}
		return w.Flush()
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or replace a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}

		err = conf.PutProfile(translator.Profile{
			ID:       args[0],
			Provider: profileProvider,
			BaseURL:  profileBaseURL,
			Model:    profileModel,
			APIKey:   profileAPIKey,
			Timeout:  profileTimeout,
		})
		if err != nil {
			return err
		}

		if profileUse || conf.Snapshot().ConnectionProfile == "" {
			if err := conf.UseProfile(args[0]); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", args[0])
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		return conf.RemoveProfile(args[0])
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		return conf.UseProfile(args[0])
	},
}

var profileCheckCmd = &cobra.Command{
	Use:   "check [id]",
	Short: "Check that a profile's backend is reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := openSettings()
		if err != nil {
			return err
		}
		logger, err := newLogger(logLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		id := conf.Snapshot().ConnectionProfile
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" {
			return fmt.Errorf("no connection profile selected")
		}

		router := translator.NewRouter(conf, logger)
		if err := router.Check(context.Background(), id); err != nil {
			return fmt.Errorf("profile %s is not available: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile %s is available\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileAddCmd.Flags().StringVarP(&profileProvider, "provider", "p", "ollama", "Backend provider (ollama, openai, openrouter)")
	profileAddCmd.Flags().StringVar(&profileBaseURL, "base-url", "", "Backend base URL (provider default if empty)")
	profileAddCmd.Flags().StringVarP(&profileModel, "model", "m", "", "Model name (provider default if empty)")
	profileAddCmd.Flags().StringVar(&profileAPIKey, "api-key", "", "API key")
	profileAddCmd.Flags().DurationVar(&profileTimeout, "timeout", 0, "Request timeout (e.g. 60s); none if zero")
	profileAddCmd.Flags().BoolVar(&profileUse, "use", false, "Make this the active profile")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileCheckCmd)
}
