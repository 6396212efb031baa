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

	"github.com/spf13/cobra"

	"github.com/valpere/chattran/internal/settings"
	"github.com/valpere/chattran/internal/store"
)

var (
	historyLimit     int
	historyLang      string
	historyThreshold float64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the translation history",
	Long:  `List, search and clear the SQLite record of completed translations.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent translations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListHistory(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No translations recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tDIRECTION\tLANGUAGE\tPROFILE\tPRESET\tSOURCE\tTRANSLATION")
		for _, e := range entries {
			direction := string(e.Direction)
			if direction == "" {
				direction = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), direction, e.TargetLang,
				e.Profile, e.Preset, truncate(e.SourceText, 30), truncate(e.TranslatedText, 30))
		}
		return w.Flush()
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find past translations of similar text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		lang := historyLang
		if lang != "" {
			lang = settings.ResolveLanguage(lang)
		}

		matches, err := db.SearchHistory(context.Background(), args[0], lang, historyThreshold)
		if err != nil {
			return fmt.Errorf("failed to search history: %w", err)
		}
		return printMatches(cmd, matches)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearHistory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from translation history.\n", n)
		return nil
	},
}

func printMatches(cmd *cobra.Command, matches []store.HistoryMatch) error {
	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No similar translations found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tLANGUAGE\tSOURCE\tTRANSLATION")
	for _, m := range matches {
		fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n", m.Score, m.TargetLang, truncate(m.SourceText, 40), truncate(m.TranslatedText, 40))
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show")
	historySearchCmd.Flags().StringVarP(&historyLang, "lang", "l", "", "Only match translations into this language")
	historySearchCmd.Flags().Float64Var(&historyThreshold, "threshold", 0.8, "Minimum similarity (0-1)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyClearCmd)
}
