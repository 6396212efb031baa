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
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/valpere/chattran/internal/settings"
)

var version = "0.3.0"

var (
	configPath string
	dbPath     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "chattran",
	Short: "Chat transcript translator",
	Long: `A CLI application that translates chat messages with a language model.

Inbound messages show the translation while keeping their original text;
outbound messages are replaced by the translation. Either can be toggled back.

Supported backends: Ollama, OpenAI-compatible APIs, OpenRouter

Use "chattran profile add --help" to configure a backend.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default is $XDG_CONFIG_HOME/chattran/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/chattran.db", "Database path for the transcript and translation history")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr(settings.EnvPrefix+"_LOG_LEVEL", "warn"), "Log level (debug, info, warn, error)")
}

// newLogger builds a production logger writing to stderr at level.
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
