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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/chattran/internal/orchestrator"
	"github.com/valpere/chattran/internal/server"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transcript and translations over HTTP",
	Long: `Start an HTTP server exposing the transcript, manual toggles, the
translate command and the current settings as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var a *app
		notifier := orchestrator.NotifierFunc(func(ctx context.Context, err error) {
			a.logger.Warnw("Translation request failed", "error", err)
		})

		a, err := openApp(ctx, appOptions{notifier: notifier})
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Options{
			Transcript:     a.session,
			Translator:     a.orch,
			Renders:        a.renders,
			Config:         a.settings,
			Logger:         a.logger,
			AllowedOrigins: serveOrigins,
		})

		if err := a.session.RenderAll(ctx); err != nil {
			return err
		}
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origins", nil, "Allowed CORS origins (any if empty)")
}
