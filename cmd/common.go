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
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/chattran/internal/events"
	"github.com/valpere/chattran/internal/orchestrator"
	"github.com/valpere/chattran/internal/render"
	"github.com/valpere/chattran/internal/session"
	"github.com/valpere/chattran/internal/settings"
	"github.com/valpere/chattran/internal/store"
	"github.com/valpere/chattran/internal/translator"
)

// app is the wired set of services behind a command.
type app struct {
	logger   *zap.SugaredLogger
	settings *settings.Settings
	store    *store.Store
	session  *session.Session
	router   *translator.Router
	orch     *orchestrator.Orchestrator
	renders  *render.Cache
}

type appOptions struct {
	// renderer receives every render in addition to the HTML cache.
	renderer render.Renderer
	notifier orchestrator.Notifier
}

// openApp loads settings, opens the database and wires the translation
// pipeline. Callers must Close the result.
func openApp(ctx context.Context, opts appOptions) (*app, error) {
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, err
	}

	conf, err := openSettings()
	if err != nil {
		return nil, err
	}

	db, err := openStore()
	if err != nil {
		return nil, err
	}

	cache := render.NewCache()
	renderer := render.Renderer(cache)
	if opts.renderer != nil {
		renderer = render.Multi{cache, opts.renderer}
	}

	bus := events.NewBus()
	sess, err := session.Open(ctx, db, session.Options{
		Renderer: renderer,
		Events:   bus,
		Logger:   logger,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	router := translator.NewRouter(conf, logger)
	orch := orchestrator.New(conf, router, sess, orchestrator.Options{
		Notifier: opts.notifier,
		History:  db,
		Logger:   logger,
	})
	orch.Subscribe(bus)

	return &app{
		logger:   logger,
		settings: conf,
		store:    db,
		session:  sess,
		router:   router,
		orch:     orch,
		renders:  cache,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Errorw("Failed to close database", "error", err)
	}
	_ = a.logger.Sync()
}

// openSettings loads the settings file named by --config or the default one.
func openSettings() (*settings.Settings, error) {
	path := configPath
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	conf, err := settings.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return conf, nil
}

func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}

// truncate shortens s to n runes on a single line for table output.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
