/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Command instructionbuilder edits and exports an instruction set. The "ui"
// subcommand opens the desktop form; every other subcommand works headless on
// the same persisted document.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"instructionbuilder/internal/config"
	"instructionbuilder/internal/crash"
	"instructionbuilder/internal/editor"
	applog "instructionbuilder/internal/log"
	"instructionbuilder/internal/storage"
	"instructionbuilder/internal/telemetry"
)

// cliApp holds the global flags and the configuration resolved from them.
type cliApp struct {
	configPath string
	backend    string
	dataDir    string
	ephemeral  bool

	cfg config.AppConfig
	kv  storage.KV
}

func newRootCmd() *cobra.Command {
	a := &cliApp{}
	root := &cobra.Command{
		Use:   "instructionbuilder",
		Short: "Build clear, printable instruction sets",
		Long: `instructionbuilder edits a single instruction document (title, summary,
difficulty, time, safety notes, steps, materials and custom fields) that is
saved locally after every change, and exports it to PDF or PNG.

Run "instructionbuilder ui" for the desktop form (build with -tags fyne).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: per-user config.yaml, or $"+config.EnvConfigFile+")")
	pf.StringVar(&a.backend, "backend", "", "storage backend: file, sqlite or prefs")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory for the saved document")
	pf.BoolVar(&a.ephemeral, "ephemeral", false, "keep the document in memory only")

	root.AddCommand(
		newVersionCmd(),
		newUICmd(a),
		newShowCmd(a),
		newSetCmd(a),
		newFieldCmd(a),
		newExportCmd(a),
		newClearCmd(a),
	)
	return root
}

func (a *cliApp) init(cmd *cobra.Command) error {
	var (
		cfg config.AppConfig
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// defaults are still usable
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.dataDir != "" {
		cfg.Storage.Dir = a.dataDir
	}
	if a.ephemeral {
		cfg.Storage.Backend = config.BackendPrefs
	}
	if cfg.Storage.Backend == config.BackendPrefs && a.kv == nil {
		a.kv = storage.NewMemoryKV()
	}
	applog.Init(applog.FromConfig(cfg.Logging))
	telemetry.SetDefault(telemetry.FromAppConfig(cfg.General))
	a.cfg = cfg
	return nil
}

// withEditor opens the configured store, loads the document and runs fn on an
// editor bound to that store. A panic inside fn produces a crash report plus an
// autosave of the document.
func (a *cliApp) withEditor(cmd *cobra.Command, fn func(*editor.Editor) error) error {
	l := applog.WithComponent("cli")
	st, err := storage.New(a.cfg.Storage, a.kv)
	if err != nil {
		return err
	}
	if c, ok := st.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	res := storage.Open(st)
	if res.Recovered {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", res.Notice)
	}

	var saveErr error
	ed := editor.New(res.Document,
		editor.WithStore(st),
		editor.WithLogger(l),
		editor.WithOnSaveError(func(err error) { saveErr = errors.Join(saveErr, err) }),
	)

	var dir string
	if a.cfg.Storage.Backend != config.BackendPrefs {
		dir, _ = a.cfg.Storage.ResolveDir()
	}
	defer crash.Recover(crash.Target{Dir: dir, Document: ed.Document})

	l.Debug("document loaded", slog.String("backend", a.cfg.Storage.Backend), slog.Int("fields", len(ed.Fields())))
	if err := fn(ed); err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("save document: %w", saveErr)
	}
	return nil
}

func main() {
	err := newRootCmd().Execute()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	telemetry.Shutdown(ctx)
	cancel()
	_ = applog.Close()
	if err != nil {
		os.Exit(1)
	}
}
