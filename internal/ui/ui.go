/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop form. The Fyne implementation is compiled with
// the "fyne" build tag; other builds get a stub that explains how to enable it.
package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"instructionbuilder/internal/config"
)

// Options configures the desktop UI.
type Options struct {
	Config config.AppConfig
}

// ErrNotBuilt is returned by Run in binaries built without the desktop form.
var ErrNotBuilt = errors.New("desktop UI not built into this binary")

// AppID is the Fyne application id; it also scopes the Preferences store.
const AppID = "io.github.instructionbuilder"

const helpText = `Autosave: your work is saved locally as you type.
PDF: use Export > Download PDF to share or print.
Custom Fields: add, duplicate and remove as needed. To reorder, delete and add again.
Tips: use headings for phases, bullets for parts and short sentences for clarity.

Good for guides, hobbies, DIY, team SOPs and checklists.`

const quickTips = "Use short steps and bullet lists.\nPut safety notes near the top.\nAdd custom fields for your niche."

// exportDir picks where the UI writes exports: the configured directory,
// else ~/Downloads when it exists, else the home directory, else ".".
func exportDir(cfg config.ExportConfig) string {
	if d := strings.TrimSpace(cfg.Dir); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	dl := filepath.Join(home, "Downloads")
	if st, err := os.Stat(dl); err == nil && st.IsDir() {
		return dl
	}
	return home
}
