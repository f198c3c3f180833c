/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"instructionbuilder/internal/config"
	"instructionbuilder/internal/domain"
	applog "instructionbuilder/internal/log"
)

// RecordKey names the persisted record in every backend.
const RecordKey = "instruction_builder_v1"

var (
	// ErrNotFound means no record has been saved yet (or it was cleared).
	ErrNotFound = errors.New("no saved document")
	// ErrCorrupt wraps records that cannot be read, parsed or validated.
	ErrCorrupt = errors.New("saved document is corrupt")
	// ErrRestored marks a Load that succeeded only by falling back to a backup.
	ErrRestored = errors.New("saved document restored from backup")
)

// Store loads, saves and clears the single persisted document.
type Store interface {
	Load() (domain.Document, error)
	Save(domain.Document) error
	Clear() error
}

// LoadResult is the outcome of the startup load.
// Recovered is set when the stored record could not be used as-is; Notice then
// carries a message suitable for showing to the user.
type LoadResult struct {
	Document  domain.Document
	Recovered bool
	Notice    string
	Err       error
}

// Open performs the startup load. It never fails: an absent record yields the
// default document, an unusable one yields the default document plus a notice.
func Open(s Store) LoadResult {
	l := applog.WithOperation(applog.WithComponent("storage"), "open")
	if s == nil {
		return LoadResult{Document: domain.Default()}
	}
	doc, err := s.Load()
	switch {
	case err == nil:
		return LoadResult{Document: doc}
	case errors.Is(err, ErrNotFound):
		l.Debug("no saved document, starting from defaults")
		return LoadResult{Document: domain.Default()}
	case errors.Is(err, ErrRestored):
		l.Warn("saved document restored from backup", slog.Any("err", err))
		return LoadResult{
			Document:  doc,
			Recovered: true,
			Notice:    "Your saved instructions were damaged and have been restored from the most recent backup.",
			Err:       err,
		}
	default:
		l.Warn("saved document unusable, resetting to defaults", slog.Any("err", err))
		return LoadResult{
			Document:  domain.Default(),
			Recovered: true,
			Notice:    "Your saved instructions could not be read and were reset to defaults.",
			Err:       err,
		}
	}
}

// New builds the Store selected by cfg. kv is only used by the prefs backend;
// when it is nil an in-memory map is used instead.
func New(cfg config.StorageConfig, kv KV) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = config.BackendFile
	}
	switch backend {
	case config.BackendPrefs:
		if kv == nil {
			kv = NewMemoryKV()
		}
		return NewKVStore(kv), nil
	case config.BackendFile, config.BackendSQLite:
		dir, err := cfg.ResolveDir()
		if err != nil {
			return nil, fmt.Errorf("resolve storage dir: %w", err)
		}
		if backend == config.BackendSQLite {
			return OpenSQLite(dir)
		}
		return NewFileStore(dir, cfg.MaxBackups), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
