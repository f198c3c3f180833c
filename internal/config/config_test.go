/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	return p
}

func TestEnvOverridesStorage(t *testing.T) {
	isolate(t)
	t.Setenv(EnvStorageBackend, "SQLite")
	t.Setenv(EnvStorageDir, "/tmp/ib-data")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Dir != "/tmp/ib-data" {
		t.Fatalf("storage overrides not applied: %#v", cfg.Storage)
	}
	if name, ok := EnvOverrideFor("storage.backend"); !ok || name != EnvStorageBackend {
		t.Fatalf("EnvOverrideFor(storage.backend) = %q, %v", name, ok)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTelemetryOptIn, "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesExport(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Export: ExportConfig{Dir: " out ", PageSize: "LETTER", Scale: 3}}
	mergeInto(&dst, &src)
	if dst.Export.Dir != "out" || dst.Export.PageSize != "letter" || dst.Export.Scale != 3 {
		t.Fatalf("export fields not merged correctly: %#v", dst.Export)
	}
	// zero values in the file keep defaults
	if dst.Storage.Backend != BackendFile || dst.Storage.MaxBackups != 10 {
		t.Fatalf("storage defaults lost: %#v", dst.Storage)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/ib.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/ib.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/ib.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/ib.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := isolate(t)
	cfg := Defaults()
	cfg.Storage.Backend = BackendPrefs
	cfg.Export.PageSize = "letter"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Storage.Backend != BackendPrefs || got.Export.PageSize != "letter" {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestLoadFromReportsParseErrorButReturnsDefaults(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("storage: [not, a, map"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFrom(p)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Storage.Backend != BackendFile {
		t.Fatalf("expected defaults on parse error, got %#v", cfg.Storage)
	}
}

func TestResolveDir(t *testing.T) {
	if d, err := (StorageConfig{Dir: "/x"}).ResolveDir(); err != nil || d != "/x" {
		t.Fatalf("explicit dir: %q %v", d, err)
	}
	if d, err := (StorageConfig{}).ResolveDir(); err != nil || filepath.Base(d) != "data" {
		t.Fatalf("default dir: %q %v", d, err)
	}
}
