/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report plus an autosave of the
// document being edited, then exits non-zero.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"instructionbuilder/internal/domain"
	applog "instructionbuilder/internal/log"
	"instructionbuilder/internal/storage"
	"instructionbuilder/internal/telemetry"
	"instructionbuilder/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Target tells Recover where to put its files and how to get the document.
// A zero Target writes the report to the temp dir and skips the autosave.
type Target struct {
	Dir      string                 // storage directory; files go to Dir/backups
	Document func() domain.Document // current in-memory document
}

// Recover captures a panic, logs it with a stacktrace, writes a report file and
// autosaves the document. It must be deferred directly:
//
//	defer crash.Recover(target)
func Recover(t Target) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(t.Dir, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if t.Dir != "" && t.Document != nil {
		if path, err := autosave(t); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
			_, _ = fmt.Fprintf(os.Stderr, "Your instructions were saved to: %s\n", path)
		}
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// autosave reads the document without letting a second panic escape.
func autosave(t Target) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read document: %v", r)
		}
	}()
	return storage.AutosaveCrashSnapshot(t.Dir, t.Document())
}

func writeReport(dir string, panicVal any, stack []byte) (string, error) {
	out := os.TempDir()
	if dir != "" {
		out = filepath.Join(dir, storage.BackupsDirName)
		if err := os.MkdirAll(out, 0o755); err != nil {
			out = os.TempDir()
		}
	}
	path := filepath.Join(out, fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Instruction Builder Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if dir != "" {
		_, _ = fmt.Fprintf(&buf, "DataDir: %s\n", dir)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	// no document content in the report, so it can go out as is
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
