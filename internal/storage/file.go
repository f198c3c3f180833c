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
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"instructionbuilder/internal/domain"
	applog "instructionbuilder/internal/log"
)

const (
	RecordFileName = RecordKey + ".json"
	BackupsDirName = "backups"
	backupStamp    = "20060102-150405"
)

// FileStore keeps the document as a JSON file under Dir.
// Writes are transactional (temp file + fsync + rename) and the previous record
// is copied into Dir/backups first. At most MaxBackups backups are kept (0 keeps all).
type FileStore struct {
	Dir        string
	MaxBackups int
	now        func() time.Time
}

func NewFileStore(dir string, maxBackups int) *FileStore {
	return &FileStore{Dir: dir, MaxBackups: maxBackups, now: time.Now}
}

// Path returns the location of the record file.
func (s *FileStore) Path() string { return filepath.Join(s.Dir, RecordFileName) }

// BackupsDir returns the directory holding timestamped backups.
func (s *FileStore) BackupsDir() string { return filepath.Join(s.Dir, BackupsDirName) }

// Load reads the record. If it exists but cannot be parsed, the latest backup is
// tried; a successful fallback returns the backup document with an ErrRestored error.
func (s *FileStore) Load() (domain.Document, error) {
	b, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Document{}, ErrNotFound
	}
	if err != nil {
		return s.fromBackup(fmt.Errorf("%w: read %s: %v", ErrCorrupt, s.Path(), err))
	}
	doc, derr := Decode(b)
	if derr != nil {
		return s.fromBackup(derr)
	}
	return doc, nil
}

func (s *FileStore) fromBackup(cause error) (domain.Document, error) {
	doc, path, berr := s.latestBackup()
	if berr != nil {
		return domain.Document{}, fmt.Errorf("%w; backup attempt: %v", cause, berr)
	}
	return doc, fmt.Errorf("%w (%s): %v", ErrRestored, filepath.Base(path), cause)
}

// Save writes doc, backing up the current record first.
func (s *FileStore) Save(doc domain.Document) error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("file store: directory is required")
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	bdir := s.BackupsDir()
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current record exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(s.Path()); statErr == nil {
		bname := fmt.Sprintf("%s.%s.bak", RecordFileName, s.clock().Format(backupStamp))
		if cerr := copyFile(s.Path(), filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current record: %w", cerr)
		}
		s.pruneBackups()
	}

	temp := filepath.Join(s.Dir, fmt.Sprintf(".%s.tmp-%d-%d", RecordFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp record: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(s.Path()); err == nil {
		_ = os.Remove(s.Path())
	}
	if rerr := os.Rename(temp, s.Path()); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace record: %w", rerr)
	}
	return nil
}

// Clear deletes the record. Backups are left in place.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

// Backups lists backup files, oldest first.
func (s *FileStore) Backups() ([]string, error) {
	ents, err := os.ReadDir(s.BackupsDir())
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, RecordFileName+".") && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(s.BackupsDir(), name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func (s *FileStore) latestBackup() (domain.Document, string, error) {
	candidates, err := s.Backups()
	if err != nil {
		return domain.Document{}, "", fmt.Errorf("read backups dir: %w", err)
	}
	if len(candidates) == 0 {
		return domain.Document{}, "", errors.New("no backups found")
	}
	// newest first; skip backups that are themselves damaged
	var lastErr error
	for i := len(candidates) - 1; i >= 0; i-- {
		b, err := os.ReadFile(candidates[i])
		if err != nil {
			lastErr = err
			continue
		}
		doc, err := Decode(b)
		if err != nil {
			lastErr = err
			continue
		}
		return doc, candidates[i], nil
	}
	return domain.Document{}, "", fmt.Errorf("no usable backup: %w", lastErr)
}

func (s *FileStore) pruneBackups() {
	if s.MaxBackups <= 0 {
		return
	}
	all, err := s.Backups()
	if err != nil || len(all) <= s.MaxBackups {
		return
	}
	for _, p := range all[:len(all)-s.MaxBackups] {
		if err := os.Remove(p); err != nil {
			applog.WithComponent("storage").Warn("prune backup failed", slog.String("path", p), slog.Any("err", err))
		}
	}
}

func (s *FileStore) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// AutosaveCrashSnapshot writes doc next to the backups as crash-<stamp>.json so
// that a panic never loses the last in-memory state.
func AutosaveCrashSnapshot(dir string, doc domain.Document) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	bdir := filepath.Join(dir, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(bdir, fmt.Sprintf("crash-%s.json", time.Now().Format(backupStamp)))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
