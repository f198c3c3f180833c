/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instructionbuilder/internal/domain"
	"instructionbuilder/internal/storage"
)

type harness struct {
	t   *testing.T
	dir string
	cfg string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("IB_LOG_LEVEL", "error")
	return &harness{t: t, dir: dir, cfg: filepath.Join(dir, "config.yaml")}
}

// run executes the CLI against the harness data dir and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", h.cfg, "--backend", "file", "--data-dir", filepath.Join(h.dir, "data")}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "args %v", args)
	return out
}

func (h *harness) stored() domain.Document {
	h.t.Helper()
	doc, err := storage.NewFileStore(filepath.Join(h.dir, "data"), 10).Load()
	require.NoError(h.t, err)
	return doc
}

func TestSetOnlyChangesGivenFlags(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "--title", "Desk", "--steps", "Measure\nCut")
	h.mustRun("set", "--difficulty", "advanced")

	doc := h.stored()
	assert.Equal(t, "Desk", doc.Title)
	assert.Equal(t, "Measure\nCut", doc.Steps)
	assert.Equal(t, domain.Advanced, doc.Difficulty)
	assert.Empty(t, doc.Summary)
}

func TestSetRejectsUnknownDifficulty(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("set", "--difficulty", "expert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown difficulty")
}

func TestFieldLifecycle(t *testing.T) {
	h := newHarness(t)
	id := strings.TrimSpace(h.mustRun("field", "add", "--label", "Cost", "--type", "number", "--value", "42"))
	require.NotEmpty(t, id)

	doc := h.stored()
	require.Len(t, doc.Custom, 2, "default Notes field plus the new one")
	assert.Equal(t, domain.CustomField{ID: id, Label: "Cost", Type: domain.FieldNumber, Value: "42"}, doc.Custom[1])

	h.mustRun("field", "update", id, "--value", "50")
	assert.Equal(t, "50", h.stored().Custom[1].Value)
	assert.Equal(t, domain.FieldNumber, h.stored().Custom[1].Type)

	dup := strings.TrimSpace(h.mustRun("field", "duplicate", id))
	assert.NotEqual(t, id, dup)
	doc = h.stored()
	require.Len(t, doc.Custom, 3)
	assert.Equal(t, dup, doc.Custom[2].ID)
	assert.Equal(t, "Cost", doc.Custom[2].Label)

	list := h.mustRun("field", "list")
	assert.Contains(t, list, id)
	assert.Contains(t, list, dup)

	h.mustRun("field", "delete", id)
	assert.False(t, h.stored().HasID(id))
}

func TestUnknownFieldIDFails(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"field", "update", "missing", "--label", "x"},
		{"field", "duplicate", "missing"},
		{"field", "delete", "missing"},
	} {
		_, err := h.run(args...)
		require.Error(t, err, "args %v", args)
		assert.Contains(t, err.Error(), "no field with id")
	}
}

func TestShowTextAndJSON(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "--title", "Desk", "--materials", "Glue\nScrews")

	text := h.mustRun("show")
	assert.Contains(t, text, "Instruction Builder")
	assert.Contains(t, text, "Title: Desk")
	assert.Contains(t, text, "- Glue")
	assert.Contains(t, text, "- Screws")

	raw := h.mustRun("show", "--json")
	doc, err := storage.Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Desk", doc.Title)
}

func TestClearResetsDocument(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "--title", "Desk")
	h.mustRun("clear")

	_, err := storage.NewFileStore(filepath.Join(h.dir, "data"), 10).Load()
	require.ErrorIs(t, err, storage.ErrNotFound)

	out := h.mustRun("show", "--json")
	doc, err := storage.Decode([]byte(out))
	require.NoError(t, err)
	assert.Empty(t, doc.Title)
	require.Len(t, doc.Custom, 1)
	assert.Equal(t, domain.DefaultNotesLabel, doc.Custom[0].Label)
}

func TestExportWritesPDF(t *testing.T) {
	if testing.Short() {
		t.Skip("renders a full snapshot")
	}
	h := newHarness(t)
	h.mustRun("set", "--title", "My Desk")
	out := filepath.Join(h.dir, "out")
	path := strings.TrimSpace(h.mustRun("export", "--out", out, "--page", "letter"))
	assert.Equal(t, filepath.Join(out, "My Desk.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("export", "--format", "docx")
	require.Error(t, err)
}

func TestExportRejectsOutOfRangeScale(t *testing.T) {
	h := newHarness(t)
	for _, v := range []string{"50", "0", "-1"} {
		_, err := h.run("export", "--scale="+v, "--out", h.dir)
		require.Error(t, err, "--scale %s", v)
		assert.Contains(t, err.Error(), "--scale")
	}
	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".pdf", filepath.Ext(e.Name()))
	}
}

func TestEphemeralDoesNotTouchDisk(t *testing.T) {
	h := newHarness(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", h.cfg, "--ephemeral", "--data-dir", filepath.Join(h.dir, "data"), "set", "--title", "x"})
	require.NoError(t, root.Execute())
	_, err := os.Stat(filepath.Join(h.dir, "data"))
	assert.True(t, os.IsNotExist(err))
}

func TestVersion(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "Instruction Builder "))
}
