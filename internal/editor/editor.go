/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor owns the in-memory instruction document. Every mutation goes
// through an Editor, which notifies observers and persists the result.
package editor

import (
	"log/slog"
	"sync"

	"instructionbuilder/internal/domain"
	applog "instructionbuilder/internal/log"
	"instructionbuilder/internal/storage"
)

// maxIDAttempts bounds the retries when the generator keeps colliding.
const maxIDAttempts = 16

// Patch carries a partial update of the top-level attributes.
// Nil fields are left untouched.
type Patch struct {
	Title      *string
	Summary    *string
	Difficulty *domain.Difficulty
	EstTime    *string
	Materials  *string
	Steps      *string
	Safety     *string
}

// Option configures an Editor.
type Option func(*Editor)

// WithStore persists the document after every effective mutation.
func WithStore(s storage.Store) Option { return func(e *Editor) { e.store = s } }

func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithIDGenerator replaces domain.NewID for fresh field ids.
func WithIDGenerator(f func() string) Option {
	return func(e *Editor) {
		if f != nil {
			e.newID = f
		}
	}
}

// WithOnChange registers a callback receiving a copy of the document after each mutation.
func WithOnChange(f func(domain.Document)) Option { return func(e *Editor) { e.onChange = f } }

// WithOnSaveError registers a callback for persistence failures.
func WithOnSaveError(f func(error)) Option { return func(e *Editor) { e.onSaveError = f } }

// Editor is the single writer of the document. It is safe for concurrent use;
// callbacks run after the internal lock has been released.
type Editor struct {
	mu      sync.Mutex
	doc     domain.Document
	seq     uint64
	retired map[string]struct{}

	// saveMu orders writes to store; savedSeq is the newest revision written.
	saveMu   sync.Mutex
	savedSeq uint64

	store       storage.Store
	log         *slog.Logger
	newID       func() string
	onChange    func(domain.Document)
	onSaveError func(error)
}

func New(doc domain.Document, opts ...Option) *Editor {
	e := &Editor{
		doc:     doc.Clone(),
		retired: map[string]struct{}{},
		log:     applog.WithComponent("editor"),
		newID:   domain.NewID,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Document returns a deep copy of the current document.
func (e *Editor) Document() domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Fields returns a copy of the custom field list in order.
func (e *Editor) Fields() []domain.CustomField {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone().Custom
}

func (e *Editor) Field(id string) (domain.CustomField, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.doc.IndexOf(id); i >= 0 {
		return e.doc.Custom[i], true
	}
	return domain.CustomField{}, false
}

// UpdateTopLevel merges the set fields of p. An unknown difficulty is ignored.
func (e *Editor) UpdateTopLevel(p Patch) {
	e.mutate("update", func(d *domain.Document) bool {
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		set(&d.Title, p.Title)
		set(&d.Summary, p.Summary)
		set(&d.EstTime, p.EstTime)
		set(&d.Materials, p.Materials)
		set(&d.Steps, p.Steps)
		set(&d.Safety, p.Safety)
		if p.Difficulty != nil && p.Difficulty.Valid() {
			d.Difficulty = *p.Difficulty
		}
		return true
	})
}

// AddField appends a blank short-text field and returns it.
func (e *Editor) AddField() domain.CustomField {
	var added domain.CustomField
	e.mutate("add_field", func(d *domain.Document) bool {
		added = domain.NewField()
		added.ID = e.freshIDLocked(d)
		d.Custom = append(d.Custom, added)
		return true
	})
	return added
}

// UpdateField replaces the field with id by next, keeping id and position.
// Unknown ids are ignored.
func (e *Editor) UpdateField(id string, next domain.CustomField) {
	e.updateField(id, func(f *domain.CustomField) {
		*f = next
	})
}

func (e *Editor) SetFieldLabel(id, label string) {
	e.updateField(id, func(f *domain.CustomField) { f.Label = label })
}

// SetFieldType changes the field type; invalid types are ignored, the value is kept.
func (e *Editor) SetFieldType(id string, t domain.FieldType) {
	if !t.Valid() {
		return
	}
	e.updateField(id, func(f *domain.CustomField) { f.Type = t })
}

func (e *Editor) SetFieldValue(id, value string) {
	e.updateField(id, func(f *domain.CustomField) { f.Value = value })
}

func (e *Editor) updateField(id string, apply func(*domain.CustomField)) {
	e.mutate("update_field", func(d *domain.Document) bool {
		i := d.IndexOf(id)
		if i < 0 {
			return false
		}
		f := d.Custom[i]
		apply(&f)
		f.ID = id
		if !f.Type.Valid() {
			f.Type = d.Custom[i].Type
		}
		d.Custom[i] = f
		return true
	})
}

// DuplicateField appends a copy of the field with a fresh id at the end of the list.
func (e *Editor) DuplicateField(id string) (domain.CustomField, bool) {
	var dup domain.CustomField
	ok := e.mutate("duplicate_field", func(d *domain.Document) bool {
		i := d.IndexOf(id)
		if i < 0 {
			return false
		}
		dup = d.Custom[i]
		dup.ID = e.freshIDLocked(d)
		d.Custom = append(d.Custom, dup)
		return true
	})
	return dup, ok
}

// DeleteField removes the field with id and reports whether it existed.
func (e *Editor) DeleteField(id string) bool {
	return e.mutate("delete_field", func(d *domain.Document) bool {
		i := d.IndexOf(id)
		if i < 0 {
			return false
		}
		e.retired[id] = struct{}{}
		d.Custom = append(d.Custom[:i], d.Custom[i+1:]...)
		return true
	})
}

// Reset replaces the document with the defaults and clears the persisted record.
func (e *Editor) Reset() {
	snapshot, seq, _ := e.apply(func(d *domain.Document) bool {
		for _, f := range d.Custom {
			e.retired[f.ID] = struct{}{}
		}
		*d = domain.Default()
		for i := range d.Custom {
			d.Custom[i].ID = e.freshIDLocked(d)
		}
		return true
	})

	e.log.Info("document reset to defaults")
	if e.onChange != nil {
		e.onChange(snapshot)
	}
	if e.store != nil {
		e.persist("clear", seq, e.store.Clear)
	}
}

// mutate applies fn to a working copy under the lock. When fn reports a change the
// copy becomes current, observers are notified and the document is persisted.
func (e *Editor) mutate(op string, fn func(*domain.Document) bool) bool {
	snapshot, seq, changed := e.apply(fn)
	if !changed {
		e.log.Debug("mutation ignored", slog.String("op", op))
		return false
	}
	if e.onChange != nil {
		e.onChange(snapshot)
	}
	if e.store != nil {
		e.persist(op, seq, func() error { return e.store.Save(snapshot) })
	}
	return true
}

// apply runs fn on a clone of the document and commits it when fn reports a
// change. The lock is released even if fn panics.
func (e *Editor) apply(fn func(*domain.Document) bool) (domain.Document, uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	work := e.doc.Clone()
	if !fn(&work) {
		return domain.Document{}, 0, false
	}
	e.doc = work
	e.seq++
	return work.Clone(), e.seq, true
}

// persist runs write unless a newer revision already reached the store, so the
// stored record never goes back to an older document.
func (e *Editor) persist(op string, seq uint64, write func() error) {
	err := func() error {
		e.saveMu.Lock()
		defer e.saveMu.Unlock()
		if seq <= e.savedSeq {
			e.log.Debug("stale save skipped", slog.String("op", op), slog.Uint64("rev", seq))
			return nil
		}
		e.savedSeq = seq
		return write()
	}()
	if err != nil {
		e.reportSaveError(op, err)
	}
}

func (e *Editor) reportSaveError(op string, err error) {
	e.log.Warn("persist document failed", slog.String("op", op), slog.Any("err", err))
	if e.onSaveError != nil {
		e.onSaveError(err)
	}
}

// freshIDLocked draws ids until one is unused by d and was never handed out to
// a field this Editor has since dropped. After maxIDAttempts collisions it
// falls back to domain.NewID.
func (e *Editor) freshIDLocked(d *domain.Document) string {
	for i := 0; i < maxIDAttempts; i++ {
		if id := e.newID(); id != "" && e.unusedLocked(d, id) {
			return id
		}
	}
	for {
		if id := domain.NewID(); e.unusedLocked(d, id) {
			return id
		}
	}
}

func (e *Editor) unusedLocked(d *domain.Document, id string) bool {
	if _, gone := e.retired[id]; gone {
		return false
	}
	return !d.HasID(id)
}
