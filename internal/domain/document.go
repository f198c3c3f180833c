/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the instruction document: a flat record of top-level
// attributes plus an ordered list of user-defined custom fields.

import (
	"strings"

	"github.com/google/uuid"
)

// FieldType selects the input control and display formatting of a custom field.
// The stored value is always a string regardless of type.
type FieldType string

const (
	FieldShort  FieldType = "short"
	FieldLong   FieldType = "long"
	FieldNumber FieldType = "number"
	FieldURL    FieldType = "url"
)

// FieldTypes returns the selectable field types in display order.
func FieldTypes() []FieldType { return []FieldType{FieldShort, FieldLong, FieldNumber, FieldURL} }

func (t FieldType) Valid() bool {
	switch t {
	case FieldShort, FieldLong, FieldNumber, FieldURL:
		return true
	}
	return false
}

// Label is the human-readable name shown in type pickers.
func (t FieldType) Label() string {
	switch t {
	case FieldLong:
		return "Long Text"
	case FieldNumber:
		return "Number"
	case FieldURL:
		return "URL"
	default:
		return "Short Text"
	}
}

// Placeholder is the hint text of the value input for this type.
func (t FieldType) Placeholder() string {
	switch t {
	case FieldLong:
		return "Write details here..."
	case FieldNumber:
		return "0"
	case FieldURL:
		return "https://"
	default:
		return "Short text…"
	}
}

// ParseFieldType accepts a stored tag ("long") or a label ("Long Text"), case-insensitive.
func ParseFieldType(s string) (FieldType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range FieldTypes() {
		if s == string(t) || s == strings.ToLower(t.Label()) {
			return t, true
		}
	}
	return "", false
}

// Difficulty is the coarse skill level of an instruction set.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

func Difficulties() []Difficulty { return []Difficulty{Beginner, Intermediate, Advanced} }

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// ParseDifficulty matches case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties() {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

// CustomField is a user-defined labeled value appended to the document.
// ID is assigned at creation and never reused.
type CustomField struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
	Value string    `json:"value"`
}

// Document is the complete set of user-entered instruction data.
// It serializes to the JSON record kept by the persistence layer.
type Document struct {
	Title      string        `json:"title"`
	Summary    string        `json:"summary"`
	Difficulty Difficulty    `json:"difficulty"`
	EstTime    string        `json:"estTime"`
	Materials  string        `json:"materials"` // one entry per line
	Steps      string        `json:"steps"`     // one entry per line
	Safety     string        `json:"safety"`
	Custom     []CustomField `json:"custom"`
}

// Default field labels.
const (
	DefaultNotesLabel = "Notes"
	NewFieldLabel     = "New Field"
)

// NewID returns a fresh random field identifier.
func NewID() string { return uuid.NewString() }

// NewField returns the field appended by "Add Custom Field".
func NewField() CustomField {
	return CustomField{ID: NewID(), Label: NewFieldLabel, Type: FieldShort, Value: ""}
}

// Default returns the document used on first run and after a clear.
func Default() Document {
	return Document{
		Difficulty: Beginner,
		Custom: []CustomField{
			{ID: NewID(), Label: DefaultNotesLabel, Type: FieldLong, Value: ""},
		},
	}
}

// Clone returns a deep copy; the custom field slice is never shared.
func (d Document) Clone() Document {
	out := d
	out.Custom = make([]CustomField, len(d.Custom))
	copy(out.Custom, d.Custom)
	return out
}

// IndexOf returns the position of the field with id, or -1.
func (d Document) IndexOf(id string) int {
	for i, f := range d.Custom {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// HasID reports whether any custom field uses id.
func (d Document) HasID(id string) bool { return d.IndexOf(id) >= 0 }
