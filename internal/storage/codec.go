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
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"instructionbuilder/internal/domain"
)

// documentSchema describes the persisted record. There is no version field;
// records that do not match are treated as corrupt.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title":      {"type": "string"},
    "summary":    {"type": "string"},
    "difficulty": {"enum": ["", "Beginner", "Intermediate", "Advanced"]},
    "estTime":    {"type": "string"},
    "materials":  {"type": "string"},
    "steps":      {"type": "string"},
    "safety":     {"type": "string"},
    "custom": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id":    {"type": "string"},
          "label": {"type": "string"},
          "type":  {"enum": ["short", "long", "number", "url"]},
          "value": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	})
	return schema, schemaErr
}

// Encode serializes the full document as indented JSON with a trailing newline.
func Encode(doc domain.Document) ([]byte, error) {
	if doc.Custom == nil {
		doc.Custom = []domain.CustomField{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode validates data against the record schema and unmarshals it.
// Validation failures and syntax errors are reported as ErrCorrupt.
func Decode(data []byte) (domain.Document, error) {
	sch, err := compiledSchema()
	if err != nil {
		return domain.Document{}, fmt.Errorf("compile document schema: %w", err)
	}
	res, err := sch.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// gojsonschema reports malformed JSON as a loader error
		return domain.Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Document{}, fmt.Errorf("%w: %s", ErrCorrupt, strings.Join(msgs, "; "))
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	normalize(&doc)
	return doc, nil
}

// normalize restores invariants the schema cannot express: a difficulty is set,
// the custom list is non-nil and every field has a unique non-empty id.
func normalize(doc *domain.Document) {
	if doc.Difficulty == "" {
		doc.Difficulty = domain.Beginner
	}
	if doc.Custom == nil {
		doc.Custom = []domain.CustomField{}
	}
	seen := make(map[string]struct{}, len(doc.Custom))
	for i := range doc.Custom {
		id := doc.Custom[i].ID
		if _, dup := seen[id]; id == "" || dup {
			id = domain.NewID()
			doc.Custom[i].ID = id
		}
		seen[id] = struct{}{}
	}
}
