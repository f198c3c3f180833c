/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"instructionbuilder/internal/domain"
)

// Fixed snapshot texts.
const (
	SnapshotTitleAccent = "Instruction"
	SnapshotTitleRest   = " Builder"
	SnapshotSubtitle    = "Complete guide snapshot"
	NoStepsText         = "No steps provided."
	NoMaterialsText     = "No materials listed."
	CustomFieldFallback = "Custom Field"
)

// BlockKind selects how a snapshot block is laid out.
type BlockKind int

const (
	// BlockFields places its fields side by side.
	BlockFields BlockKind = iota
	BlockOrdered
	BlockUnordered
	BlockMuted
)

// LabeledValue is one label/value pair.
type LabeledValue struct {
	Label string
	Value string
}

type Block struct {
	Kind   BlockKind
	Fields []LabeledValue // BlockFields
	Items  []string       // BlockOrdered, BlockUnordered
	Text   string         // BlockMuted
}

type Section struct {
	Heading string
	Blocks  []Block
}

// FooterPart is a piece of the footer line; Accent selects the highlight color.
type FooterPart struct {
	Text   string
	Accent Accent
}

type Accent int

const (
	AccentNone Accent = iota
	AccentBlue
	AccentGreen
)

// Snapshot is the print-formatted view of a document, independent of any layout.
type Snapshot struct {
	Sections []Section
	Footer   []FooterPart
}

// BuildSnapshot turns doc into the export view model. Empty values render as
// domain.EmptyValue and the custom section is omitted when there are no fields.
func BuildSnapshot(doc domain.Document) Snapshot {
	var s Snapshot
	s.Sections = append(s.Sections,
		Section{Heading: "Start", Blocks: []Block{
			fields(LabeledValue{"Title", domain.OrDash(doc.Title)}, LabeledValue{"Summary", domain.OrDash(doc.Summary)}),
		}},
		Section{Heading: "Core Details", Blocks: []Block{
			fields(LabeledValue{"Difficulty", domain.OrDash(string(doc.Difficulty))}, LabeledValue{"Estimated Time", domain.OrDash(doc.EstTime)}),
			fields(LabeledValue{"Safety Notes", domain.OrDash(doc.Safety)}),
		}},
		listSection("Step-by-Step", BlockOrdered, doc.Steps, NoStepsText),
		listSection("Materials & Tools", BlockUnordered, doc.Materials, NoMaterialsText),
	)
	if len(doc.Custom) > 0 {
		sec := Section{Heading: "Custom Fields"}
		for _, f := range doc.Custom {
			label := f.Label
			if label == "" {
				label = CustomFieldFallback
			}
			sec.Blocks = append(sec.Blocks, fields(LabeledValue{label, domain.FormatValue(f)}))
		}
		s.Sections = append(s.Sections, sec)
	}
	s.Footer = []FooterPart{
		{Text: "Generated with "},
		{Text: "Neon Blue", Accent: AccentBlue},
		{Text: " + "},
		{Text: "Neon Green", Accent: AccentGreen},
		{Text: " theme."},
	}
	return s
}

func fields(f ...LabeledValue) Block { return Block{Kind: BlockFields, Fields: f} }

func listSection(heading string, kind BlockKind, text, empty string) Section {
	items := domain.ParseLines(text)
	if len(items) == 0 {
		return Section{Heading: heading, Blocks: []Block{{Kind: BlockMuted, Text: empty}}}
	}
	return Section{Heading: heading, Blocks: []Block{{Kind: kind, Items: items}}}
}
