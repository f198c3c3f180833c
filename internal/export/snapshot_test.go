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
	"testing"

	"github.com/google/go-cmp/cmp"

	"instructionbuilder/internal/domain"
)

func headings(s Snapshot) []string {
	var out []string
	for _, sec := range s.Sections {
		out = append(out, sec.Heading)
	}
	return out
}

func TestBuildSnapshotDefaultDocument(t *testing.T) {
	doc := domain.Default()
	doc.Custom[0].Value = ""
	s := BuildSnapshot(doc)

	want := []string{"Start", "Core Details", "Step-by-Step", "Materials & Tools", "Custom Fields"}
	if diff := cmp.Diff(want, headings(s)); diff != "" {
		t.Fatalf("section headings mismatch (-want +got):\n%s", diff)
	}
	start := s.Sections[0].Blocks[0].Fields
	if start[0] != (LabeledValue{"Title", "—"}) || start[1] != (LabeledValue{"Summary", "—"}) {
		t.Fatalf("empty top-level values should render as a dash: %+v", start)
	}
	if b := s.Sections[2].Blocks[0]; b.Kind != BlockMuted || b.Text != NoStepsText {
		t.Fatalf("steps placeholder missing: %+v", b)
	}
	if b := s.Sections[3].Blocks[0]; b.Kind != BlockMuted || b.Text != NoMaterialsText {
		t.Fatalf("materials placeholder missing: %+v", b)
	}
	if got := s.Sections[4].Blocks[0].Fields[0]; got != (LabeledValue{"Notes", "—"}) {
		t.Fatalf("custom field rendering: %+v", got)
	}
}

func TestBuildSnapshotLists(t *testing.T) {
	doc := domain.Document{
		Title:      "Build a Minimalist Desk",
		Difficulty: domain.Intermediate,
		Steps:      "  Prepare workspace  \n\nMeasure and mark\n",
		Materials:  "Plywood\r\nGlue",
		Custom:     []domain.CustomField{{ID: "a", Label: "", Type: domain.FieldNumber, Value: " 42 "}},
	}
	s := BuildSnapshot(doc)
	steps := s.Sections[2].Blocks[0]
	if steps.Kind != BlockOrdered {
		t.Fatalf("steps should be an ordered list")
	}
	if diff := cmp.Diff([]string{"Prepare workspace", "Measure and mark"}, steps.Items); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	mats := s.Sections[3].Blocks[0]
	if mats.Kind != BlockUnordered || len(mats.Items) != 2 {
		t.Fatalf("materials should be an unordered list of 2: %+v", mats)
	}
	if got := s.Sections[4].Blocks[0].Fields[0]; got != (LabeledValue{CustomFieldFallback, "42"}) {
		t.Fatalf("unlabeled custom field: %+v", got)
	}
	if got := s.Sections[1].Blocks[0].Fields[0].Value; got != "Intermediate" {
		t.Fatalf("difficulty value: %q", got)
	}
}

func TestBuildSnapshotOmitsEmptyCustomSection(t *testing.T) {
	s := BuildSnapshot(domain.Document{Difficulty: domain.Beginner})
	if len(s.Sections) != 4 {
		t.Fatalf("expected 4 sections without custom fields, got %v", headings(s))
	}
	if len(s.Footer) == 0 {
		t.Fatalf("footer missing")
	}
}
