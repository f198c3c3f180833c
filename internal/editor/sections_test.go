/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSectionsOrder(t *testing.T) {
	var ids []string
	for _, s := range Sections() {
		ids = append(ids, s.ID)
	}
	want := []string{"overview", "core-details", "steps", "materials", "custom", "export"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
}

func TestActiveSection(t *testing.T) {
	cases := []struct {
		name    string
		current string
		ms      []Visibility
		want    string
	}{
		{"highest wins", "overview", []Visibility{{"steps", 0.3}, {"materials", 0.7}}, "materials"},
		{"tie goes to earlier", "overview", []Visibility{{"custom", 0.5}, {"steps", 0.5}}, "steps"},
		{"nothing visible keeps current", "materials", []Visibility{{"steps", 0}, {"custom", 0}}, "materials"},
		{"no measurements keeps current", "custom", nil, "custom"},
		{"empty current defaults to first", "", nil, "overview"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ActiveSection(tc.current, tc.ms); got != tc.want {
				t.Fatalf("ActiveSection = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBandVisibility(t *testing.T) {
	// viewport 1000 tall at offset 0: band is [400,450)
	spans := []Span{
		{ID: "overview", Top: 0, Height: 410},
		{ID: "core-details", Top: 410, Height: 300},
		{ID: "steps", Top: 710, Height: 300},
	}
	got := BandVisibility(spans, 0, 1000)
	want := []Visibility{{"overview", 0.2}, {"core-details", 0.8}, {"steps", 0}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-4)); diff != "" {
		t.Fatalf("BandVisibility mismatch (-want +got):\n%s", diff)
	}

	// scrolled by 400: band is [800,850)
	got = BandVisibility(spans, 400, 1000)
	if got[2].Fraction != 1 {
		t.Fatalf("steps should fill the band after scrolling, got %v", got[2].Fraction)
	}
}

func TestTrackerSingleActive(t *testing.T) {
	tr := NewTracker()
	if tr.Active() != SectionOverview {
		t.Fatalf("tracker should start at overview")
	}
	id, changed := tr.Observe([]Visibility{{"steps", 0.9}})
	if id != "steps" || !changed {
		t.Fatalf("Observe = %q %v", id, changed)
	}
	id, changed = tr.Observe([]Visibility{{"steps", 0.4}})
	if id != "steps" || changed {
		t.Fatalf("same section should not report a change: %q %v", id, changed)
	}
	id, changed = tr.Observe(nil)
	if id != "steps" || changed {
		t.Fatalf("empty observation should keep steps: %q %v", id, changed)
	}
}

func TestTrackerSet(t *testing.T) {
	tr := NewTracker()
	if !tr.Set(SectionExport) || tr.Active() != SectionExport {
		t.Fatalf("Set(export) did not select it: %q", tr.Active())
	}
	if tr.Set("nowhere") || tr.Active() != SectionExport {
		t.Fatalf("unknown id changed the tracker: %q", tr.Active())
	}
	// an empty band keeps the clicked section instead of snapping back
	if id, changed := tr.Observe(nil); id != SectionExport || changed {
		t.Fatalf("Observe after Set = %q %v", id, changed)
	}
}
