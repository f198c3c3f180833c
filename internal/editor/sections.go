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

// Section is a navigable anchor of the form.
type Section struct {
	ID    string
	Label string
}

// Section ids in display order.
const (
	SectionOverview    = "overview"
	SectionCoreDetails = "core-details"
	SectionSteps       = "steps"
	SectionMaterials   = "materials"
	SectionCustom      = "custom"
	SectionExport      = "export"
)

var sections = []Section{
	{ID: SectionOverview, Label: "Overview"},
	{ID: SectionCoreDetails, Label: "Core Details"},
	{ID: SectionSteps, Label: "Steps"},
	{ID: SectionMaterials, Label: "Materials"},
	{ID: SectionCustom, Label: "Custom Fields"},
	{ID: SectionExport, Label: "Export"},
}

// Sections returns the ordered section anchors.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

func sectionIndex(id string) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return len(sections)
}

// Visibility is how much of the observation band a section covers, in [0,1].
type Visibility struct {
	ID       string
	Fraction float32
}

// Span is the vertical extent of a section in scroll-content coordinates.
type Span struct {
	ID     string
	Top    float32
	Height float32
}

// Observation band, as fractions of the viewport height from its top edge.
const (
	BandTop    = 0.40
	BandBottom = 0.45
)

// ActiveSection picks the section with the highest visible fraction. Ties go to
// the section that comes first in Sections(). With nothing visible current is kept.
func ActiveSection(current string, ms []Visibility) string {
	best := ""
	var bestFrac float32
	for _, m := range ms {
		if m.Fraction <= 0 {
			continue
		}
		switch {
		case best == "" || m.Fraction > bestFrac:
			best, bestFrac = m.ID, m.Fraction
		case m.Fraction == bestFrac && sectionIndex(m.ID) < sectionIndex(best):
			best = m.ID
		}
	}
	if best != "" {
		return best
	}
	if current == "" {
		return sections[0].ID
	}
	return current
}

// BandVisibility measures every span against the band between 40% and 45% of
// the viewport. viewportTop is the scroll offset.
func BandVisibility(spans []Span, viewportTop, viewportHeight float32) []Visibility {
	out := make([]Visibility, 0, len(spans))
	bandTop := viewportTop + viewportHeight*BandTop
	bandBottom := viewportTop + viewportHeight*BandBottom
	bandH := bandBottom - bandTop
	for _, s := range spans {
		v := Visibility{ID: s.ID}
		if bandH > 0 && s.Height > 0 {
			lo := max(s.Top, bandTop)
			hi := min(s.Top+s.Height, bandBottom)
			if hi > lo {
				v.Fraction = (hi - lo) / bandH
			}
		}
		out = append(out, v)
	}
	return out
}

// Tracker remembers the active section between observations.
type Tracker struct {
	active string
}

func NewTracker() *Tracker { return &Tracker{active: sections[0].ID} }

func (t *Tracker) Active() string { return t.active }

// Set selects id directly and reports whether it changed. Unknown ids are ignored.
func (t *Tracker) Set(id string) bool {
	if sectionIndex(id) == len(sections) || id == t.active {
		return false
	}
	t.active = id
	return true
}

// Observe updates the active section and reports whether it changed.
func (t *Tracker) Observe(ms []Visibility) (string, bool) {
	next := ActiveSection(t.active, ms)
	changed := next != t.active
	t.active = next
	return next, changed
}
