/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package textlayout

// TextStyle is a named text preset used by the snapshot renderer.
// Sizes are in points at 72 DPI, so one point is one layout unit.
// Leading is extra layout units added to each line.
type TextStyle struct {
	Name    string
	Font    FontSpec
	Leading float32
}

// Span returns text styled with s.
func (s TextStyle) Span(text string) Span {
	return Span{Text: text, Font: s.Font, Leading: s.Leading}
}

// Style names.
const (
	StyleTitle    = "Title"
	StyleSubtitle = "Subtitle"
	StyleHeading  = "Heading"
	StyleLabel    = "Label"
	StyleBody     = "Body"
	StyleMuted    = "Muted"
	StyleFooter   = "Footer"
)

var builtinStyles = map[string]TextStyle{
	StyleTitle:    {Name: StyleTitle, Font: FontSpec{Family: GoFamily, SizePt: 26, Weight: 700}, Leading: 4},
	StyleSubtitle: {Name: StyleSubtitle, Font: FontSpec{Family: GoFamily, SizePt: 13, Weight: 400, Italic: true}, Leading: 2},
	StyleHeading:  {Name: StyleHeading, Font: FontSpec{Family: GoFamily, SizePt: 17, Weight: 700}, Leading: 3},
	StyleLabel:    {Name: StyleLabel, Font: FontSpec{Family: GoFamily, SizePt: 10, Weight: 700}, Leading: 2},
	StyleBody:     {Name: StyleBody, Font: FontSpec{Family: GoFamily, SizePt: 13, Weight: 400}, Leading: 5},
	StyleMuted:    {Name: StyleMuted, Font: FontSpec{Family: GoFamily, SizePt: 13, Weight: 400, Italic: true}, Leading: 5},
	StyleFooter:   {Name: StyleFooter, Font: FontSpec{Family: GoFamily, SizePt: 10, Weight: 400}, Leading: 2},
}

// GetStyle returns a builtin style preset by name. The second return value is false if
// the style is not found.
func GetStyle(name string) (TextStyle, bool) { s, ok := builtinStyles[name]; return s, ok }

// MustStyle is GetStyle for names known at compile time.
func MustStyle(name string) TextStyle {
	s, ok := builtinStyles[name]
	if !ok {
		panic("textlayout: unknown style " + name)
	}
	return s
}

// ListStyles lists the names of the builtin styles in stable order.
func ListStyles() []string {
	return []string{StyleTitle, StyleSubtitle, StyleHeading, StyleLabel, StyleBody, StyleMuted, StyleFooter}
}
