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

// Text measurement and line breaking live behind small interfaces so the
// renderer can run on real OpenType faces while tests use a fixed bitmap face.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float32
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// Span is a run of text with the same font. Leading adds extra pixels to every
// line the span appears on.
type Span struct {
	Text    string
	Font    FontSpec
	Leading float32
}

// Line is a single laid out line. Height includes line gap and leading.
type Line struct {
	Spans   []Span
	Width   float32
	Ascent  float32
	Descent float32
	Height  float32
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float32
	Height  float32
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line-breaking and measurement.
type Layouter interface {
	Layout(spans []Span, maxWidth float32) (TextBox, error)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// controlSpace folds every newline convention to \n and tabs to a space; the
// faces have no glyphs for either.
var controlSpace = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", " ")

// WordWrapLayouter breaks on spaces and explicit newlines. Words wider than the
// box are split between runes. No shaping or hyphenation is done.
type WordWrapLayouter struct{ Provider Provider }

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(spans []Span, maxWidth float32) (TextBox, error) {
	p := l.Provider
	if p == nil {
		p = BasicProvider{}
	}
	var box TextBox
	if len(spans) > 0 {
		_, box.Metrics = p.Resolve(spans[0].Font)
	} else {
		_, box.Metrics = p.Resolve(FontSpec{})
	}

	var cur Line
	var gap, leading float32
	addLine := func() {
		if cur.Ascent == 0 && cur.Descent == 0 {
			cur.Ascent, cur.Descent, gap = box.Metrics.Ascent, box.Metrics.Descent, box.Metrics.LineGap
		}
		cur.Height = cur.Ascent + cur.Descent + gap + leading
		box.Lines = append(box.Lines, cur)
		if cur.Width > box.Width {
			box.Width = cur.Width
		}
		box.Height += cur.Height
		cur, gap, leading = Line{}, 0, 0
	}
	place := func(sp Span, m Metrics, text string, w float32) {
		cur.Spans = append(cur.Spans, Span{Text: text, Font: sp.Font, Leading: sp.Leading})
		cur.Width += w
		cur.Ascent = max(cur.Ascent, m.Ascent)
		cur.Descent = max(cur.Descent, m.Descent)
		gap = max(gap, m.LineGap)
		leading = max(leading, sp.Leading)
	}

	for _, sp := range spans {
		sp.Text = controlSpace.Replace(sp.Text)
		if sp.Text == "" {
			continue
		}
		face, met := p.Resolve(sp.Font)
		drawer := &font.Drawer{Face: face}
		start := 0
		for i := 0; i <= len(sp.Text); i++ {
			if i < len(sp.Text) && sp.Text[i] != ' ' && sp.Text[i] != '\n' {
				continue
			}
			word := sp.Text[start:i]
			w := advance(drawer, word)
			if cur.Width > 0 && maxWidth > 0 && cur.Width+w > maxWidth {
				addLine()
			}
			if maxWidth > 0 && w > maxWidth {
				chunks := splitWord(drawer, word, maxWidth)
				for j, c := range chunks {
					if j > 0 {
						addLine()
					}
					place(sp, met, c, advance(drawer, c))
				}
			} else if word != "" {
				place(sp, met, word, w)
			}
			if i < len(sp.Text) {
				switch sp.Text[i] {
				case ' ':
					place(sp, met, " ", advance(drawer, " "))
				case '\n':
					if cur.Ascent == 0 {
						cur.Ascent, cur.Descent, gap, leading = met.Ascent, met.Descent, met.LineGap, sp.Leading
					}
					addLine()
				}
			}
			start = i + 1
		}
	}
	if len(cur.Spans) > 0 || len(box.Lines) == 0 {
		addLine()
	}
	return box, nil
}

// splitWord cuts word into pieces no wider than maxWidth, at least one rune each.
func splitWord(d *font.Drawer, word string, maxWidth float32) []string {
	var out []string
	start := 0
	var w float32
	for i, r := range word {
		rw := advance(d, string(r))
		if w > 0 && w+rw > maxWidth {
			out = append(out, word[start:i])
			start, w = i, 0
		}
		w += rw
	}
	if start < len(word) {
		out = append(out, word[start:])
	}
	return out
}

func advance(d *font.Drawer, s string) float32 {
	return float32(d.MeasureString(s).Ceil())
}

// Advance is the horizontal advance of s in face, rounded up to whole pixels.
// Layout uses the same measure, so drawing span by span reproduces line widths.
func Advance(face font.Face, s string) float32 {
	return advance(&font.Drawer{Face: face}, s)
}

// Measure returns the single-line width of spans and the tallest line height.
func Measure(provider Provider, spans []Span) (w, h float32) {
	if provider == nil {
		provider = BasicProvider{}
	}
	if len(spans) == 0 {
		_, met := provider.Resolve(FontSpec{})
		return 0, met.Ascent + met.Descent
	}
	for _, sp := range spans {
		face, met := provider.Resolve(sp.Font)
		w += advance(&font.Drawer{Face: face}, sp.Text)
		h = max(h, met.Ascent+met.Descent+sp.Leading)
	}
	return w, h
}
