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

import (
	"strings"
	"testing"
)

func TestWordWrap_Naive(t *testing.T) {
	l := NewWordWrap(BasicProvider{})
	box, err := l.Layout([]Span{{Text: "Hello world from Go", Font: FontSpec{}}}, 50)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(box.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(box.Lines))
	}
	if box.Width <= 0 || box.Height <= 0 {
		t.Fatalf("expected positive box size: %+v", box)
	}
}

func TestWordWrap_NewlinesKeepBlankLines(t *testing.T) {
	l := NewWordWrap(BasicProvider{})
	box, err := l.Layout([]Span{{Text: "one\n\nthree"}}, 0)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(box.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(box.Lines))
	}
	if len(box.Lines[1].Spans) != 0 || box.Lines[1].Height <= 0 {
		t.Fatalf("blank line should be empty with height: %+v", box.Lines[1])
	}
}

func TestWordWrap_NormalizesControlWhitespace(t *testing.T) {
	l := NewWordWrap(BasicProvider{})
	box, err := l.Layout([]Span{{Text: "Wear goggles\r\nUse gloves"}}, 500)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(box.Lines) != 2 {
		t.Fatalf("CRLF should break once, got %d lines", len(box.Lines))
	}
	box, err = l.Layout([]Span{{Text: "old\rmac\tstyle"}}, 500)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(box.Lines) != 2 {
		t.Fatalf("lone CR should break, got %d lines", len(box.Lines))
	}
	for _, ln := range box.Lines {
		for _, sp := range ln.Spans {
			if strings.ContainsAny(sp.Text, "\r\t") {
				t.Fatalf("control character left in span %q", sp.Text)
			}
		}
	}
}

func TestWordWrap_SplitsLongWords(t *testing.T) {
	l := NewWordWrap(BasicProvider{})
	long := "https://example.test/" + strings.Repeat("a", 60)
	box, err := l.Layout([]Span{{Text: long}}, 70) // 10 glyphs of 7px
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	var joined strings.Builder
	for _, ln := range box.Lines {
		if ln.Width > 70 {
			t.Fatalf("line exceeds width: %v", ln.Width)
		}
		for _, sp := range ln.Spans {
			joined.WriteString(sp.Text)
		}
	}
	if joined.String() != long {
		t.Fatalf("text lost while splitting: %q", joined.String())
	}
}

func TestLeadingIncreasesHeight(t *testing.T) {
	l := NewWordWrap(BasicProvider{})
	b0, _ := l.Layout([]Span{{Text: "Hello world from Go"}}, 50)
	b1, _ := l.Layout([]Span{{Text: "Hello world from Go", Leading: 4}}, 50)
	if !(b1.Height > b0.Height) {
		t.Fatalf("expected leading to increase height: h0=%v h1=%v", b0.Height, b1.Height)
	}
}

func TestMeasure_Deterministic(t *testing.T) {
	w1, h1 := Measure(BasicProvider{}, []Span{{Text: "ABC"}})
	w2, h2 := Measure(BasicProvider{}, []Span{{Text: "A"}, {Text: "BC"}})
	if w1 != w2 || h1 != h2 {
		t.Fatalf("expected same measure, got w1=%v h1=%v vs w2=%v h2=%v", w1, h1, w2, h2)
	}
}
