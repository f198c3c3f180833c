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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"instructionbuilder/internal/textlayout"
)

// Rasterizer renders a snapshot into a single tall image.
type Rasterizer interface {
	Rasterize(Snapshot) (*image.RGBA, error)
}

// Theme colors.
var (
	Background = color.RGBA{R: 0x0b, G: 0x0f, B: 0x14, A: 0xff}
	NeonBlue   = color.RGBA{R: 0x00, G: 0xd4, B: 0xff, A: 0xff}
	NeonGreen  = color.RGBA{R: 0x39, G: 0xff, B: 0x14, A: 0xff}

	textColor   = color.RGBA{R: 0xe6, G: 0xf1, B: 0xff, A: 0xff}
	labelColor  = color.RGBA{R: 0x8b, G: 0x9b, B: 0xb0, A: 0xff}
	mutedColor  = color.RGBA{R: 0x6b, G: 0x7a, B: 0x8c, A: 0xff}
	panelColor  = color.RGBA{R: 0x11, G: 0x18, B: 0x23, A: 0xff}
	borderColor = color.RGBA{R: 0x1f, G: 0x2a, B: 0x37, A: 0xff}
)

// Layout constants in layout units (one unit is one CSS pixel of the
// original page; Scale device pixels per unit).
const (
	DefaultLayoutWidth = 794
	DefaultScale       = 2
	// MaxScale caps the pixel density; a tall document at higher scales
	// needs hundreds of megabytes of RGBA.
	MaxScale = 4

	pagePad      = 40
	sectionPad   = 20
	sectionGap   = 18
	columnGap    = 24
	blockGap     = 14
	labelGap     = 4
	listIndent   = 28
	itemGap      = 6
	headerRule   = 3
	headingGap   = 12
	footerMargin = 24
)

// SnapshotRasterizer lays a snapshot out with textlayout on the embedded Go
// fonts and paints it on a solid background. It is not safe for concurrent use.
type SnapshotRasterizer struct {
	Width      float32 // layout units
	Scale      float64 // device pixels per layout unit
	Background color.RGBA

	fonts *textlayout.FontLibrary
}

func NewSnapshotRasterizer(scale float64, bg color.RGBA) (*SnapshotRasterizer, error) {
	lib, err := textlayout.NewGoFontLibrary()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	scale = clampScale(scale)
	if bg.A == 0 {
		bg = Background
	}
	return &SnapshotRasterizer{Width: DefaultLayoutWidth, Scale: scale, Background: bg, fonts: lib}, nil
}

// clampScale maps non-positive scales to DefaultScale and caps the rest at MaxScale.
func clampScale(s float64) float64 {
	if s <= 0 {
		return DefaultScale
	}
	return min(s, MaxScale)
}

// paintOp is one drawing instruction produced by the layout pass.
type paintOp interface {
	paint(dst *image.RGBA, p textlayout.Provider)
}

type rectOp struct {
	r      image.Rectangle
	fill   color.RGBA
	border *color.RGBA
}

func (o rectOp) paint(dst *image.RGBA, _ textlayout.Provider) {
	draw.Draw(dst, o.r, image.NewUniform(o.fill), image.Point{}, draw.Src)
	if o.border != nil {
		strokeRect(dst, o.r.Min.X, o.r.Min.Y, o.r.Max.X-1, o.r.Max.Y-1, *o.border)
	}
}

type textOp struct {
	x, y float32
	box  textlayout.TextBox
	col  color.RGBA
}

func (o textOp) paint(dst *image.RGBA, p textlayout.Provider) {
	src := image.NewUniform(o.col)
	y := o.y
	for _, ln := range o.box.Lines {
		x := o.x
		base := fixed.I(int(math.Round(float64(y + ln.Ascent))))
		for _, sp := range ln.Spans {
			face, _ := p.Resolve(sp.Font)
			d := &font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.Point26_6{X: fixed.I(int(math.Round(float64(x)))), Y: base}}
			d.DrawString(sp.Text)
			x += textlayout.Advance(face, sp.Text)
		}
		y += ln.Height
	}
}

// runOp draws differently colored pieces on one baseline.
type runOp struct {
	x, y  float32
	parts []runPart
}

type runPart struct {
	span textlayout.Span
	col  color.RGBA
}

func (o runOp) paint(dst *image.RGBA, p textlayout.Provider) {
	x := o.x
	for _, part := range o.parts {
		face, m := p.Resolve(part.span.Font)
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(part.col),
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(int(math.Round(float64(x)))), Y: fixed.I(int(math.Round(float64(o.y + m.Ascent))))},
		}
		d.DrawString(part.span.Text)
		x += textlayout.Advance(face, part.span.Text)
	}
}

// layout carries the cursor of the layout pass. All values are device pixels.
type layout struct {
	provider textlayout.Provider
	wrap     *textlayout.WordWrapLayouter
	scale    float32
	y        float32
	ops      []paintOp
	err      error
}

func (l *layout) u(v float32) float32 { return v * l.scale }

// text lays out s in style at (x, y) within width and returns its height.
func (l *layout) text(x, y, width float32, style string, s string, col color.RGBA) float32 {
	sp := textlayout.MustStyle(style).Span(s)
	sp.Leading = l.u(sp.Leading)
	box, err := l.wrap.Layout([]textlayout.Span{sp}, width)
	if err != nil && l.err == nil {
		l.err = err
	}
	l.ops = append(l.ops, textOp{x: x, y: y, box: box, col: col})
	return box.Height
}

func (l *layout) run(x, y float32, parts []runPart) float32 {
	var h float32
	for _, p := range parts {
		_, m := l.provider.Resolve(p.span.Font)
		h = max(h, m.Ascent+m.Descent+m.LineGap+l.u(p.span.Leading))
	}
	l.ops = append(l.ops, runOp{x: x, y: y, parts: parts})
	return h
}

func pixelRect(x0, y0, x1, y1 float32) image.Rectangle {
	return image.Rect(int(math.Round(float64(x0))), int(math.Round(float64(y0))), int(math.Round(float64(x1))), int(math.Round(float64(y1))))
}

// Rasterize lays the whole snapshot out first and then paints it. The image
// height is the full content height.
func (r *SnapshotRasterizer) Rasterize(s Snapshot) (*image.RGBA, error) {
	if r.fonts == nil {
		lib, err := textlayout.NewGoFontLibrary()
		if err != nil {
			return nil, fmt.Errorf("load fonts: %w", err)
		}
		r.fonts = lib
	}
	scale := clampScale(r.Scale)
	width := r.Width
	if width <= 0 {
		width = DefaultLayoutWidth
	}
	provider := textlayout.OTProvider{Lib: r.fonts, DPI: 72 * scale}
	l := &layout{provider: provider, wrap: textlayout.NewWordWrap(provider), scale: float32(scale)}
	imgW := l.u(width)
	left := l.u(pagePad)
	inner := imgW - 2*left

	// header
	l.y = l.u(pagePad)
	title := textlayout.MustStyle(textlayout.StyleTitle)
	l.y += l.run(left, l.y, []runPart{
		{span: title.Span(SnapshotTitleAccent), col: NeonBlue},
		{span: title.Span(SnapshotTitleRest), col: textColor},
	})
	l.y += l.text(left, l.y, inner, textlayout.StyleSubtitle, SnapshotSubtitle, labelColor)
	l.y += l.u(10)
	l.ops = append(l.ops, rectOp{r: pixelRect(left, l.y, left+inner, l.y+l.u(headerRule)), fill: NeonBlue})
	l.y += l.u(headerRule) + l.u(sectionGap)

	for _, sec := range s.Sections {
		l.section(left, inner, sec)
		l.y += l.u(sectionGap)
	}

	// footer
	l.y += l.u(footerMargin) - l.u(sectionGap)
	footer := textlayout.MustStyle(textlayout.StyleFooter)
	parts := make([]runPart, 0, len(s.Footer))
	for _, p := range s.Footer {
		col := labelColor
		switch p.Accent {
		case AccentBlue:
			col = NeonBlue
		case AccentGreen:
			col = NeonGreen
		}
		parts = append(parts, runPart{span: footer.Span(p.Text), col: col})
	}
	l.y += l.run(left, l.y, parts)
	l.y += l.u(pagePad)

	if l.err != nil {
		return nil, fmt.Errorf("layout snapshot: %w", l.err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(math.Round(float64(imgW))), int(math.Ceil(float64(l.y)))))
	bg := r.Background
	if bg.A == 0 {
		bg = Background
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	for _, op := range l.ops {
		op.paint(img, provider)
	}
	return img, nil
}

// section reserves the panel first, then fills its content and closes the
// panel once the content height is known.
func (l *layout) section(left, inner float32, sec Section) {
	top := l.y
	panelIdx := len(l.ops)
	l.ops = append(l.ops, nil)

	x := left + l.u(sectionPad)
	w := inner - 2*l.u(sectionPad)
	l.y += l.u(sectionPad)
	l.y += l.text(x, l.y, w, textlayout.StyleHeading, sec.Heading, NeonGreen)
	l.y += l.u(headingGap)

	for i, b := range sec.Blocks {
		if i > 0 {
			l.y += l.u(blockGap)
		}
		switch b.Kind {
		case BlockFields:
			l.fieldRow(x, w, b.Fields)
		case BlockOrdered, BlockUnordered:
			l.list(x, w, b)
		case BlockMuted:
			l.y += l.text(x, l.y, w, textlayout.StyleMuted, b.Text, mutedColor)
		}
	}
	l.y += l.u(sectionPad)
	border := borderColor
	l.ops[panelIdx] = rectOp{r: pixelRect(left, top, left+inner, l.y), fill: panelColor, border: &border}
}

func (l *layout) fieldRow(x, w float32, fields []LabeledValue) {
	if len(fields) == 0 {
		return
	}
	n := float32(len(fields))
	colW := (w - (n-1)*l.u(columnGap)) / n
	var rowH float32
	for i, f := range fields {
		cx := x + float32(i)*(colW+l.u(columnGap))
		h := l.text(cx, l.y, colW, textlayout.StyleLabel, f.Label, labelColor)
		h += l.u(labelGap)
		h += l.text(cx, l.y+h, colW, textlayout.StyleBody, f.Value, textColor)
		rowH = max(rowH, h)
	}
	l.y += rowH
}

func (l *layout) list(x, w float32, b Block) {
	indent := l.u(listIndent)
	for i, item := range b.Items {
		if i > 0 {
			l.y += l.u(itemGap)
		}
		marker := "•"
		col := NeonGreen
		if b.Kind == BlockOrdered {
			marker = strconv.Itoa(i+1) + "."
			col = NeonBlue
		}
		l.text(x, l.y, indent, textlayout.StyleBody, marker, col)
		l.y += l.text(x+indent, l.y, w-indent, textlayout.StyleBody, item, textColor)
	}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}
