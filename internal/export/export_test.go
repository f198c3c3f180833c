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
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instructionbuilder/internal/domain"
)

type fixedRasterizer struct {
	img *image.RGBA
	err error
}

func (f fixedRasterizer) Rasterize(Snapshot) (*image.RGBA, error) { return f.img, f.err }

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func sampleDoc() domain.Document {
	return domain.Document{
		Title:      "Build a Minimalist Desk",
		Summary:    "A sturdy desk from a single sheet of plywood.",
		Difficulty: domain.Intermediate,
		EstTime:    "2 hours",
		Materials:  "Plywood\nWood glue\nScrews",
		Steps:      "Prepare workspace\nMeasure and mark\nCut pieces\nAssemble",
		Safety:     "Wear goggles.",
		Custom: []domain.CustomField{
			{ID: "1", Label: "Plans", Type: domain.FieldURL, Value: "https://example.test/plans/minimalist-desk-with-a-rather-long-path"},
		},
	}
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"":                        "instructions.pdf",
		"   ":                     "instructions.pdf",
		"Build a Desk":            "Build a Desk.pdf",
		"  padded  ":              "padded.pdf",
		"a/b\\c:d*e?f\"g<h>i|j":   "a_b_c_d_e_f_g_h_i_j.pdf",
		"tabs\tand\nnewlines":     "tabs_and_newlines.pdf",
		"trailing dots...":        "trailing dots.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, FileName(in), "FileName(%q)", in)
	}

	long := FileName(strings.Repeat("é", 300))
	assert.LessOrEqual(t, len(long), maxBaseName+len(".pdf"))
	assert.True(t, utf8.ValidString(long), "cut must land on a rune boundary")
	assert.Equal(t, strings.Repeat("é", maxBaseName/2)+".pdf", long)
}

func TestExportLongTitle(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDoc()
	doc.Title = strings.Repeat("Долгий заголовок ", 30)
	path, err := ExportPDF(doc, dir, Options{Rasterizer: fixedRasterizer{img: solid(100, 100)}})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.LessOrEqual(t, len(filepath.Base(path)), maxBaseName+len(".pdf"))
}

func TestScaleIsClamped(t *testing.T) {
	for in, want := range map[float64]float64{0: DefaultScale, -3: DefaultScale, 1.5: 1.5, MaxScale: MaxScale, 100: MaxScale} {
		o, err := Options{Scale: in, Rasterizer: fixedRasterizer{}}.withDefaults()
		require.NoError(t, err)
		assert.Equal(t, want, o.Scale, "scale %v", in)
	}
	r, err := NewSnapshotRasterizer(100, color.RGBA{})
	require.NoError(t, err)
	assert.Equal(t, float64(MaxScale), r.Scale)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	_, err = ParseFormat("svg")
	assert.Error(t, err)
}

func TestExportPDFWithStubRasterizer(t *testing.T) {
	dir := t.TempDir()
	opt := Options{PageSize: PageSize{Name: "sq", W: 100, H: 100}, Rasterizer: fixedRasterizer{img: solid(200, 640)}}
	path, err := ExportPDF(sampleDoc(), dir, opt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Build a Minimalist Desk.pdf"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	assert.Equal(t, 4, bytes.Count(b, []byte("/Type /Page\n")), "expected one page per band")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestExportErrorsAreReturned(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	_, err := ExportPDF(sampleDoc(), dir, Options{Rasterizer: fixedRasterizer{err: boom}})
	assert.ErrorIs(t, err, boom)

	_, err = ExportPDF(sampleDoc(), dir, Options{Rasterizer: fixedRasterizer{}})
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = ExportPDF(sampleDoc(), dir, Options{Rasterizer: fixedRasterizer{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}})
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = Export(sampleDoc(), dir, Format("svg"), Options{Rasterizer: fixedRasterizer{img: solid(10, 10)}})
	assert.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestSnapshotRasterizerRendersTallDarkImage(t *testing.T) {
	r, err := NewSnapshotRasterizer(1, color.RGBA{})
	require.NoError(t, err)

	short, err := r.Rasterize(BuildSnapshot(domain.Document{Difficulty: domain.Beginner}))
	require.NoError(t, err)
	assert.Equal(t, DefaultLayoutWidth, short.Bounds().Dx())
	assert.Equal(t, Background, short.RGBAAt(1, 1), "corner should be background")

	doc := sampleDoc()
	for i := 0; i < 40; i++ {
		doc.Steps += "\nAnother careful step that needs a full sentence of explanation to wrap"
	}
	tall, err := r.Rasterize(BuildSnapshot(doc))
	require.NoError(t, err)
	assert.Greater(t, tall.Bounds().Dy(), short.Bounds().Dy())
	assert.Greater(t, len(Paginate(tall.Bounds().Dx(), tall.Bounds().Dy(), A4)), 1)

	var hasBlue bool
	for y := 0; y < 200 && !hasBlue; y++ {
		for x := 0; x < tall.Bounds().Dx(); x++ {
			if tall.RGBAAt(x, y) == NeonBlue {
				hasBlue = true
				break
			}
		}
	}
	assert.True(t, hasBlue, "header should use the neon blue accent")
}

func TestExportPNGEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportPNG(domain.Document{Difficulty: domain.Beginner}, dir, Options{Scale: 1})
	require.NoError(t, err)
	assert.Equal(t, "instructions.png", filepath.Base(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}
