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
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"runtime"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/sync/errgroup"
)

// PDFInfo is document metadata written into the PDF.
type PDFInfo struct {
	Title   string
	Creator string
}

// WritePDF paginates img to page width and writes one page per band. Each page
// shows its band full-width at the top; the rest of the page is filled with bg.
func WritePDF(w io.Writer, img *image.RGBA, page PageSize, bg color.RGBA, info PDFInfo) error {
	if img == nil {
		return ErrNoSnapshot
	}
	b := img.Bounds()
	bands := Paginate(b.Dx(), b.Dy(), page)

	encoded, err := encodeBands(img, bands)
	if err != nil {
		return err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: page.W, Ht: page.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Creator != "" {
		pdf.SetCreator(info.Creator, true)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, band := range bands {
		pdf.AddPage()
		pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
		pdf.Rect(0, 0, page.W, page.H, "F")
		if encoded[i] == nil || band.Height() <= 0 {
			continue
		}
		name := fmt.Sprintf("band-%d", i)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(encoded[i]))
		pdf.ImageOptions(name, 0, 0, page.W, band.Height(), false, opts, 0, "")
		if pdf.Err() {
			return fmt.Errorf("place page %d: %w", i+1, pdf.Error())
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// encodeBands PNG-encodes the pixel rows of every band concurrently.
// The result is indexed like bands; bands without rows stay nil.
func encodeBands(img *image.RGBA, bands []Band) ([][]byte, error) {
	out := make([][]byte, len(bands))
	b := img.Bounds()
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, band := range bands {
		if band.Y1 <= band.Y0 {
			continue
		}
		g.Go(func() error {
			sub := img.SubImage(image.Rect(b.Min.X, b.Min.Y+band.Y0, b.Max.X, b.Min.Y+band.Y1))
			var buf bytes.Buffer
			if err := png.Encode(&buf, sub); err != nil {
				return fmt.Errorf("encode page %d: %w", i+1, err)
			}
			out[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
