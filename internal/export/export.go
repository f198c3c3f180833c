/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders the instruction document into a print snapshot and
// writes it as a paginated PDF or a single PNG.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"instructionbuilder/internal/domain"
	applog "instructionbuilder/internal/log"
	"instructionbuilder/internal/telemetry"
)

// ErrNoSnapshot is returned when rendering produced no image.
var ErrNoSnapshot = errors.New("snapshot rendering produced no image")

// Format is an output format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat accepts "pdf" or "png" in any case; empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// Options controls an export. Zero values take the defaults: A4, scale 2,
// the dark theme background and a SnapshotRasterizer. Scale is capped at MaxScale.
type Options struct {
	PageSize   PageSize
	Scale      float64
	Background color.RGBA
	Rasterizer Rasterizer
}

func (o Options) withDefaults() (Options, error) {
	if o.PageSize.W <= 0 || o.PageSize.H <= 0 {
		o.PageSize = A4
	}
	o.Scale = clampScale(o.Scale)
	if o.Background.A == 0 {
		o.Background = Background
	}
	if o.Rasterizer == nil {
		r, err := NewSnapshotRasterizer(o.Scale, o.Background)
		if err != nil {
			return o, err
		}
		o.Rasterizer = r
	}
	return o, nil
}

// Render builds the snapshot for doc and rasterizes it.
func Render(doc domain.Document, opt Options) (*image.RGBA, error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}
	img, err := opt.Rasterizer.Rasterize(BuildSnapshot(doc))
	if err != nil {
		return nil, fmt.Errorf("rasterize snapshot: %w", err)
	}
	if img == nil {
		return nil, ErrNoSnapshot
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrNoSnapshot)
	}
	return img, nil
}

// ExportPDF renders doc and writes <name>.pdf into outDir, returning the path.
func ExportPDF(doc domain.Document, outDir string, opt Options) (string, error) {
	return Export(doc, outDir, FormatPDF, opt)
}

// ExportPNG renders doc and writes the full snapshot as <name>.png into outDir.
func ExportPNG(doc domain.Document, outDir string, opt Options) (string, error) {
	return Export(doc, outDir, FormatPNG, opt)
}

// Export renders doc in the given format into outDir.
func Export(doc domain.Document, outDir string, format Format, opt Options) (string, error) {
	l := applog.WithOperation(applog.WithComponent("export"), string(format))
	start := time.Now()
	opt, err := opt.withDefaults()
	if err != nil {
		return "", err
	}
	img, err := Render(doc, opt)
	if err != nil {
		l.Error("render failed", slog.Any("err", err))
		return "", err
	}

	var (
		name  string
		write func(io.Writer) error
		props = map[string]any{}
	)
	switch format {
	case FormatPDF:
		name = FileName(doc.Title)
		bands := Paginate(img.Bounds().Dx(), img.Bounds().Dy(), opt.PageSize)
		props["pages"] = len(bands)
		props["page_size"] = opt.PageSize.Name
		info := PDFInfo{Title: strings.TrimSpace(doc.Title), Creator: "Instruction Builder"}
		write = func(w io.Writer) error { return WritePDF(w, img, opt.PageSize, opt.Background, info) }
	case FormatPNG:
		name = baseName(doc.Title) + ".png"
		write = func(w io.Writer) error { return WritePNG(w, img) }
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}

	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := writeAtomic(path, write); err != nil {
		l.Error("write failed", slog.String("path", path), slog.Any("err", err))
		return "", err
	}
	l.Info("exported", slog.String("path", path), slog.Any("props", props), slog.Duration("took", time.Since(start)))
	telemetry.Event("export_"+string(format), props)
	return path, nil
}

// writeAtomic writes through a temp file in the target directory and renames it
// into place so a failed export never leaves a truncated file behind.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		_ = os.Remove(path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// DefaultBaseName is used when the title is blank.
const DefaultBaseName = "instructions"

// maxBaseName keeps names below the common 255-byte file name limit, with
// room for the extension and the temp-file suffix.
const maxBaseName = 200

// FileName returns the PDF file name for a document title.
func FileName(title string) string { return baseName(title) + ".pdf" }

var unsafeName = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

func baseName(title string) string {
	name := unsafeName.Replace(strings.TrimSpace(title))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
	if len(name) > maxBaseName {
		cut := maxBaseName
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	name = strings.TrimRight(name, ". ")
	if name == "" {
		return DefaultBaseName
	}
	return name
}
