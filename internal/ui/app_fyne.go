//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"

	"instructionbuilder/internal/crash"
	"instructionbuilder/internal/editor"
	"instructionbuilder/internal/export"
	applog "instructionbuilder/internal/log"
	"instructionbuilder/internal/storage"
	"instructionbuilder/internal/telemetry"
	"instructionbuilder/internal/version"
)

const (
	prefWindowWidth  = "window.width"
	prefWindowHeight = "window.height"
)

// Run starts the desktop form and blocks until the window is closed.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("backend", opts.Config.Storage.Backend))

	fyneApp := app.NewWithID(AppID)
	applyTheme(fyneApp, opts.Config.General.Theme)
	prefs := fyneApp.Preferences()

	st, err := storage.New(opts.Config.Storage, prefs)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if c, ok := st.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	res := storage.Open(st)

	w := fyneApp.NewWindow("Instruction Builder")
	winW := max(prefs.IntWithFallback(prefWindowWidth, 1000), 640)
	winH := max(prefs.IntWithFallback(prefWindowHeight, 800), 480)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	var view *formView
	ed := editor.New(res.Document,
		editor.WithStore(st),
		editor.WithLogger(l),
		editor.WithOnSaveError(func(err error) {
			fyne.Do(func() { view.setStatus("Autosave failed: " + err.Error()) })
		}),
	)
	dir, _ := opts.Config.Storage.ResolveDir()
	defer crash.Recover(crash.Target{Dir: dir, Document: ed.Document})

	view = newFormView(ed, l)
	content := view.build()
	view.load(ed.Document())

	exporting := false
	doExport := func(format export.Format) {
		if exporting {
			return
		}
		exporting = true
		page, err := export.ParsePageSize(opts.Config.Export.PageSize)
		if err != nil {
			page = export.A4
		}
		eo := export.Options{PageSize: page, Scale: opts.Config.Export.Scale}
		outDir := exportDir(opts.Config.Export)
		doc := ed.Document()
		view.setStatus("Exporting…")
		go func() {
			path, err := export.Export(doc, outDir, format, eo)
			fyne.Do(func() {
				exporting = false
				if err != nil {
					l.Error("export failed", slog.Any("err", err))
					view.setStatus("Export failed")
					dialog.ShowError(fmt.Errorf("could not export: %w", err), w)
					return
				}
				view.setStatus("Saved " + path)
				dialog.ShowInformation("Export", "Saved to:\n"+path, w)
			})
		}()
	}
	doClear := func() {
		dialog.ShowConfirm("Clear Local Save", "Reset the form to its defaults and delete the saved copy?", func(ok bool) {
			if !ok {
				return
			}
			ed.Reset()
			view.load(ed.Document())
			view.setStatus("Cleared")
			telemetry.Event(telemetry.EventDocumentClear, nil)
		}, w)
	}
	showHelp := func() { dialog.ShowInformation("How to use", helpText, w) }

	view.onExportPDF = func() { doExport(export.FormatPDF) }
	view.onClear = doClear
	view.onHelp = showHelp
	view.onFieldAdd = func() { telemetry.Event(telemetry.EventFieldAdd, nil) }

	pdfItem := fyne.NewMenuItem("Export PDF", func() { doExport(export.FormatPDF) })
	pdfItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierControl}
	pngItem := fyne.NewMenuItem("Export PNG", func() { doExport(export.FormatPNG) })
	clearItem := fyne.NewMenuItem("Clear Local Save", doClear)
	fileMenu := fyne.NewMenu("File", pdfItem, pngItem, fyne.NewMenuItemSeparator(), clearItem)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("How to use", showHelp),
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About", "Instruction Builder "+version.String(), w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
	w.Canvas().AddShortcut(pdfItem.Shortcut, func(fyne.Shortcut) { doExport(export.FormatPDF) })

	w.SetContent(content)
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt(prefWindowWidth, int(sz.Width))
		prefs.SetInt(prefWindowHeight, int(sz.Height))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		telemetry.Shutdown(ctx)
		cancel()
		w.Close()
	})

	w.Show()
	if res.Recovered {
		dialog.ShowInformation("Saved data", res.Notice, w)
	}
	fyneApp.Run()
	l.Info("UI closed")
	return nil
}
