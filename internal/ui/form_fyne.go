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
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"instructionbuilder/internal/domain"
	"instructionbuilder/internal/editor"
)

// formView is the scrolling instruction form. Entries write through the editor;
// the editor never writes back into entries except through load.
type formView struct {
	ed  *editor.Editor
	log *slog.Logger

	// loading suppresses entry callbacks while load sets widget text.
	loading bool

	title, summary, estTime, safety, steps, materials *widget.Entry
	difficulty                                        *widget.Select

	customBox *fyne.Container
	content   *fyne.Container
	scroll    *container.Scroll
	anchors   map[string]fyne.CanvasObject
	nav       map[string]*widget.Button
	tracker   *editor.Tracker
	status    *widget.Label

	onExportPDF func()
	onClear     func()
	onHelp      func()
	onFieldAdd  func()
}

func newFormView(ed *editor.Editor, l *slog.Logger) *formView {
	v := &formView{
		ed:      ed,
		log:     l,
		anchors: make(map[string]fyne.CanvasObject),
		nav:     make(map[string]*widget.Button),
		tracker: editor.NewTracker(),
		status:  widget.NewLabel("Ready"),
	}
	v.title = v.entry(false, "e.g., Build a Minimalist Desk", func(s string) { v.ed.UpdateTopLevel(editor.Patch{Title: &s}) })
	v.summary = v.entry(true, "What is this and why should someone do it?", func(s string) { v.ed.UpdateTopLevel(editor.Patch{Summary: &s}) })
	v.estTime = v.entry(false, "e.g., 2 hours", func(s string) { v.ed.UpdateTopLevel(editor.Patch{EstTime: &s}) })
	v.safety = v.entry(true, "Gloves, goggles, ventilation, adhesive warnings, etc.", func(s string) { v.ed.UpdateTopLevel(editor.Patch{Safety: &s}) })
	v.steps = v.entry(true, "1) Prepare workspace\n2) Measure and mark\n3) Cut pieces\n4) Assemble\n5) Sand and finish", func(s string) { v.ed.UpdateTopLevel(editor.Patch{Steps: &s}) })
	v.materials = v.entry(true, "Plywood 3/4\"\nWood glue\n#8 screws\nOrbital sander\nFinish of choice", func(s string) { v.ed.UpdateTopLevel(editor.Patch{Materials: &s}) })

	levels := make([]string, 0, len(domain.Difficulties()))
	for _, d := range domain.Difficulties() {
		levels = append(levels, string(d))
	}
	v.difficulty = widget.NewSelect(levels, func(s string) {
		if v.loading {
			return
		}
		d := domain.Difficulty(s)
		v.ed.UpdateTopLevel(editor.Patch{Difficulty: &d})
	})
	v.customBox = container.NewVBox()
	return v
}

func (v *formView) entry(multi bool, placeholder string, apply func(string)) *widget.Entry {
	e := widget.NewEntry()
	if multi {
		e = widget.NewMultiLineEntry()
		e.Wrapping = fyne.TextWrapWord
		e.SetMinRowsVisible(4)
	}
	e.SetPlaceHolder(placeholder)
	e.OnChanged = func(s string) {
		if v.loading {
			return
		}
		apply(s)
	}
	return e
}

func heading(text string) *widget.Label {
	h := widget.NewLabel(text)
	h.TextStyle = fyne.TextStyle{Bold: true}
	return h
}

func labeled(label string, obj fyne.CanvasObject) fyne.CanvasObject {
	return container.NewVBox(widget.NewLabel(label), obj)
}

func panel(objs ...fyne.CanvasObject) fyne.CanvasObject {
	return widget.NewCard("", "", container.NewVBox(objs...))
}

// build assembles the window content: section navigator on top, the form in
// a vertical scroll and a status line at the bottom.
func (v *formView) build() fyne.CanvasObject {
	call := func(f *func()) func() {
		return func() {
			if *f != nil {
				(*f)()
			}
		}
	}
	downloadTop := widget.NewButtonWithIcon("Download PDF", theme.DocumentSaveIcon(), call(&v.onExportPDF))
	downloadTop.Importance = widget.SuccessImportance
	help := widget.NewButtonWithIcon("", theme.QuestionIcon(), call(&v.onHelp))

	v.anchors[editor.SectionOverview] = panel(
		container.NewBorder(nil, nil, nil, help, heading("Instruction Builder")),
		widget.NewLabel("Create clear, professional instruction sets for any hobby, DIY or project. Everything saves automatically and exports to a PDF."),
		heading("Start"),
		labeled("Title *", v.title),
		labeled("Summary", v.summary),
		heading("Quick Tips"),
		widget.NewLabel(quickTips),
		container.NewHBox(downloadTop),
	)
	v.anchors[editor.SectionCoreDetails] = panel(
		heading("Core Details"),
		widget.NewLabel("Most people scan: title, difficulty, time, safety."),
		container.NewGridWithColumns(2, labeled("Difficulty", v.difficulty), labeled("Estimated Time", v.estTime)),
		labeled("Safety Notes (important)", v.safety),
	)
	v.anchors[editor.SectionSteps] = panel(heading("Step-by-Step"), labeled("Steps (one per line)", v.steps))
	v.anchors[editor.SectionMaterials] = panel(heading("Materials & Tools"), labeled("List (one per line)", v.materials))

	add := widget.NewButtonWithIcon("Add Custom Field", theme.ContentAddIcon(), func() {
		f := v.ed.AddField()
		v.log.Debug("field added", slog.String("id", f.ID))
		v.rebuildCustom()
		if v.onFieldAdd != nil {
			v.onFieldAdd()
		}
	})
	v.anchors[editor.SectionCustom] = panel(
		heading("Custom Fields"),
		widget.NewLabel("Add specialized sections: cost breakdown, links, references, troubleshooting, etc."),
		container.NewHBox(add),
		v.customBox,
	)

	download := widget.NewButtonWithIcon("Download PDF", theme.DocumentSaveIcon(), call(&v.onExportPDF))
	download.Importance = widget.SuccessImportance
	clearBtn := widget.NewButtonWithIcon("Clear Local Save", theme.DeleteIcon(), call(&v.onClear))
	v.anchors[editor.SectionExport] = panel(
		heading("Export"),
		widget.NewLabel("Everything above renders to PDF with the neon theme preserved."),
		container.NewHBox(download, clearBtn),
	)

	v.content = container.NewVBox()
	navBar := container.NewHBox(heading("Instruction Builder"))
	for _, s := range editor.Sections() {
		v.content.Add(v.anchors[s.ID])
		id := s.ID
		b := widget.NewButton(s.Label, func() { v.scrollTo(id) })
		b.Importance = widget.LowImportance
		v.nav[id] = b
		navBar.Add(b)
	}
	v.scroll = container.NewVScroll(v.content)
	v.scroll.OnScrolled = func(fyne.Position) { v.observe() }
	v.setActive(v.tracker.Active())

	return container.NewBorder(navBar, v.status, nil, nil, v.scroll)
}

// load puts doc into the widgets without echoing the changes to the editor.
func (v *formView) load(doc domain.Document) {
	v.loading = true
	v.title.SetText(doc.Title)
	v.summary.SetText(doc.Summary)
	v.estTime.SetText(doc.EstTime)
	v.safety.SetText(doc.Safety)
	v.steps.SetText(doc.Steps)
	v.materials.SetText(doc.Materials)
	v.difficulty.SetSelected(string(doc.Difficulty))
	v.loading = false
	v.rebuildCustom()
}

// rebuildCustom recreates one card per custom field in editor order.
func (v *formView) rebuildCustom() {
	v.customBox.RemoveAll()
	for _, f := range v.ed.Fields() {
		v.customBox.Add(v.fieldEditor(f))
	}
	v.customBox.Refresh()
}

func (v *formView) fieldEditor(f domain.CustomField) fyne.CanvasObject {
	id := f.ID
	label := widget.NewEntry()
	label.SetPlaceHolder("e.g., Safety Notes")
	label.SetText(f.Label)
	label.OnChanged = func(s string) { v.ed.SetFieldLabel(id, s) }

	value := valueEntry(f)
	value.OnChanged = func(s string) { v.ed.SetFieldValue(id, s) }

	types := domain.FieldTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Label()
	}
	kind := widget.NewSelect(names, nil)
	kind.SetSelected(f.Type.Label())
	kind.OnChanged = func(s string) {
		for _, t := range types {
			if t.Label() == s && t != f.Type {
				v.ed.SetFieldType(id, t)
				v.rebuildCustom()
				return
			}
		}
	}

	dup := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		if _, ok := v.ed.DuplicateField(id); ok {
			v.rebuildCustom()
		}
	})
	del := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if v.ed.DeleteField(id) {
			v.rebuildCustom()
		}
	})
	del.Importance = widget.DangerImportance

	return panel(
		container.NewGridWithColumns(2, labeled("Field Label *", label), labeled("Type", kind)),
		labeled("Value", value),
		container.NewHBox(dup, del),
	)
}

// valueEntry returns the input matching the field type. Number and URL entries
// validate visually but never block typing.
func valueEntry(f domain.CustomField) *widget.Entry {
	var e *widget.Entry
	switch f.Type {
	case domain.FieldLong:
		e = widget.NewMultiLineEntry()
		e.Wrapping = fyne.TextWrapWord
		e.SetMinRowsVisible(4)
	case domain.FieldNumber:
		e = widget.NewEntry()
		e.Validator = validation.NewRegexp(`^\s*(-?\d+(\.\d+)?)?\s*$`, "not a number")
	case domain.FieldURL:
		e = widget.NewEntry()
		e.Validator = validation.NewRegexp(`^\s*(\S+://\S+)?\s*$`, "not a URL")
	default:
		e = widget.NewEntry()
	}
	e.SetPlaceHolder(f.Type.Placeholder())
	e.SetText(f.Value)
	return e
}

// observe measures every section against the viewport band and updates the navigator.
func (v *formView) observe() {
	if v.scroll == nil {
		return
	}
	spans := make([]editor.Span, 0, len(v.anchors))
	for _, s := range editor.Sections() {
		obj := v.anchors[s.ID]
		spans = append(spans, editor.Span{ID: s.ID, Top: obj.Position().Y, Height: obj.Size().Height})
	}
	ms := editor.BandVisibility(spans, v.scroll.Offset.Y, v.scroll.Size().Height)
	if id, changed := v.tracker.Observe(ms); changed {
		v.setActive(id)
	}
}

func (v *formView) scrollTo(id string) {
	obj, ok := v.anchors[id]
	if !ok {
		return
	}
	v.scroll.Offset = fyne.NewPos(0, obj.Position().Y)
	v.scroll.Refresh()
	v.observe()
	// a short last section can never reach the band; clicking still selects it
	if v.tracker.Set(id) {
		v.setActive(id)
	}
}

// setActive highlights exactly one navigator entry.
func (v *formView) setActive(id string) {
	for sid, b := range v.nav {
		imp := widget.LowImportance
		if sid == id {
			imp = widget.HighImportance
		}
		if b.Importance != imp {
			b.Importance = imp
			b.Refresh()
		}
	}
}

func (v *formView) setStatus(s string) { v.status.SetText(s) }
