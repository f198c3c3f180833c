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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"instructionbuilder/internal/export"
)

// neonTheme is the dark neon blue and green look of the exported snapshot.
type neonTheme struct{ base fyne.Theme }

func newNeonTheme() fyne.Theme { return &neonTheme{base: theme.DefaultTheme()} }

func (t *neonTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return export.Background
	case theme.ColorNamePrimary, theme.ColorNameFocus, theme.ColorNameHyperlink:
		return export.NeonBlue
	case theme.ColorNameSuccess:
		return export.NeonGreen
	case theme.ColorNameInputBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return color.RGBA{R: 0x11, G: 0x18, B: 0x23, A: 0xff}
	case theme.ColorNameButton:
		return color.RGBA{R: 0x1a, G: 0x24, B: 0x31, A: 0xff}
	case theme.ColorNameSeparator, theme.ColorNameInputBorder:
		return color.RGBA{R: 0x1f, G: 0x2a, B: 0x37, A: 0xff}
	}
	return t.base.Color(name, theme.VariantDark)
}

func (t *neonTheme) Font(s fyne.TextStyle) fyne.Resource     { return t.base.Font(s) }
func (t *neonTheme) Icon(n fyne.ThemeIconName) fyne.Resource { return t.base.Icon(n) }
func (t *neonTheme) Size(n fyne.ThemeSizeName) float32       { return t.base.Size(n) }

// applyTheme maps the config value to a Fyne theme. "light" and "system" keep
// Fyne's default, which follows the OS variant.
func applyTheme(a fyne.App, name string) {
	switch name {
	case "light", "system":
		a.Settings().SetTheme(theme.DefaultTheme())
	default:
		a.Settings().SetTheme(newNeonTheme())
	}
}
