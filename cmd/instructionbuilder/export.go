/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"instructionbuilder/internal/editor"
	"instructionbuilder/internal/export"
)

func newExportCmd(a *cliApp) *cobra.Command {
	var (
		format, outDir, page string
		scale                float64
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the document to PDF or PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("page") {
				page = a.cfg.Export.PageSize
			}
			ps, err := export.ParsePageSize(page)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("scale") {
				scale = a.cfg.Export.Scale
			} else if scale <= 0 || scale > export.MaxScale {
				return fmt.Errorf("--scale must be in (0, %d], got %g", export.MaxScale, scale)
			}
			if strings.TrimSpace(outDir) == "" {
				outDir = a.cfg.Export.Dir
			}
			if strings.TrimSpace(outDir) == "" {
				outDir = "."
			}
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				path, err := export.Export(ed.Document(), outDir, f, export.Options{PageSize: ps, Scale: scale})
				if err != nil {
					return fmt.Errorf("export %s: %w", f, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&format, "format", "pdf", "pdf or png")
	fl.StringVar(&outDir, "out", "", "output directory (default: export.dir from config, else the current directory)")
	fl.StringVar(&page, "page", "a4", "PDF page size: a4 or letter")
	fl.Float64Var(&scale, "scale", export.DefaultScale, "device pixels per layout unit, at most 4")
	return cmd
}
