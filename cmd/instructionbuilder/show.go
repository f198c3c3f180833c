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
	"io"
	"strings"

	"github.com/spf13/cobra"

	"instructionbuilder/internal/editor"
	"instructionbuilder/internal/export"
	"instructionbuilder/internal/storage"
)

func newShowCmd(a *cliApp) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the document as it will be exported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				doc := ed.Document()
				if asJSON {
					data, err := storage.Encode(doc)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), export.BuildSnapshot(doc))
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON record")
	return cmd
}

// printSnapshot renders the export view model as plain text.
func printSnapshot(w io.Writer, s export.Snapshot) error {
	var b strings.Builder
	b.WriteString(export.SnapshotTitleAccent + export.SnapshotTitleRest + "\n")
	b.WriteString(export.SnapshotSubtitle + "\n")
	for _, sec := range s.Sections {
		fmt.Fprintf(&b, "\n== %s ==\n", sec.Heading)
		for _, blk := range sec.Blocks {
			switch blk.Kind {
			case export.BlockFields:
				for _, f := range blk.Fields {
					fmt.Fprintf(&b, "%s: %s\n", f.Label, indentContinuation(f.Value))
				}
			case export.BlockOrdered:
				for i, it := range blk.Items {
					fmt.Fprintf(&b, "%d. %s\n", i+1, it)
				}
			case export.BlockUnordered:
				for _, it := range blk.Items {
					fmt.Fprintf(&b, "- %s\n", it)
				}
			case export.BlockMuted:
				b.WriteString(blk.Text + "\n")
			}
		}
	}
	b.WriteString("\n")
	for _, p := range s.Footer {
		b.WriteString(p.Text)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func indentContinuation(s string) string { return strings.ReplaceAll(s, "\n", "\n  ") }
