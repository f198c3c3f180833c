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

	"github.com/spf13/cobra"

	"instructionbuilder/internal/domain"
	"instructionbuilder/internal/editor"
)

func newSetCmd(a *cliApp) *cobra.Command {
	var (
		title, summary, difficulty, estTime string
		materials, steps, safety            string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update top-level attributes; only the given flags are changed",
		Example: `  instructionbuilder set --title "Build a Desk" --difficulty intermediate
  instructionbuilder set --steps $'Measure\nCut\nAssemble'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p editor.Patch
			flags := cmd.Flags()
			str := func(name string, v *string) *string {
				if flags.Changed(name) {
					return v
				}
				return nil
			}
			p.Title = str("title", &title)
			p.Summary = str("summary", &summary)
			p.EstTime = str("est-time", &estTime)
			p.Materials = str("materials", &materials)
			p.Steps = str("steps", &steps)
			p.Safety = str("safety", &safety)
			if flags.Changed("difficulty") {
				d, ok := domain.ParseDifficulty(difficulty)
				if !ok {
					return fmt.Errorf("unknown difficulty %q (want Beginner, Intermediate or Advanced)", difficulty)
				}
				p.Difficulty = &d
			}
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				ed.UpdateTopLevel(p)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "title")
	f.StringVar(&summary, "summary", "", "summary")
	f.StringVar(&difficulty, "difficulty", "", "Beginner, Intermediate or Advanced")
	f.StringVar(&estTime, "est-time", "", "estimated time, free text")
	f.StringVar(&materials, "materials", "", "materials and tools, one per line")
	f.StringVar(&steps, "steps", "", "steps, one per line")
	f.StringVar(&safety, "safety", "", "safety notes")
	return cmd
}
