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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"instructionbuilder/internal/domain"
	"instructionbuilder/internal/editor"
	"instructionbuilder/internal/telemetry"
)

// fieldFlags are the optional attribute flags shared by "field add" and "field update".
type fieldFlags struct {
	label, kind, value string
}

func (ff *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.label, "label", "", "field label")
	cmd.Flags().StringVar(&ff.kind, "type", "", "short, long, number or url")
	cmd.Flags().StringVar(&ff.value, "value", "", "field value")
}

// apply overlays the changed flags onto f.
func (ff *fieldFlags) apply(cmd *cobra.Command, f *domain.CustomField) error {
	flags := cmd.Flags()
	if flags.Changed("label") {
		f.Label = ff.label
	}
	if flags.Changed("type") {
		t, ok := domain.ParseFieldType(ff.kind)
		if !ok {
			return fmt.Errorf("unknown field type %q (want short, long, number or url)", ff.kind)
		}
		f.Type = t
	}
	if flags.Changed("value") {
		f.Value = ff.value
	}
	return nil
}

func errNoField(id string) error { return fmt.Errorf("no field with id %q", id) }

func newFieldCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage custom fields",
	}
	cmd.AddCommand(
		newFieldAddCmd(a),
		newFieldListCmd(a),
		newFieldUpdateCmd(a),
		newFieldDuplicateCmd(a),
		newFieldDeleteCmd(a),
	)
	return cmd
}

func newFieldAddCmd(a *cliApp) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a new field and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				f := domain.CustomField{Label: domain.NewFieldLabel, Type: domain.FieldShort}
				if err := ff.apply(cmd, &f); err != nil {
					return err
				}
				added := ed.AddField()
				if f.Label != added.Label || f.Type != added.Type || f.Value != added.Value {
					ed.UpdateField(added.ID, f)
				}
				telemetry.Event(telemetry.EventFieldAdd, nil)
				fmt.Fprintln(cmd.OutOrStdout(), added.ID)
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func newFieldListCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom fields in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTYPE\tLABEL\tVALUE")
				for _, f := range ed.Fields() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Type, f.Label, domain.FormatValue(f))
				}
				return tw.Flush()
			})
		},
	}
}

func newFieldUpdateCmd(a *cliApp) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the label, type or value of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				f, ok := ed.Field(id)
				if !ok {
					return errNoField(id)
				}
				if err := ff.apply(cmd, &f); err != nil {
					return err
				}
				ed.UpdateField(id, f)
				return nil
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func newFieldDuplicateCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a field to the end of the list and print the new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				f, ok := ed.DuplicateField(args[0])
				if !ok {
					return errNoField(args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), f.ID)
				return nil
			})
		},
	}
}

func newFieldDeleteCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a field",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(cmd, func(ed *editor.Editor) error {
				if !ed.DeleteField(args[0]) {
					return errNoField(args[0])
				}
				return nil
			})
		},
	}
}
