/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import "strings"

// EmptyValue is displayed for attributes the user left blank.
const EmptyValue = "—"

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseLines turns freeform multi-line text into its non-empty trimmed lines,
// in order. Any newline convention is accepted. The result is never nil.
func ParseLines(text string) []string {
	out := []string{}
	for _, seg := range strings.Split(newlines.Replace(text), "\n") {
		if s := strings.TrimSpace(seg); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// OrDash returns s, or EmptyValue when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return EmptyValue
	}
	return s
}

// FormatValue renders a custom field value for display. Values stay strings;
// the type only affects presentation.
func FormatValue(f CustomField) string {
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return EmptyValue
	}
	switch f.Type {
	case FieldNumber, FieldURL:
		return v
	default:
		return f.Value
	}
}
