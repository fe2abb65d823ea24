/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ideas turns a free-form brain dump into draft characters and scene beats.
// Classification is keyword and length based; there is no language model involved.
package ideas

import "promptarchitect/internal/domain"

// Kind indicates what a note line was classified as.
type Kind int

const (
	KindNone Kind = iota
	KindCharacter
	KindBeat
)

func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindBeat:
		return "beat"
	default:
		return "none"
	}
}

// MarshalText lets Kind appear by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Classification is the outcome for a single line.
// For KindCharacter, Name and Role are set. For KindBeat, Label and Objective are set.
// Rule names the table entry that matched (empty for KindNone).
type Classification struct {
	Kind      Kind   `json:"kind"`
	Rule      string `json:"rule,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	Label     string `json:"label,omitempty"`
	Objective string `json:"objective,omitempty"`
}

// Result holds the drafts produced from one brain dump, in document order.
// Both slices are non-nil.
type Result struct {
	Characters []domain.Character `json:"characters"`
	Beats      []domain.SceneBeat `json:"beats"`
}

// Empty reports whether nothing was extracted.
func (r Result) Empty() bool { return len(r.Characters) == 0 && len(r.Beats) == 0 }
