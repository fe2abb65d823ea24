/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package document assembles the six session slices into a PromptStructure
// snapshot and renders it as the JSON text handed to the video generator.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"promptarchitect/internal/domain"
)

// Slices are the independently edited sections of a session.
type Slices struct {
	Project            domain.ProjectInfo
	VisualLanguage     domain.VisualLanguage
	Characters         []domain.Character
	SceneBeats         []domain.SceneBeat
	Audio              domain.AudioDirection
	GenerationSettings domain.GenerationSettings
}

// Assemble projects s into a snapshot. Collections are copied so the snapshot
// does not share backing arrays with s; empty collections become empty, not nil.
// No validation or defaulting happens here.
func Assemble(s Slices) domain.PromptStructure {
	chars := make([]domain.Character, len(s.Characters))
	copy(chars, s.Characters)
	beats := make([]domain.SceneBeat, len(s.SceneBeats))
	copy(beats, s.SceneBeats)
	return domain.PromptStructure{
		Project:            s.Project,
		VisualLanguage:     s.VisualLanguage,
		Characters:         chars,
		SceneBeats:         beats,
		Audio:              s.Audio,
		GenerationSettings: s.GenerationSettings,
		DirectorNotes:      domain.DirectorNotes,
	}
}

// Encode renders p as UTF-8 JSON indented by two spaces. Keys follow the record
// field order, HTML characters are written literally and there is no trailing
// newline, so equal snapshots always produce identical bytes.
func Encode(p domain.PromptStructure) ([]byte, error) {
	if p.Characters == nil {
		p.Characters = []domain.Character{}
	}
	if p.SceneBeats == nil {
		p.SceneBeats = []domain.SceneBeat{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode prompt structure: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses bytes produced by Encode.
func Decode(data []byte) (domain.PromptStructure, error) {
	var p domain.PromptStructure
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.PromptStructure{}, fmt.Errorf("decode prompt structure: %w", err)
	}
	return p, nil
}
