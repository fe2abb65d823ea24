/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package session holds the editable state of one prompt document and the
// transitions that change it. Apply is a pure reducer: it takes a state and an
// event and returns the next state without touching the input. Store wraps a
// single State for callers that need serialized access from several goroutines.
package session

import (
	"promptarchitect/internal/document"
	"promptarchitect/internal/domain"
	"promptarchitect/internal/reconcile"
)

// State is the six-slice session document.
type State document.Slices

// Env carries the collaborators a transition may need.
// A zero Env uses random ids and the EvictSeed merge law.
type Env struct {
	NewID domain.IDFunc
	Law   reconcile.CharacterLaw
}

func (e Env) newID() domain.IDFunc {
	if e.NewID == nil {
		return domain.NewID
	}
	return e.NewID
}

func (e Env) law() reconcile.CharacterLaw {
	if e.Law == "" {
		return reconcile.EvictSeed
	}
	return e.Law
}

// Default returns the fixed default document with fresh seed ids.
func Default(newID domain.IDFunc) State {
	if newID == nil {
		newID = domain.NewID
	}
	return State{
		Project:            domain.DefaultProject(),
		VisualLanguage:     domain.DefaultVisualLanguage(),
		Characters:         domain.DefaultCharacters(newID),
		SceneBeats:         domain.DefaultSceneBeats(newID),
		Audio:              domain.DefaultAudio(),
		GenerationSettings: domain.DefaultGenerationSettings(),
	}
}

// Snapshot assembles the current document.
func (s State) Snapshot() domain.PromptStructure {
	return document.Assemble(document.Slices(s))
}

// Character returns the character with id, if present.
func (s State) Character(id string) (domain.Character, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Character{}, false
}

// SceneBeat returns the beat with id, if present.
func (s State) SceneBeat(id string) (domain.SceneBeat, bool) {
	for _, b := range s.SceneBeats {
		if b.ID == id {
			return b, true
		}
	}
	return domain.SceneBeat{}, false
}
