/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

import "fmt"

// SliceID names one of the six top-level sections. Values match the JSON keys
// of the assembled document.
type SliceID string

const (
	SliceProject            SliceID = "project"
	SliceVisualLanguage     SliceID = "visualLanguage"
	SliceCharacters         SliceID = "characters"
	SliceSceneBeats         SliceID = "sceneBeats"
	SliceAudio              SliceID = "audio"
	SliceGenerationSettings SliceID = "generationSettings"
)

// EntityKind selects the collection for add and remove.
type EntityKind string

const (
	KindCharacter EntityKind = "character"
	KindBeat      EntityKind = "beat"
)

// Event is an input to Apply.
type Event interface {
	// Name is a short label used in logs, metrics and undo history.
	Name() string
}

// Edit sets one field. For singleton slices Path is the field's JSON name
// ("title"); for characters and sceneBeats it is "<id>.<field>".
type Edit struct {
	Slice SliceID `json:"slice"`
	Path  string  `json:"path"`
	Value string  `json:"value"`
}

// Add appends a default-valued character or beat.
type Add struct {
	Kind EntityKind `json:"kind"`
}

// Remove deletes the character or beat with ID.
type Remove struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// RunExtraction organizes notes into characters and beats. An empty Text
// extracts from the project's brain dump.
type RunExtraction struct {
	Text string `json:"text"`
}

// Reset restores the default document.
type Reset struct{}

func (Edit) Name() string          { return "edit" }
func (a Add) Name() string         { return "add_" + string(a.Kind) }
func (r Remove) Name() string      { return "remove_" + string(r.Kind) }
func (RunExtraction) Name() string { return "extract" }
func (Reset) Name() string         { return "reset" }

func (e Edit) String() string   { return fmt.Sprintf("edit %s.%s", e.Slice, e.Path) }
func (r Remove) String() string { return fmt.Sprintf("remove %s %s", r.Kind, r.ID) }

// Valid reports whether k names a collection.
func (k EntityKind) Valid() bool { return k == KindCharacter || k == KindBeat }

func (id SliceID) collection() bool { return id == SliceCharacters || id == SliceSceneBeats }
