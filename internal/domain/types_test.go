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

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPromptStructureKeyOrder(t *testing.T) {
	p := PromptStructure{
		Project:            DefaultProject(),
		VisualLanguage:     DefaultVisualLanguage(),
		Characters:         []Character{},
		SceneBeats:         []SceneBeat{},
		Audio:              DefaultAudio(),
		GenerationSettings: DefaultGenerationSettings(),
		DirectorNotes:      DirectorNotes,
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	keys := []string{`"project"`, `"visualLanguage"`, `"characters"`, `"sceneBeats"`, `"audio"`, `"generationSettings"`, `"directorNotes"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(s, k)
		if i < 0 {
			t.Fatalf("missing key %s in %s", k, s)
		}
		if i < last {
			t.Fatalf("key %s out of order", k)
		}
		last = i
	}
}

func TestEnumValidity(t *testing.T) {
	if !Aspect21x9.Valid() || AspectRatio("4:3").Valid() {
		t.Fatalf("aspect ratio validity wrong")
	}
	if !BudgetIndie.Valid() || BudgetLevel("huge").Valid() {
		t.Fatalf("budget validity wrong")
	}
	if !MotionHyperdynamic.Valid() || MotionIntensity("").Valid() {
		t.Fatalf("motion validity wrong")
	}
	if !QualityHigh.Valid() || RenderQuality("8k").Valid() {
		t.Fatalf("quality validity wrong")
	}
}

func TestDefaultsMintFreshIDs(t *testing.T) {
	a := DefaultCharacters(NewID)
	b := DefaultCharacters(NewID)
	if a[0].ID == "" || a[0].ID == b[0].ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a[0].ID, b[0].ID)
	}
	if a[0].Name != SeedCharacterName {
		t.Fatalf("seed name = %q", a[0].Name)
	}
	beats := DefaultSceneBeats(CounterIDs("b"))
	if beats[0].ID != "b-1" || beats[0].Timestamp != "0s - 5s" {
		t.Fatalf("unexpected seed beat: %+v", beats[0])
	}
}

func TestLabels(t *testing.T) {
	if got := BeatLabel(1); got != "Beat 2" {
		t.Fatalf("BeatLabel(1) = %q", got)
	}
	if got := CharacterLabel(0); got != "Character 1" {
		t.Fatalf("CharacterLabel(0) = %q", got)
	}
	if got := BeatTimestamp(2); got != "10s - 15s" {
		t.Fatalf("BeatTimestamp(2) = %q", got)
	}
	nb := NewSceneBeat(CounterIDs("n"), 3)
	if nb.Label != "Beat 4" || nb.Timestamp != "" {
		t.Fatalf("unexpected new beat: %+v", nb)
	}
}
