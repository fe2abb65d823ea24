/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package document

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"promptarchitect/internal/domain"
)

func defaultSlices() Slices {
	ids := domain.CounterIDs("t")
	return Slices{
		Project:            domain.DefaultProject(),
		VisualLanguage:     domain.DefaultVisualLanguage(),
		Characters:         domain.DefaultCharacters(ids),
		SceneBeats:         domain.DefaultSceneBeats(ids),
		Audio:              domain.DefaultAudio(),
		GenerationSettings: domain.DefaultGenerationSettings(),
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	s := defaultSlices()
	a := Assemble(s)
	b := Assemble(s)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("assembling twice differs:\n%+v\n%+v", a, b)
	}
	ea, err := Encode(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	eb, _ := Encode(b)
	if !bytes.Equal(ea, eb) {
		t.Fatalf("encoded snapshots differ")
	}
}

func TestAssembleDoesNotAlias(t *testing.T) {
	s := defaultSlices()
	snap := Assemble(s)
	s.Characters[0].Name = "Changed"
	s.SceneBeats[0].Label = "Changed"
	if snap.Characters[0].Name != domain.SeedCharacterName || snap.SceneBeats[0].Label != "Opening Hero Shot" {
		t.Fatalf("snapshot shares storage with slices: %+v", snap)
	}
}

func TestAssembleReflectsLatestSlices(t *testing.T) {
	s := defaultSlices()
	s.Project.Title = "Night Market"
	s.Audio.Music = "lo-fi"
	snap := Assemble(s)
	if snap.Project.Title != "Night Market" || snap.Audio.Music != "lo-fi" {
		t.Fatalf("snapshot does not reflect slices: %+v", snap)
	}
	if snap.DirectorNotes != domain.DirectorNotes {
		t.Fatalf("director notes missing")
	}
}

func TestEncodeFormat(t *testing.T) {
	s := defaultSlices()
	s.Characters = nil
	s.SceneBeats = nil
	s.Project.Logline = "Fish & chips <at> dawn"
	out, err := Encode(Assemble(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "{\n  \"project\": {\n    \"title\": \"Working Title\",") {
		t.Fatalf("unexpected prefix:\n%s", text[:80])
	}
	if strings.HasSuffix(text, "\n") {
		t.Fatalf("encoded output must not end with newline")
	}
	if !strings.Contains(text, `"characters": [],`) || !strings.Contains(text, `"sceneBeats": [],`) {
		t.Fatalf("empty collections must encode as []:\n%s", text)
	}
	if !strings.Contains(text, `"logline": "Fish & chips <at> dawn"`) {
		t.Fatalf("html characters were escaped:\n%s", text)
	}
	if !strings.Contains(text, `"runtimeSeconds": 45,`) {
		t.Fatalf("runtime should encode as a number")
	}
	if !strings.Contains(text, "mise-en-scène") {
		t.Fatalf("non-ascii director notes should be written literally")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	snap := Assemble(defaultSlices())
	out, err := Encode(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(back, snap) {
		t.Fatalf("round trip mismatch")
	}
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}
