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

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"promptarchitect/internal/domain"
)

var (
	ErrUnknownSlice  = errors.New("unknown slice")
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownEntity = errors.New("unknown entity id")
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnknownKind   = errors.New("unknown entity kind")
)

// A setter writes v into the field and reports false when v is not an
// acceptable value for it. Rejected values leave the record untouched.
type setter[T any] func(rec *T, v string) bool

func text[T any](field func(*T) *string) setter[T] {
	return func(rec *T, v string) bool {
		*field(rec) = v
		return true
	}
}

func enum[T any, E ~string](field func(*T) *E, valid func(E) bool) setter[T] {
	return func(rec *T, v string) bool {
		e := E(v)
		if !valid(e) {
			return false
		}
		*field(rec) = e
		return true
	}
}

var projectFields = map[string]setter[domain.ProjectInfo]{
	"title":         text(func(p *domain.ProjectInfo) *string { return &p.Title }),
	"logline":       text(func(p *domain.ProjectInfo) *string { return &p.Logline }),
	"brainDump":     text(func(p *domain.ProjectInfo) *string { return &p.BrainDump }),
	"targetEmotion": text(func(p *domain.ProjectInfo) *string { return &p.TargetEmotion }),
	"pacing":        text(func(p *domain.ProjectInfo) *string { return &p.Pacing }),
	"callToAction":  text(func(p *domain.ProjectInfo) *string { return &p.CallToAction }),
	"runtimeSeconds": func(p *domain.ProjectInfo, v string) bool {
		p.RuntimeSeconds = LeadingInt(v)
		return true
	},
	"aspectRatio": enum(func(p *domain.ProjectInfo) *domain.AspectRatio { return &p.AspectRatio }, domain.AspectRatio.Valid),
	"budgetLevel": enum(func(p *domain.ProjectInfo) *domain.BudgetLevel { return &p.BudgetLevel }, domain.BudgetLevel.Valid),
}

var visualFields = map[string]setter[domain.VisualLanguage]{
	"cinematographyStyle": text(func(v *domain.VisualLanguage) *string { return &v.CinematographyStyle }),
	"lighting":            text(func(v *domain.VisualLanguage) *string { return &v.Lighting }),
	"colorPalette":        text(func(v *domain.VisualLanguage) *string { return &v.ColorPalette }),
	"artDirection":        text(func(v *domain.VisualLanguage) *string { return &v.ArtDirection }),
	"cameraMovement":      text(func(v *domain.VisualLanguage) *string { return &v.CameraMovement }),
	"lensing":             text(func(v *domain.VisualLanguage) *string { return &v.Lensing }),
	"textureAndFX":        text(func(v *domain.VisualLanguage) *string { return &v.TextureAndFX }),
	"references":          text(func(v *domain.VisualLanguage) *string { return &v.References }),
}

// Character and beat ids are not editable.
var characterFields = map[string]setter[domain.Character]{
	"name":             text(func(c *domain.Character) *string { return &c.Name }),
	"role":             text(func(c *domain.Character) *string { return &c.Role }),
	"backstory":        text(func(c *domain.Character) *string { return &c.Backstory }),
	"visualTraits":     text(func(c *domain.Character) *string { return &c.VisualTraits }),
	"wardrobe":         text(func(c *domain.Character) *string { return &c.Wardrobe }),
	"performanceNotes": text(func(c *domain.Character) *string { return &c.PerformanceNotes }),
	"consistencyKeys":  text(func(c *domain.Character) *string { return &c.ConsistencyKeys }),
}

var beatFields = map[string]setter[domain.SceneBeat]{
	"label":          text(func(b *domain.SceneBeat) *string { return &b.Label }),
	"timestamp":      text(func(b *domain.SceneBeat) *string { return &b.Timestamp }),
	"objective":      text(func(b *domain.SceneBeat) *string { return &b.Objective }),
	"setting":        text(func(b *domain.SceneBeat) *string { return &b.Setting }),
	"action":         text(func(b *domain.SceneBeat) *string { return &b.Action }),
	"emotionalBeat":  text(func(b *domain.SceneBeat) *string { return &b.EmotionalBeat }),
	"cinematography": text(func(b *domain.SceneBeat) *string { return &b.Cinematography }),
	"transitions":    text(func(b *domain.SceneBeat) *string { return &b.Transitions }),
	"voiceOver":      text(func(b *domain.SceneBeat) *string { return &b.VoiceOver }),
}

var audioFields = map[string]setter[domain.AudioDirection]{
	"voiceOverTone": text(func(a *domain.AudioDirection) *string { return &a.VoiceOverTone }),
	"dialogueNotes": text(func(a *domain.AudioDirection) *string { return &a.DialogueNotes }),
	"music":         text(func(a *domain.AudioDirection) *string { return &a.Music }),
	"soundDesign":   text(func(a *domain.AudioDirection) *string { return &a.SoundDesign }),
}

var generationFields = map[string]setter[domain.GenerationSettings]{
	"motionIntensity": enum(func(g *domain.GenerationSettings) *domain.MotionIntensity { return &g.MotionIntensity }, domain.MotionIntensity.Valid),
	"cameraRig":       text(func(g *domain.GenerationSettings) *string { return &g.CameraRig }),
	"renderQuality":   enum(func(g *domain.GenerationSettings) *domain.RenderQuality { return &g.RenderQuality }, domain.RenderQuality.Valid),
	"seedControl":     text(func(g *domain.GenerationSettings) *string { return &g.SeedControl }),
	"negativePrompts": text(func(g *domain.GenerationSettings) *string { return &g.NegativePrompts }),
	"deliveryFormat":  text(func(g *domain.GenerationSettings) *string { return &g.DeliveryFormat }),
}

// Fields lists the editable field names of a slice in sorted order.
func Fields(slice SliceID) []string {
	var out []string
	switch slice {
	case SliceProject:
		out = keys(projectFields)
	case SliceVisualLanguage:
		out = keys(visualFields)
	case SliceCharacters:
		out = keys(characterFields)
	case SliceSceneBeats:
		out = keys(beatFields)
	case SliceAudio:
		out = keys(audioFields)
	case SliceGenerationSettings:
		out = keys(generationFields)
	}
	sort.Strings(out)
	return out
}

func keys[T any](m map[string]setter[T]) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// splitPath separates "<id>.<field>". Ids are opaque, so the field is taken
// from the last dot.
func splitPath(path string) (id, field string, ok bool) {
	i := strings.LastIndexByte(path, '.')
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// Validate reports whether e would change s. It returns one of the Err*
// sentinels wrapped with the offending name.
func (e Edit) Validate(s State) error {
	field := e.Path
	id := ""
	if e.Slice.collection() {
		var ok bool
		id, field, ok = splitPath(e.Path)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, e.Path)
		}
	}
	switch e.Slice {
	case SliceProject:
		return check(projectFields, field, e.Value, s.Project)
	case SliceVisualLanguage:
		return check(visualFields, field, e.Value, s.VisualLanguage)
	case SliceAudio:
		return check(audioFields, field, e.Value, s.Audio)
	case SliceGenerationSettings:
		return check(generationFields, field, e.Value, s.GenerationSettings)
	case SliceCharacters:
		c, ok := s.Character(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEntity, id)
		}
		return check(characterFields, field, e.Value, c)
	case SliceSceneBeats:
		b, ok := s.SceneBeat(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownEntity, id)
		}
		return check(beatFields, field, e.Value, b)
	}
	return fmt.Errorf("%w: %q", ErrUnknownSlice, e.Slice)
}

func check[T any](fields map[string]setter[T], field, v string, rec T) error {
	set, ok := fields[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !set(&rec, v) {
		return fmt.Errorf("%w for %s: %q", ErrInvalidValue, field, v)
	}
	return nil
}

// LeadingInt parses the optionally signed run of digits at the start of v,
// after leading whitespace, and ignores anything that follows. Input without
// such a prefix, or one that does not fit an int, yields 0. "90s" is 90,
// "abc" and "" are 0.
func LeadingInt(v string) int {
	v = strings.TrimLeftFunc(v, unicode.IsSpace)
	end := 0
	if end < len(v) && (v[end] == '+' || v[end] == '-') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}
