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

// SeedCharacterName is the name of the placeholder character in the default
// document. Extraction evicts characters carrying exactly this name.
const SeedCharacterName = "Primary Protagonist"

// DirectorNotes is appended to every assembled document.
const DirectorNotes = "Ensure Veo 3.1 keeps character faces locked between shots. Prioritise cinematic motion, premium lighting, and coherent mise-en-scène across the sequence."

// Values used by the explicit "add" actions.
const (
	NewCharacterName = "New Character"
	NewCharacterRole = "Supporting role"
)

// DefaultProject returns the project slice of the default document.
func DefaultProject() ProjectInfo {
	return ProjectInfo{
		Title:          "Working Title",
		Logline:        "",
		BrainDump:      "",
		RuntimeSeconds: 45,
		AspectRatio:    Aspect16x9,
		TargetEmotion:  "Awe and inspiration",
		Pacing:         "Deliberate cinematic pacing with escalating tension",
		CallToAction:   "End card with brand lockup and CTA overlay",
		BudgetLevel:    BudgetBlockbuster,
	}
}

func DefaultVisualLanguage() VisualLanguage {
	return VisualLanguage{
		CinematographyStyle: "Prestige streaming series look with premium high-budget polish",
		Lighting:            "Motivated lighting with subtle volumetrics, cinematic contrast, and golden hour highlights",
		ColorPalette:        "Rich complementary tones with painterly teals and ambers, heightened saturation on key accents",
		ArtDirection:        "Production design with handcrafted texture, premium props, and lived-in environments",
		CameraMovement:      "Controlled technocrane moves, gliding steadicam, and purposeful dolly pushes",
		Lensing:             "Cooke anamorphic equivalent, shallow depth of field, occasional macro inserts",
		TextureAndFX:        "Cinematic film grain, practical atmospheric haze, restrained cinematic particles",
		References:          "References: Denis Villeneuve wide shots, Michael Mann night exterior energy, Apple Vision Pro launch films",
	}
}

func DefaultAudio() AudioDirection {
	return AudioDirection{
		VoiceOverTone: "Warm authoritative narrator delivering emotional progression",
		DialogueNotes: "Keep dialogue minimal; focus on resonant keywords only",
		Music:         "Hybrid orchestral score with modern synth layers and swelling crescendos",
		SoundDesign:   "Layered cinematic sound design: whooshes timed to camera moves, tactile foley, subtle risers",
	}
}

func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		MotionIntensity: MotionCinematic,
		CameraRig:       "Virtual technocrane with precise keyframes for hero shots",
		RenderQuality:   QualityUltra,
		SeedControl:     "Lock seed for character consistency across shots",
		NegativePrompts: "Avoid cartoonish looks, avoid amateur lighting, avoid jittery handheld motion, avoid inconsistent character faces",
		DeliveryFormat:  "4K UHD master, ProRes proxy for review, 10-bit color",
	}
}

// DefaultCharacters returns the seed roster. Each call mints fresh ids.
func DefaultCharacters(newID IDFunc) []Character {
	return []Character{
		{
			ID:               newID(),
			Name:             SeedCharacterName,
			Role:             "Visionary innovator and emotional anchor",
			Backstory:        "Leader who transforms ambitious ideas into reality; calm confidence with a spark of curiosity",
			VisualTraits:     "Diverse casting, soulful eyes, consistent facial structure, cinematic lighting on skin",
			Wardrobe:         "Premium tailored wardrobe with subtle texture, elevated sneakers, watch as hero prop",
			PerformanceNotes: "Intentional micro-expressions, focused gaze, relaxed power in body language",
			ConsistencyKeys:  "Maintain same character model across all beats; ensure identical facial structure and hair",
		},
	}
}

// DefaultSceneBeats returns the seed timeline. Each call mints fresh ids.
func DefaultSceneBeats(newID IDFunc) []SceneBeat {
	return []SceneBeat{
		{
			ID:             newID(),
			Label:          "Opening Hero Shot",
			Timestamp:      "0s - 5s",
			Objective:      "Establish the world and immediately signal premium scale",
			Setting:        "Dawn exterior rooftop overlooking futuristic skyline",
			Action:         "Hero stands center frame facing city as camera dolly-pushes in",
			EmotionalBeat:  "Anticipation, sense of limitless potential",
			Cinematography: "Wide anamorphic establishing, volumetric light shafts, dramatic reveal of skyline",
			Transitions:    "Match dissolve from logo reveal into next beat",
			VoiceOver:      "Narrator introduces the idea of orchestrating visions into tangible experiences",
		},
	}
}

// NewCharacter returns the record produced by an explicit "add character".
func NewCharacter(newID IDFunc) Character {
	return Character{ID: newID(), Name: NewCharacterName, Role: NewCharacterRole}
}

// NewSceneBeat returns the record produced by an explicit "add beat" when the
// timeline already holds existing entries.
func NewSceneBeat(newID IDFunc, existing int) SceneBeat {
	return SceneBeat{ID: newID(), Label: BeatLabel(existing)}
}
