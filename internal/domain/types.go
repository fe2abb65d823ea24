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

// This file defines the records that make up a video prompt document.
// Field order matters: the JSON encoding of PromptStructure is handed to the
// downstream generator verbatim, and its key order follows the struct order.

// AspectRatio is the frame shape requested from the generator.
type AspectRatio string

const (
	Aspect16x9 AspectRatio = "16:9"
	Aspect9x16 AspectRatio = "9:16"
	Aspect21x9 AspectRatio = "21:9"
	Aspect1x1  AspectRatio = "1:1"
)

// BudgetLevel describes the production feel of the piece.
type BudgetLevel string

const (
	BudgetIndie       BudgetLevel = "indie"
	BudgetPremium     BudgetLevel = "premium"
	BudgetBlockbuster BudgetLevel = "blockbuster"
)

// MotionIntensity controls how much camera and subject motion is requested.
type MotionIntensity string

const (
	MotionStatic       MotionIntensity = "static"
	MotionCinematic    MotionIntensity = "cinematic"
	MotionHyperdynamic MotionIntensity = "hyperdynamic"
)

// RenderQuality is the requested output fidelity.
type RenderQuality string

const (
	QualityStandard RenderQuality = "standard"
	QualityHigh     RenderQuality = "high"
	QualityUltra    RenderQuality = "ultra"
)

// ProjectInfo holds the top-level concept metadata. BrainDump is the raw
// note block the idea extractor reads from.
type ProjectInfo struct {
	Title          string      `json:"title"`
	Logline        string      `json:"logline"`
	BrainDump      string      `json:"brainDump"`
	RuntimeSeconds int         `json:"runtimeSeconds"`
	AspectRatio    AspectRatio `json:"aspectRatio"`
	TargetEmotion  string      `json:"targetEmotion"`
	Pacing         string      `json:"pacing"`
	CallToAction   string      `json:"callToAction"`
	BudgetLevel    BudgetLevel `json:"budgetLevel"`
}

// VisualLanguage captures the cinematic grammar the generator should follow.
type VisualLanguage struct {
	CinematographyStyle string `json:"cinematographyStyle"`
	Lighting            string `json:"lighting"`
	ColorPalette        string `json:"colorPalette"`
	ArtDirection        string `json:"artDirection"`
	CameraMovement      string `json:"cameraMovement"`
	Lensing             string `json:"lensing"`
	TextureAndFX        string `json:"textureAndFX"`
	References          string `json:"references"`
}

// Character is an identity-bearing roster entry. ID is assigned once and never
// changes; Name is free text and may repeat across entries.
type Character struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Backstory        string `json:"backstory"`
	VisualTraits     string `json:"visualTraits"`
	Wardrobe         string `json:"wardrobe"`
	PerformanceNotes string `json:"performanceNotes"`
	ConsistencyKeys  string `json:"consistencyKeys"`
}

// SceneBeat is one entry of the ordered timeline. Timestamp is a free-text
// range label like "0s - 5s"; ranges are not parsed or checked for overlap.
type SceneBeat struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Timestamp      string `json:"timestamp"`
	Objective      string `json:"objective"`
	Setting        string `json:"setting"`
	Action         string `json:"action"`
	EmotionalBeat  string `json:"emotionalBeat"`
	Cinematography string `json:"cinematography"`
	Transitions    string `json:"transitions"`
	VoiceOver      string `json:"voiceOver"`
}

// AudioDirection describes voice, music and sound design.
type AudioDirection struct {
	VoiceOverTone string `json:"voiceOverTone"`
	DialogueNotes string `json:"dialogueNotes"`
	Music         string `json:"music"`
	SoundDesign   string `json:"soundDesign"`
}

// GenerationSettings are the model-facing render parameters.
type GenerationSettings struct {
	MotionIntensity MotionIntensity `json:"motionIntensity"`
	CameraRig       string          `json:"cameraRig"`
	RenderQuality   RenderQuality   `json:"renderQuality"`
	SeedControl     string          `json:"seedControl"`
	NegativePrompts string          `json:"negativePrompts"`
	DeliveryFormat  string          `json:"deliveryFormat"`
}

// PromptStructure is the assembled, read-only snapshot of a session.
// It is derived from the six slices and never edited directly.
type PromptStructure struct {
	Project            ProjectInfo        `json:"project"`
	VisualLanguage     VisualLanguage     `json:"visualLanguage"`
	Characters         []Character        `json:"characters"`
	SceneBeats         []SceneBeat        `json:"sceneBeats"`
	Audio              AudioDirection     `json:"audio"`
	GenerationSettings GenerationSettings `json:"generationSettings"`
	DirectorNotes      string             `json:"directorNotes"`
}

// Valid reports whether a is one of the supported ratios.
func (a AspectRatio) Valid() bool {
	switch a {
	case Aspect16x9, Aspect9x16, Aspect21x9, Aspect1x1:
		return true
	}
	return false
}

func (b BudgetLevel) Valid() bool {
	switch b {
	case BudgetIndie, BudgetPremium, BudgetBlockbuster:
		return true
	}
	return false
}

func (m MotionIntensity) Valid() bool {
	switch m {
	case MotionStatic, MotionCinematic, MotionHyperdynamic:
		return true
	}
	return false
}

func (r RenderQuality) Valid() bool {
	switch r {
	case QualityStandard, QualityHigh, QualityUltra:
		return true
	}
	return false
}
