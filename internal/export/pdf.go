/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"promptarchitect/internal/domain"
)

// BriefOptions controls the director's brief layout. Units are millimetres.
type BriefOptions struct {
	PageSize string // "A4" or "Letter"; empty means A4
	Margin   float64
	// IncludeNotes adds the raw brain dump as a closing appendix.
	IncludeNotes bool
}

type row struct{ label, value string }

// Brief renders p as a printable PDF: project summary, visual language, the
// cast, the beat timeline, audio and generation settings. Text uses the
// built-in Helvetica, so non Latin-1 characters are approximated.
func Brief(w io.Writer, p domain.PromptStructure, opt BriefOptions) error {
	size := opt.PageSize
	if size == "" {
		size = "A4"
	}
	margin := opt.Margin
	if margin <= 0 {
		margin = 15
	}
	pdf := gofpdf.New("P", "mm", size, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(p.Project.Title+" - Director's Brief"), false)
	pdf.SetCreator("Prompt Architect", false)

	b := &brief{pdf: pdf, tr: tr}
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 9, tr(p.Project.Title), "", "L", false)
	if p.Project.Logline != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.MultiCell(0, 6, tr(p.Project.Logline), "", "L", false)
	}
	pdf.Ln(4)

	b.section("Project", []row{
		{"Runtime", strconv.Itoa(p.Project.RuntimeSeconds) + "s"},
		{"Aspect ratio", string(p.Project.AspectRatio)},
		{"Target emotion", p.Project.TargetEmotion},
		{"Pacing", p.Project.Pacing},
		{"Call to action", p.Project.CallToAction},
		{"Budget", string(p.Project.BudgetLevel)},
	})
	v := p.VisualLanguage
	b.section("Visual Language", []row{
		{"Cinematography", v.CinematographyStyle},
		{"Lighting", v.Lighting},
		{"Color palette", v.ColorPalette},
		{"Art direction", v.ArtDirection},
		{"Camera movement", v.CameraMovement},
		{"Lensing", v.Lensing},
		{"Texture and FX", v.TextureAndFX},
		{"References", v.References},
	})

	b.heading(fmt.Sprintf("Characters (%d)", len(p.Characters)))
	for _, c := range p.Characters {
		b.subheading(c.Name)
		b.rows([]row{
			{"Role", c.Role},
			{"Backstory", c.Backstory},
			{"Visual traits", c.VisualTraits},
			{"Wardrobe", c.Wardrobe},
			{"Performance", c.PerformanceNotes},
			{"Consistency", c.ConsistencyKeys},
		})
	}

	b.heading(fmt.Sprintf("Scene Beats (%d)", len(p.SceneBeats)))
	for _, sb := range p.SceneBeats {
		title := sb.Label
		if sb.Timestamp != "" {
			title += "  [" + sb.Timestamp + "]"
		}
		b.subheading(title)
		b.rows([]row{
			{"Objective", sb.Objective},
			{"Setting", sb.Setting},
			{"Action", sb.Action},
			{"Emotional beat", sb.EmotionalBeat},
			{"Cinematography", sb.Cinematography},
			{"Transitions", sb.Transitions},
			{"Voice-over", sb.VoiceOver},
		})
	}

	b.section("Audio", []row{
		{"Voice-over tone", p.Audio.VoiceOverTone},
		{"Dialogue", p.Audio.DialogueNotes},
		{"Music", p.Audio.Music},
		{"Sound design", p.Audio.SoundDesign},
	})
	g := p.GenerationSettings
	b.section("Generation Settings", []row{
		{"Motion", string(g.MotionIntensity)},
		{"Camera rig", g.CameraRig},
		{"Render quality", string(g.RenderQuality)},
		{"Seed control", g.SeedControl},
		{"Negative prompts", g.NegativePrompts},
		{"Delivery", g.DeliveryFormat},
	})
	b.heading("Director's Notes")
	b.paragraph(p.DirectorNotes)

	if opt.IncludeNotes && p.Project.BrainDump != "" {
		b.heading("Original Notes")
		b.paragraph(p.Project.BrainDump)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WriteBrief renders the brief and writes it atomically to path.
func WriteBrief(path string, p domain.PromptStructure, opt BriefOptions) error {
	var buf bytes.Buffer
	if err := Brief(&buf, p, opt); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}

type brief struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (b *brief) heading(text string) {
	b.pdf.Ln(3)
	b.pdf.SetFont("Helvetica", "B", 14)
	b.pdf.SetDrawColor(120, 120, 120)
	b.pdf.CellFormat(0, 8, b.tr(text), "B", 1, "L", false, 0, "")
	b.pdf.Ln(2)
}

func (b *brief) subheading(text string) {
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.MultiCell(0, 6, b.tr(text), "", "L", false)
}

// rows prints label/value pairs, skipping empty values.
func (b *brief) rows(rs []row) {
	for _, r := range rs {
		if r.value == "" {
			continue
		}
		b.pdf.SetFont("Helvetica", "B", 9)
		b.pdf.CellFormat(38, 5, b.tr(r.label), "", 0, "L", false, 0, "")
		b.pdf.SetFont("Helvetica", "", 9)
		b.pdf.MultiCell(0, 5, b.tr(r.value), "", "L", false)
	}
	b.pdf.Ln(1)
}

func (b *brief) section(title string, rs []row) {
	b.heading(title)
	b.rows(rs)
}

func (b *brief) paragraph(text string) {
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.MultiCell(0, 5, b.tr(text), "", "L", false)
}
