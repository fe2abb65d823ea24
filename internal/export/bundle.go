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
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"promptarchitect/internal/document"
	"promptarchitect/internal/domain"
)

// PresetName selects the default set of formats for a bundle.
type PresetName string

const (
	// PresetGenerate is the prompt document alone, ready for the generator.
	PresetGenerate PresetName = "generate"
	// PresetReview adds a director's brief with the original notes.
	PresetReview PresetName = "review"
)

// BundleOptions controls BatchExport.
//
// Output names inside OutDir are fixed: prompt.json for the document and
// brief.pdf for the director's brief.
type BundleOptions struct {
	Preset       PresetName
	Formats      []string // allowed: json, pdf; empty means preset defaults
	OutDir       string
	IncludeNotes *bool // when set, overrides the preset's default for the brief appendix
	Brief        BriefOptions
}

// BatchExport writes every requested format for p into OutDir and returns the
// written paths in format order.
func BatchExport(p domain.PromptStructure, opt BundleOptions) ([]string, error) {
	if opt.OutDir == "" {
		return nil, errors.New("bundle needs an output directory")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	notes := presetIncludeNotes(opt.Preset)
	if opt.IncludeNotes != nil {
		notes = *opt.IncludeNotes
	}

	var written []string
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "json":
			doc, err := document.Encode(p)
			if err != nil {
				return written, err
			}
			out := filepath.Join(opt.OutDir, "prompt.json")
			if err := WriteDocument(out, doc); err != nil {
				return written, fmt.Errorf("json: %w", err)
			}
			written = append(written, out)
		case "pdf":
			bo := opt.Brief
			bo.IncludeNotes = notes
			out := filepath.Join(opt.OutDir, "brief.pdf")
			if err := WriteBrief(out, p, bo); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
			written = append(written, out)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetReview:
		return []string{"json", "pdf"}
	default:
		return []string{"json"}
	}
}

func presetIncludeNotes(p PresetName) bool {
	return p == PresetReview
}
