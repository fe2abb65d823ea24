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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptarchitect/internal/document"
	"promptarchitect/internal/domain"
)

func sample() domain.PromptStructure {
	ids := domain.CounterIDs("x")
	return document.Assemble(document.Slices{
		Project:            domain.DefaultProject(),
		VisualLanguage:     domain.DefaultVisualLanguage(),
		Characters:         domain.DefaultCharacters(ids),
		SceneBeats:         domain.DefaultSceneBeats(ids),
		Audio:              domain.DefaultAudio(),
		GenerationSettings: domain.DefaultGenerationSettings(),
	})
}

func encoded(t *testing.T, p domain.PromptStructure) []byte {
	t.Helper()
	b, err := document.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "doc.json")
	if err := WriteFileAtomic(out, []byte("first")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFileAtomic(out, []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil || string(got) != "second" {
		t.Fatalf("read back %q, %v", got, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
	if err := WriteFileAtomic("", nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestCheckSchemaAcceptsEncodedDocument(t *testing.T) {
	if err := CheckSchema(encoded(t, sample())); err != nil {
		t.Fatalf("default document should validate: %v", err)
	}
	empty := sample()
	empty.Characters = nil
	empty.SceneBeats = nil
	if err := CheckSchema(encoded(t, empty)); err != nil {
		t.Fatalf("empty collections should validate: %v", err)
	}
}

func TestCheckSchemaRejectsBrokenDocument(t *testing.T) {
	doc := bytes.Replace(encoded(t, sample()), []byte(`"16:9"`), []byte(`"4:3"`), 1)
	err := CheckSchema(doc)
	var se *SchemaError
	if !errors.As(err, &se) || len(se.Issues) == 0 {
		t.Fatalf("expected schema error, got %v", err)
	}
	if err := CheckSchema([]byte(`{"project":`)); err == nil || errors.As(err, &se) {
		t.Fatalf("malformed JSON should be a plain error, got %v", err)
	}
}

func TestWriteDocumentRefusesInvalid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prompt.json")
	if err := WriteDocument(out, []byte(`{}`)); err == nil {
		t.Fatalf("expected schema failure")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("invalid document must not be written")
	}
}

func TestBriefRendersPDF(t *testing.T) {
	var buf bytes.Buffer
	p := sample()
	p.Project.BrainDump = "Hero: calm visionary leader"
	if err := Brief(&buf, p, BriefOptions{IncludeNotes: true}); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	out := filepath.Join(t.TempDir(), "brief.pdf")
	if err := WriteBrief(out, p, BriefOptions{PageSize: "Letter"}); err != nil {
		t.Fatalf("write brief: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("brief file missing: %v", err)
	}
}

func TestBatchExportPresets(t *testing.T) {
	dir := t.TempDir()
	got, err := BatchExport(sample(), BundleOptions{Preset: PresetReview, OutDir: dir})
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "prompt.json" || filepath.Base(got[1]) != "brief.pdf" {
		t.Fatalf("unexpected outputs %v", got)
	}
	doc, _ := os.ReadFile(got[0])
	if !bytes.Equal(doc, encoded(t, sample())) {
		t.Fatalf("bundled document differs from the encoded snapshot")
	}

	got, err = BatchExport(sample(), BundleOptions{OutDir: t.TempDir()})
	if err != nil || len(got) != 1 {
		t.Fatalf("default preset should write only json: %v %v", got, err)
	}
	if _, err := BatchExport(sample(), BundleOptions{OutDir: dir, Formats: []string{"mp4"}}); err == nil || !strings.Contains(err.Error(), "mp4") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if _, err := BatchExport(sample(), BundleOptions{}); err == nil {
		t.Fatalf("expected error without output dir")
	}
}
