/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promptarchitect/internal/document"
	"promptarchitect/internal/domain"
	"promptarchitect/internal/export"
	"promptarchitect/internal/session"
	"promptarchitect/internal/version"
)

// maxBody caps request bodies. Notes are plain text; a megabyte is plenty.
const maxBody = 1 << 20

func NewRouter(cfg Config) *chi.Mux {
	cfg = cfg.withDefaults()
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/metrics", cfg.Metrics.Handler().ServeHTTP)
	r.Get("/schema", schemaHandler)

	r.Get("/document", documentHandler(cfg))
	r.Get("/brief", briefHandler(cfg))
	r.Get("/fields/{slice}", fieldsHandler)
	r.Get("/copy", copyStatusHandler(cfg))
	r.Get("/preview", previewHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Token, cfg.Logger))

		r.Post("/edits", editHandler(cfg))
		r.Post("/characters", dispatchHandler(cfg, http.StatusCreated, func(*http.Request) session.Event {
			return session.Add{Kind: session.KindCharacter}
		}))
		r.Delete("/characters/{id}", dispatchHandler(cfg, http.StatusOK, func(r *http.Request) session.Event {
			return session.Remove{Kind: session.KindCharacter, ID: chi.URLParam(r, "id")}
		}))
		r.Post("/beats", dispatchHandler(cfg, http.StatusCreated, func(*http.Request) session.Event {
			return session.Add{Kind: session.KindBeat}
		}))
		r.Delete("/beats/{id}", dispatchHandler(cfg, http.StatusOK, func(r *http.Request) session.Event {
			return session.Remove{Kind: session.KindBeat, ID: chi.URLParam(r, "id")}
		}))
		r.Post("/extract", extractHandler(cfg))
		r.Post("/reset", dispatchHandler(cfg, http.StatusOK, func(*http.Request) session.Event {
			return session.Reset{}
		}))
		r.Post("/undo", historyHandler(cfg, cfg.Store.Undo, "nothing to undo"))
		r.Post("/redo", historyHandler(cfg, cfg.Store.Redo, "nothing to redo"))
		r.Post("/copy", copyHandler(cfg))
	})

	return r
}

func healthHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version.String(),
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func schemaHandler(w http.ResponseWriter, _ *http.Request) {
	writeRaw(w, http.StatusOK, "application/schema+json", export.Schema())
}

// documentHandler serves the encoded snapshot byte for byte.
func documentHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEncoded(w, cfg, http.StatusOK)
	}
}

func briefHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		opt := export.BriefOptions{IncludeNotes: r.URL.Query().Get("notes") == "1"}
		if err := export.Brief(&buf, cfg.Store.Snapshot(), opt); err != nil {
			cfg.Logger.ErrorContext(r.Context(), "brief failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to render brief", "INTERNAL_ERROR")
			return
		}
		w.Header().Set("Content-Disposition", `inline; filename="brief.pdf"`)
		writeRaw(w, http.StatusOK, "application/pdf", buf.Bytes())
	}
}

func fieldsHandler(w http.ResponseWriter, r *http.Request) {
	slice := chi.URLParam(r, "slice")
	fields := session.Fields(session.SliceID(slice))
	if len(fields) == 0 {
		WriteError(w, http.StatusNotFound, "unknown slice", "NOT_FOUND")
		return
	}
	WriteJSON(w, http.StatusOK, FieldsResponse{Slice: slice, Fields: fields})
}

func editHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev session.Edit
		if err := decodeBody(w, r, &ev); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
			return
		}
		dispatch(w, r, cfg, ev, http.StatusOK)
	}
}

func extractHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExtractRequest
		if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
			return
		}
		dispatch(w, r, cfg, session.RunExtraction{Text: req.Text}, http.StatusOK)
	}
}

func dispatchHandler(cfg Config, status int, event func(*http.Request) session.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dispatch(w, r, cfg, event(r), status)
	}
}

func dispatch(w http.ResponseWriter, r *http.Request, cfg Config, ev session.Event, status int) {
	snap, err := cfg.Store.Dispatch(ev)
	if err != nil {
		writeEventError(w, err)
		return
	}
	writeSnapshot(w, snap, status)
}

func historyHandler(cfg Config, step func() (domain.PromptStructure, bool, error), empty string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok, err := step()
		if err != nil {
			cfg.Logger.ErrorContext(r.Context(), "history step failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "history unavailable", "INTERNAL_ERROR")
			return
		}
		if !ok {
			WriteError(w, http.StatusConflict, empty, "NO_HISTORY")
			return
		}
		writeSnapshot(w, snap, http.StatusOK)
	}
}

// copyHandler puts the document on the clipboard of the machine running the
// server. A failure is reported once and the status shows it until it clears.
func copyHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Copier == nil {
			WriteError(w, http.StatusNotImplemented, "clipboard disabled", "NOT_IMPLEMENTED")
			return
		}
		doc, err := cfg.Store.Encoded()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to encode document", "INTERNAL_ERROR")
			return
		}
		if err := cfg.Copier.Copy(doc); err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), "COPY_FAILED")
			return
		}
		WriteJSON(w, http.StatusOK, CopyResponse{Status: string(cfg.Copier.Status())})
	}
}

func copyStatusHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := export.StatusIdle
		if cfg.Copier != nil {
			status = cfg.Copier.Status()
		}
		WriteJSON(w, http.StatusOK, CopyResponse{Status: string(status)})
	}
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownEntity):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, session.ErrInvalidValue):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "INVALID_VALUE")
	default:
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_EVENT")
	}
}

func writeEncoded(w http.ResponseWriter, cfg Config, status int) {
	doc, err := cfg.Store.Encoded()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to encode document", "INTERNAL_ERROR")
		return
	}
	writeRaw(w, status, "application/json", doc)
}

func writeSnapshot(w http.ResponseWriter, snap domain.PromptStructure, status int) {
	doc, err := document.Encode(snap)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to encode document", "INTERNAL_ERROR")
		return
	}
	writeRaw(w, status, "application/json", doc)
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
