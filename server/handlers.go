package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/espin086/AppGenie/generator"
	"github.com/espin086/AppGenie/toolkit"
)

type generateReq struct {
	Description string `json:"description"`
	Optimize    bool   `json:"optimize"`
}

type reviseReq struct {
	Comment string `json:"comment"`
}

type draftResp struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Code    string `json:"code"`
}

type generationResp struct {
	GenerationID string    `json:"generation_id"`
	Draft        draftResp `json:"draft"`
	Turns        int       `json:"turns"`
	ArchiveURL   string    `json:"archive_url"`
}

func (s *Server) handleGenerationCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		http.Error(w, "description is required", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	sess := generator.NewSession(id, generator.Request{
		Description: req.Description,
		Optimize:    req.Optimize,
	}, s.agent)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	draft, err := sess.Propose(ctx)
	if err != nil {
		s.log.Error("generation failed", zap.String("generation_id", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	archive, err := s.packageDraft(draft)
	if err != nil {
		s.log.Error("packaging failed", zap.String("generation_id", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.store.set(id, &generation{session: sess, archive: archive})
	writeJSON(w, toResp(id, sess))
}

func (s *Server) handleGenerationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/generations/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	gen, ok := s.store.get(id)
	if !ok {
		http.Error(w, "generation not found", http.StatusNotFound)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, toResp(id, gen.session))
	case action == "revise" && r.Method == http.MethodPost:
		s.handleRevise(w, r, id, gen)
	case action == "archive" && r.Method == http.MethodGet:
		s.handleArchive(w, id, gen)
	case action == "preview" && r.Method == http.MethodGet:
		s.handlePreview(w, gen)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRevise(w http.ResponseWriter, r *http.Request, id string, gen *generation) {
	var req reviseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		http.Error(w, "comment is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	draft, err := gen.session.Revise(ctx, req.Comment)
	if err != nil {
		// The previous draft and archive stay served untouched.
		s.log.Error("revision failed", zap.String("generation_id", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	archive, err := s.packageDraft(draft)
	if err != nil {
		s.log.Error("packaging failed", zap.String("generation_id", id), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	gen.archive = archive
	s.store.set(id, gen)
	writeJSON(w, toResp(id, gen.session))
}

func (s *Server) handleArchive(w http.ResponseWriter, id string, gen *generation) {
	if len(gen.archive) == 0 {
		http.Error(w, "archive not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="appgenie-%s.zip"`, id))
	_, _ = w.Write(gen.archive)
}

func (s *Server) handlePreview(w http.ResponseWriter, gen *generation) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(gen.session.Draft.Markdown), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) packageDraft(draft generator.Draft) ([]byte, error) {
	return toolkit.BuildArchive(toolkit.ArchiveParams{
		Title:    draft.Title,
		Summary:  draft.Summary,
		Code:     draft.Code,
		Response: draft.Markdown,
	})
}

func toResp(id string, sess *generator.Session) generationResp {
	return generationResp{
		GenerationID: id,
		Draft: draftResp{
			Title:   sess.Draft.Title,
			Summary: sess.Draft.Summary,
			Code:    sess.Draft.Code,
		},
		Turns:      len(sess.History),
		ArchiveURL: fmt.Sprintf("/api/generations/%s/archive", id),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
