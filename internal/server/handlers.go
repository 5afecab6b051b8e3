package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thywilljoshua/pdf-mindmap/internal/convert"
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/mindmap"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
	"github.com/thywilljoshua/pdf-mindmap/internal/render"
)

type mindmapResponse struct {
	ID       string       `json:"id"`
	View     mindmap.View `json:"view"`
	Expanded []string     `json:"expanded"`
}

type activateResponse struct {
	View    mindmap.View  `json:"view"`
	Clicked *outline.Node `json:"clicked,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.len()})
}

// handleGenerate extracts an outline from {"files":[...]} or {"url": "..."}.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	src, err := decodeSource(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.extract(r.Context(), src)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCreate starts a session from an outline in the body, or with
// ?extract=1 from a document to extract one from first.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var root outline.Node
	if r.URL.Query().Get("extract") != "" {
		src, err := decodeSource(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := s.extract(r.Context(), src)
		if err != nil {
			writeError(w, r, err)
			return
		}
		root = res.Outline
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		n, err := outline.Decode(r.Body, bodyFormat(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		root = n
	}

	sess, err := s.sessions.create(root)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.sessions.Set(float64(s.sessions.len()))
	view, expanded := sess.snapshot()
	writeJSON(w, http.StatusCreated, mindmapResponse{ID: sess.ID, View: view, Expanded: expanded})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, expanded := sess.snapshot()
	writeJSON(w, http.StatusOK, mindmapResponse{ID: sess.ID, View: view, Expanded: expanded})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, clicked, err := sess.activate(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activateResponse{View: view, Clicked: clicked})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, _ := sess.snapshot()
	svg, err := render.Graph(r.Context(), view.Graph, render.Options{})
	if err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "render mind map"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.sessions.Set(float64(s.sessions.len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) extract(ctx context.Context, src convert.Source) (convert.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MaxDuration)
	defer cancel()
	start := time.Now()
	res, err := convert.Run(ctx, src, s.cfg.Pipeline)
	s.metrics.observeExtraction(string(res.Kind), time.Since(start), err)
	return res, err
}

func decodeSource(w http.ResponseWriter, r *http.Request) (convert.Source, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var src convert.Source
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		return convert.Source{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return src, nil
}

func bodyFormat(r *http.Request) outline.Format {
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "yaml") {
		return outline.FormatYAML
	}
	return outline.FormatJSON
}
