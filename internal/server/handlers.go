package server

import (
	"cmp"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/panelgrid/pkg/buildinfo"
	"github.com/matzehuels/panelgrid/pkg/errors"
	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/pipeline"
	"github.com/matzehuels/panelgrid/pkg/templates"
)

type parseRequest struct {
	Layout     string   `json:"layout"`
	Tolerant   bool     `json:"tolerant,omitempty"`
	References []string `json:"references,omitempty"`
}

type renderRequest struct {
	Layout     string   `json:"layout"`
	Tolerant   bool     `json:"tolerant,omitempty"`
	References []string `json:"references,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
}

type templatesResponse struct {
	Success    bool                 `json:"success"`
	Templates  []templates.Template `json:"templates"`
	Count      int                  `json:"count"`
	Categories []string             `json:"categories"`
}

type templateResponse struct {
	Success  bool               `json:"success"`
	Template templates.Template `json:"template"`
	Outcome  layout.Outcome     `json:"outcome"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatYAML: "application/yaml",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatTree: "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (s *Server) options(layoutCode string, tolerant bool, refs []string) pipeline.Options {
	return pipeline.Options{
		Code:       layoutCode,
		Limits:     s.cfg.Limits,
		Tolerant:   tolerant,
		References: refs,
		Logger:     s.logger,
	}
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decode(w, r, s.cfg.MaxBody, &req); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	out, err := s.runner.Interpret(r.Context(), s.options(req.Layout, req.Tolerant, req.References))
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decode(w, r, s.cfg.MaxBody, &req); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	out, err := s.runner.Interpret(r.Context(), s.options(req.Layout, false, req.References))
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out.Report())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var req renderRequest
	if err := decode(w, r, s.cfg.MaxBody, &req); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	opts := s.options(req.Layout, req.Tolerant, req.References)
	opts.Formats = []string{format}
	opts.Width = cmp.Or(req.Width, s.cfg.Width)
	opts.Height = cmp.Or(req.Height, s.cfg.Height)
	opts.Theme = cmp.Or(req.Theme, s.cfg.Theme)
	opts.HideLabels = req.HideLabels
	opts.Detailed = req.Detailed

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	data, ok := res.Artifacts[format]
	if !ok {
		err := errors.New(errors.ErrCodeInvalidInput, "layout is invalid; format %s needs a valid layout", format)
		writeErrorDiags(w, r, http.StatusUnprocessableEntity, err, res.Outcome.Diagnostics)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Valid", strconv.FormatBool(res.Outcome.Valid))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	var f templates.Filter
	if p := r.URL.Query().Get("panels"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, invalidInput("panels must be a positive integer, got %q", p))
			return
		}
		f.Panels = n
	}
	f.Category = r.URL.Query().Get("category")

	list := s.templates.List(f)
	writeJSON(w, http.StatusOK, templatesResponse{
		Success:    true,
		Templates:  list,
		Count:      len(list),
		Categories: s.templates.Categories(),
	})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, out, err := s.templates.Parse(name)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, templateResponse{Success: true, Template: t, Outcome: out})
}
