package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/siteplan/pkg/anneal"
	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/buildinfo"
	"github.com/matzehuels/siteplan/pkg/energy"
	"github.com/matzehuels/siteplan/pkg/errors"
	siteio "github.com/matzehuels/siteplan/pkg/io"
	"github.com/matzehuels/siteplan/pkg/pipeline"
)

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

type runResponse struct {
	Index      int             `json:"index"`
	ID         string          `json:"id"`
	Seed       uint64          `json:"seed"`
	Energy     float64         `json:"energy"`
	Report     audit.Report    `json:"report"`
	Stats      anneal.Stats    `json:"stats"`
	DurationMS int64           `json:"duration_ms"`
	Document   json.RawMessage `json:"document"`
	SVG        string          `json:"svg,omitempty"`
	Text       string          `json:"text,omitempty"`
}

type optimizeResponse struct {
	Seed       uint64        `json:"seed"`
	Best       int           `json:"best"`
	DurationMS int64         `json:"duration_ms"`
	Runs       []runResponse `json:"runs"`
	Sheet      string        `json:"sheet,omitempty"`
}

type auditResponse struct {
	Report    audit.Report     `json:"report"`
	Breakdown energy.Breakdown `json:"breakdown"`
	Document  json.RawMessage  `json:"document"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleSite(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Site)
}

// decodeOptions reads optimization options, filling the site from the
// server's configuration when the request omits it.
func (s *Server) decodeOptions(data []byte) (pipeline.Options, error) {
	var opts pipeline.Options
	if len(data) > 0 {
		if err := json.Unmarshal(data, &opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode options: %v", err)
		}
	}
	if opts.Site == nil {
		cfg := s.cfg.Site
		opts.Site = &cfg
	}
	for _, f := range opts.Formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return opts, errors.New(errors.ErrCodeInvalidFormat, "format %s is only available from /api/render", f)
		}
	}
	opts.Logger = s.logger
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	buf, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body: %v", err)
	}
	return buf, nil
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.decodeOptions(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := newOptimizeResponse(res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func newOptimizeResponse(res *pipeline.Result) (optimizeResponse, error) {
	resp := optimizeResponse{
		Seed:       res.Seed,
		Best:       res.Best().Index,
		DurationMS: res.Duration.Milliseconds(),
		Runs:       make([]runResponse, len(res.Runs)),
		Sheet:      string(res.Sheet),
	}
	for i, run := range res.Runs {
		doc, err := siteio.MarshalJSON(run.Document(res.Site))
		if err != nil {
			return resp, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
		}
		resp.Runs[i] = runResponse{
			Index:      run.Index,
			ID:         run.ID,
			Seed:       run.Seed,
			Energy:     run.Energy,
			Report:     run.Report,
			Stats:      run.Stats,
			DurationMS: run.Duration.Milliseconds(),
			Document:   doc,
			SVG:        string(run.Artifacts[pipeline.FormatSVG]),
			Text:       string(run.Artifacts[pipeline.FormatText]),
		}
	}
	return resp, nil
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (siteio.Document, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	return siteio.ReadJSONSite(body, s.cfg.Site)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := siteio.MarshalJSON(doc)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{
		Report:    audit.Summarize(doc.Violations),
		Breakdown: energy.DefaultWeights.Explain(doc.Layout, doc.Violations),
		Document:  data,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{Formats: []string{format}, Title: r.URL.Query().Get("title")}
	if r.URL.Query().Get("overlays") == "false" {
		off := false
		opts.Overlays = &off
	}
	artifacts, err := s.runner.Render(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}
