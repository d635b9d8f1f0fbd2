package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/pipeline"
	"github.com/matzehuels/ievis/pkg/store"
)

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.cfg.Store == nil {
		s.writeError(w, r, apperr.New(apperr.ErrCodeUnsupported, "no model store configured"))
		return false
	}
	return true
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	models, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if models == nil {
		models = []store.ModelSummary{}
	}
	writeJSON(w, http.StatusOK, models)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	doc, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePutModel serves both POST /models (new id) and PUT /models/{id}.
func (s *Server) handlePutModel(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	doc, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Reject documents that do not parse before storing them.
	if _, err := document.Parse(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.cfg.Store.Put(r.Context(), chi.URLParam(r, "id"), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, store.Summarize(id, doc))
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExploreModel runs the pipeline over a stored model.
func (s *Server) handleExploreModel(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	opts, format, err := s.exportOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Document = doc
	opts.Source = "model:" + id
	s.execute(w, r, opts, format)
}

// handleBuild runs the pipeline over the request body.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	opts, format, err := s.exportOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Document = doc
	opts.Source = "request"
	s.execute(w, r, opts, format)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	res, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	w.Header().Set("X-Layout-Mode", string(res.Layout.Mode))
	writeArtifact(w, format, res.Artifacts[format])
}
