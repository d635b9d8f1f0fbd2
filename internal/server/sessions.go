package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/model"
	"github.com/matzehuels/ievis/pkg/pipeline"
	"github.com/matzehuels/ievis/pkg/scene"
	"github.com/matzehuels/ievis/pkg/session"
	"github.com/matzehuels/ievis/pkg/store"
)

// sessionState is the response of every session mutation.
type sessionState struct {
	ID         string          `json:"id"`
	Generation uint64          `json:"generation"`
	Revision   uint64          `json:"revision"`
	ExpiresAt  time.Time       `json:"expires_at"`
	Shaped     []string        `json:"shaped,omitempty"`
	Dropped    []document.Drop `json:"dropped,omitempty"`
	Error      *errorBody      `json:"error,omitempty"` // first failed command of a batch
}

func stateOf(sess *session.Session, res *document.Result) sessionState {
	st := sessionState{
		ID:         sess.ID,
		Generation: sess.Generation(),
		Revision:   sess.Revision(),
		ExpiresAt:  sess.ExpiresAt,
	}
	if res != nil {
		st.Shaped = res.Shaped
		st.Dropped = res.Dropped
	}
	return st
}

// loadSession fetches the session named in the path and extends its life.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.cfg.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	sess.Touch(s.cfg.TTL)
	return sess, true
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if err := s.cfg.Sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "save session"))
		return false
	}
	return true
}

// handleCreateSession opens a session over a stored model (?model=id) or
// the request body.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var (
		doc *document.Document
		err error
	)
	if id := r.URL.Query().Get("model"); id != "" {
		if !s.requireStore(w, r) {
			return
		}
		doc, err = s.cfg.Store.Get(r.Context(), id)
	} else {
		doc, err = readDocument(r)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, res, err := session.Open(r.Context(), doc, s.cfg.TTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.saveSession(w, r, sess) {
		return
	}
	s.logger.Debug("opened session", "id", sess.ID, "elements", res.Graph.ElementCount())
	writeJSON(w, http.StatusCreated, stateOf(sess, res))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok || !s.saveSession(w, r, sess) {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess, nil))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Document())
}

// handleReloadSession replaces the session graph wholesale. Running force
// simulations against the old graph become stale.
func (s *Server) handleReloadSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	doc, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := sess.Load(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.saveSession(w, r, sess) {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess, res))
}

func (s *Server) sessionLayout(r *http.Request, sess *session.Session) layout.Result {
	opts := s.cfg.Defaults
	opts.SetLayoutDefaults()
	lopts := []layout.Option{layout.WithParams(opts.Layout)}
	if r.URL.Query().Get("validate") == "true" {
		lopts = append(lopts, layout.WithValidation(opts.Radius))
	}
	return sess.Layout(lopts...)
}

func (s *Server) handleSessionLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.sessionLayout(r, sess))
}

func (s *Server) handleSessionScene(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	opts, _, err := s.exportOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l := s.sessionLayout(r, sess)
	var sc *scene.Scene
	sess.Read(func(g *model.Graph, solids map[string]*geometry.Solid) {
		sc = pipeline.BuildScene(g, solids, l, opts)
	})
	writeJSON(w, http.StatusOK, sc)
}

// handleCommands applies one command or an array of commands in order.
// A batch stops at the first failing command; the commands before it stay
// applied and the failure is reported in the state.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	cmds, err := readCommands(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var failed error
	applied := 0
	for _, cmd := range cmds {
		if err := sess.Apply(cmd); err != nil {
			failed = err
			break
		}
		applied++
	}
	if applied > 0 && !s.saveSession(w, r, sess) {
		return
	}
	if failed != nil && len(cmds) == 1 {
		s.writeError(w, r, failed)
		return
	}

	st := stateOf(sess, nil)
	status := http.StatusOK
	if failed != nil {
		code := apperr.GetCode(failed)
		if code == "" {
			code = apperr.ErrCodeInternal
		}
		st.Error = &errorBody{Code: code, Message: apperr.UserMessage(failed)}
		status = StatusOf(failed)
	}
	writeJSON(w, status, st)
}

func readCommands(r *http.Request) ([]session.Command, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidCommand, err, "read body: %v", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidCommand, "empty command body")
	}
	var cmds []session.Command
	if body[0] == '[' {
		err = json.Unmarshal(body, &cmds)
	} else {
		var cmd session.Command
		err = json.Unmarshal(body, &cmd)
		cmds = []session.Command{cmd}
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidCommand, err, "decode command: %v", err)
	}
	return cmds, nil
}

// handleSaveSession writes the session document to the model store under
// ?id= (a new id when absent).
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	doc := sess.Document()
	id, err := s.cfg.Store.Put(r.Context(), r.URL.Query().Get("id"), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Summarize(id, doc))
}
