package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/pipeline"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.Is(err, apperr.ErrCodeStaleGeneration):
		return http.StatusConflict
	case apperr.Is(err, apperr.ErrCodeNoGeometricData):
		return http.StatusUnprocessableEntity
	case apperr.IsInvalid(err):
		return http.StatusBadRequest
	case apperr.Is(err, apperr.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	msg := apperr.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeArtifact writes an export in its own content type.
func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// readDocument decodes a request body as JSON, or YAML when the content
// type says so.
func readDocument(r *http.Request) (*document.Document, error) {
	doc, err := document.ReadFormat(r.Body, bodyFormat(r))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDocument, err, "decode request body: %v", err)
	}
	return doc, nil
}

func bodyFormat(r *http.Request) document.Format {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return document.YAML
	}
	return document.JSON
}

// exportOptions reads the shared export query parameters.
func (s *Server) exportOptions(r *http.Request) (pipeline.Options, string, error) {
	opts := s.cfg.Defaults
	opts.Logger = s.logger
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatScene
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, "", apperr.New(apperr.ErrCodeInvalidInput, "%v", err)
	}
	opts.Formats = []string{format}

	if v := q.Get("scheme"); v != "" {
		opts.Scheme = v
	}
	if v := q.Get("scale"); v != "" {
		scale, err := parsePositive(v)
		if err != nil {
			return opts, "", apperr.New(apperr.ErrCodeInvalidInput, "scale: %v", err)
		}
		opts.Scale = scale
	}
	opts.Detailed = q.Get("detailed") == "true"
	opts.Pin = q.Get("pin") == "true"
	opts.Validate = q.Get("validate") == "true"
	if err := opts.ValidateForExport(); err != nil {
		return opts, "", apperr.New(apperr.ErrCodeInvalidInput, "%v", err)
	}
	return opts, format, nil
}
