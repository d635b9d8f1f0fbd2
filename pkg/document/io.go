package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/ievis/pkg/errors"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// Format is an encoding of a document.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf picks the format from a file extension. Anything other than
// .yaml or .yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Marshal encodes a document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// WriteFile writes a document to path, as YAML when the extension says so.
func WriteFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(doc, f, FormatOf(path))
}

// Write writes a document as indented JSON.
func Write(doc *Document, w io.Writer) error {
	return writeTo(doc, w, JSON)
}

// ReadFile reads a document, decoding YAML for .yaml and .yml files and
// JSON otherwise.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f, FormatOf(path))
}

// Read decodes a JSON document.
func Read(r io.Reader) (*Document, error) {
	return readFrom(r, JSON)
}

// ReadFormat decodes a document in the given format.
func ReadFormat(r io.Reader, f Format) (*Document, error) {
	return readFrom(r, f)
}

// ParseFile reads and parses a document file.
func ParseFile(path string) (*Result, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(doc *Document, w io.Writer, f Format) error {
	if f == YAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader, f Format) (*Document, error) {
	var doc Document
	var err error
	if f == YAML {
		err = yaml.NewDecoder(r).Decode(&doc)
	} else {
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDocument, err, "decode")
	}
	return &doc, nil
}
