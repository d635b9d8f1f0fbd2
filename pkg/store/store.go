// Package store persists structure documents.
//
// A [Store] holds whole documents addressed by an opaque id and can list
// them with element and relationship counts. [MongoStore] reads the shared
// structure collection; [SQLiteStore] keeps a local library in one file.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/ievis/pkg/document"
)

// DateLayout is how summary dates are displayed: day/month/year.
const DateLayout = "02/01/2006 15:04:05"

// ModelSummary describes one stored document without loading it.
type ModelSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Population    string `json:"population"`
	Timestamp     int64  `json:"timestamp"` // ns since epoch
	Date          string `json:"date"`
	Elements      int    `json:"elements"`
	Relationships int    `json:"relationships"`
}

// Store is a document repository. Implementations are safe for concurrent
// use.
type Store interface {
	// List returns summaries of every document that has a model section.
	List(ctx context.Context) ([]ModelSummary, error)

	// Get returns the document with the given id or MODEL_NOT_FOUND.
	Get(ctx context.Context, id string) (*document.Document, error)

	// Put stores doc under id, replacing any existing document. An empty id
	// allocates a new one. It returns the id used.
	Put(ctx context.Context, id string, doc *document.Document) (string, error)

	// Delete removes a document or returns MODEL_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases the backend connection.
	Close() error
}

// FormatDate renders a nanosecond timestamp with [DateLayout] in UTC.
func FormatDate(ns int64) string {
	return time.Unix(0, ns).UTC().Format(DateLayout)
}

// Summarize builds the summary of doc stored under id.
func Summarize(id string, doc *document.Document) ModelSummary {
	s := ModelSummary{
		ID:         id,
		Name:       doc.Name,
		Population: doc.Population,
		Timestamp:  doc.Timestamp,
		Date:       FormatDate(doc.Timestamp),
	}
	if ie := doc.Models.IrreducibleElement; ie != nil {
		s.Elements = len(ie.Elements)
		s.Relationships = len(ie.Relationships)
	}
	return s
}
