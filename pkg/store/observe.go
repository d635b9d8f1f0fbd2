package store

import (
	"context"
	"time"

	"github.com/matzehuels/ievis/pkg/document"
	"github.com/matzehuels/ievis/pkg/observability"
)

// Observed reports every operation of a store to the registered
// [observability.StoreHooks].
type Observed struct {
	Store
	backend string
}

// Observe wraps s, labelling its events with backend (e.g. "mongo").
func Observe(s Store, backend string) *Observed {
	return &Observed{Store: s, backend: backend}
}

func (o *Observed) report(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, o.backend, op, time.Since(start), err)
}

func (o *Observed) List(ctx context.Context) ([]ModelSummary, error) {
	start := time.Now()
	out, err := o.Store.List(ctx)
	o.report(ctx, "list", start, err)
	return out, err
}

func (o *Observed) Get(ctx context.Context, id string) (*document.Document, error) {
	start := time.Now()
	doc, err := o.Store.Get(ctx, id)
	o.report(ctx, "get", start, err)
	return doc, err
}

func (o *Observed) Put(ctx context.Context, id string, doc *document.Document) (string, error) {
	start := time.Now()
	id, err := o.Store.Put(ctx, id, doc)
	o.report(ctx, "put", start, err)
	return id, err
}

func (o *Observed) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := o.Store.Delete(ctx, id)
	o.report(ctx, "delete", start, err)
	return err
}

var _ Store = (*Observed)(nil)
