package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/geometry"
)

// Load decodes the input named by opts.
func Load(opts Options) (*document.Document, error) {
	switch {
	case opts.Document != nil:
		return opts.Document, nil
	case opts.Path != "":
		return document.ReadFile(opts.Path)
	case opts.Data != nil:
		return document.ReadFormat(bytes.NewReader(opts.Data), opts.InputFormat)
	}
	return nil, apperr.New(apperr.ErrCodeInvalidInput, "no input document")
}

// Parse builds the model graph of the input and synthesizes every shaped
// element. Elements whose geometry fails to synthesize are moved to the
// dropped list.
func Parse(ctx context.Context, opts Options) (*document.Result, map[string]*geometry.Solid, error) {
	doc, err := Load(opts)
	if err != nil {
		return nil, nil, err
	}
	res, err := document.Parse(doc)
	if err != nil {
		return nil, nil, err
	}
	solids, err := res.Synthesize(ctx, opts.Workers)
	if err != nil {
		return nil, nil, err
	}
	if res.NoGeometricData && opts.RequireGeometry {
		return nil, nil, apperr.New(apperr.ErrCodeNoGeometricData, "%s has no element with complete geometry", opts.Source)
	}
	return res, solids, nil
}

// GraphHash hashes the canonical document of a parsed model. Documents that
// differ only in timestamp, key order or whitespace hash the same.
func GraphHash(res *document.Result, solids map[string]*geometry.Solid) (string, error) {
	canon := document.ToDocument(res.Graph, solids, document.WithClock(zeroClock))
	data, err := document.Marshal(canon)
	if err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}
	return cache.Hash(data), nil
}

func zeroClock() time.Time { return time.Unix(0, 0) }
