// Package session holds editable models for interactive collaborators.
//
// A [Session] owns one model graph plus the synthesized solid of every
// shaped element. Editors change it only through discrete commands
// ([Session.SetDimension], [Session.SetPosition], [Session.SetRotation],
// [Session.SetRelationship], [Session.DeleteElement]) or through [Session.Apply]
// with a decoded [Command]. Each session is mutated under its own mutex, so
// one session can be shared between request handlers.
//
// # Generations
//
// The generation counts topology replacements: loading a document, adding
// or removing relationships and deleting elements bump it. Work bound to a
// generation, such as a chunked force layout, is refused once the graph has
// moved on. The revision counts every successful command.
//
// # Storage
//
// Sessions expire after a TTL. A [Store] keeps them between requests:
//   - [MemoryStore]: live sessions in process memory
//   - [FileStore]: JSON snapshots on disk for the CLI
//   - [RedisStore]: JSON snapshots in Redis for multi-instance servers
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ievis/pkg/document"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/layout"
	"github.com/matzehuels/ievis/pkg/model"
)

// DefaultTTL is how long an idle session lives.
const DefaultTTL = 24 * time.Hour

// Session is one editable model.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu         sync.Mutex
	graph      *model.Graph
	solids     map[string]*geometry.Solid
	generation uint64
	revision   uint64
}

// New creates an empty session that expires after ttl.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		graph:     model.New(model.Info{}),
		solids:    map[string]*geometry.Solid{},
	}
}

// Open creates a session holding doc.
func Open(ctx context.Context, doc *document.Document, ttl time.Duration) (*Session, *document.Result, error) {
	s := New(ttl)
	res, err := s.Load(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	return s, res, nil
}

// Load replaces the graph wholesale with the parsed doc, rebuilds every
// solid and bumps the generation. On error the session is unchanged.
func (s *Session) Load(ctx context.Context, doc *document.Document) (*document.Result, error) {
	res, err := document.Parse(doc)
	if err != nil {
		return nil, err
	}
	solids, err := res.Synthesize(ctx, 0)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = res.Graph
	s.solids = solids
	s.generation++
	s.revision++
	return res, nil
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the expiry to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.mu.Lock()
	s.ExpiresAt = time.Now().Add(ttl)
	s.mu.Unlock()
}

// Generation returns the topology generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Revision returns the number of applied changes.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Read calls fn with the graph and solids under the session lock. fn must
// not retain or modify them.
func (s *Session) Read(fn func(g *model.Graph, solids map[string]*geometry.Solid)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.graph, s.solids)
}

// Document serializes the current model.
func (s *Session) Document(opts ...document.Option) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.ToDocument(s.graph, s.solids, opts...)
}

// Layout computes positions for the current graph, bound to the current
// generation.
func (s *Session) Layout(opts ...layout.Option) layout.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.Compute(s.graph, append(opts, layout.WithGeneration(s.generation))...)
}

// Force starts a chunked force layout of the current graph. Advance it with
// [Session.Step].
func (s *Session) Force(p layout.Params) *layout.Force {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.NewForce(s.graph.ElementIDs(), layout.Edges(s.graph), p, s.generation)
}

// Step advances f by up to rounds rounds. It fails with STALE_GENERATION
// when the graph changed topology since f was started.
func (s *Session) Step(f *layout.Force, rounds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.Step(s.generation, rounds)
}
