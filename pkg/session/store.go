package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
)

// Store keeps sessions between requests. Get returns a SESSION_NOT_FOUND
// error for unknown or expired ids.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)
	Close() error
}

// Snapshot is the serializable form of a session used by the file and
// Redis stores.
type Snapshot struct {
	ID         string             `json:"id"`
	Generation uint64             `json:"generation"`
	Revision   uint64             `json:"revision"`
	CreatedAt  time.Time          `json:"created_at"`
	ExpiresAt  time.Time          `json:"expires_at"`
	Document   *document.Document `json:"document"`
}

// Snapshot captures the session's model and counters.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{
		ID:         s.ID,
		Generation: s.generation,
		Revision:   s.revision,
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
		Document:   document.ToDocument(s.graph, s.solids),
	}
}

// Restore rebuilds a session from a snapshot, re-synthesizing every solid.
func Restore(ctx context.Context, snap *Snapshot) (*Session, error) {
	s := &Session{ID: snap.ID, CreatedAt: snap.CreatedAt, ExpiresAt: snap.ExpiresAt}
	if _, err := s.Load(ctx, snap.Document); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "restore session %s", snap.ID)
	}
	s.generation = snap.Generation
	s.revision = snap.Revision
	return s, nil
}

func sessionNotFound(id string) error {
	return apperr.New(apperr.ErrCodeSessionNotFound, "session %q not found", id)
}

// MemoryStore holds live sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]*Session{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || sess.IsExpired() {
		return nil, sessionNotFound(id)
	}
	return sess, nil
}

func (m *MemoryStore) Set(_ context.Context, sess *Session) error {
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Cleanup(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for id, sess := range m.sessions {
		if sess.IsExpired() {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of held sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
