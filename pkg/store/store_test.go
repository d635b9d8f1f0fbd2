package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/observability"
)

func sampleDoc(name string, ts int64, elements, rels int) *document.Document {
	ie := &document.IrreducibleElement{Type: "free"}
	for i := range elements {
		ie.Elements = append(ie.Elements, document.Element{Name: string(rune('a' + i)), Type: "regular"})
	}
	for range rels {
		ie.Relationships = append(ie.Relationships, document.Relationship{
			Type:     "perfect",
			Elements: []document.RelElement{{Name: "a"}, {Name: "b"}},
		})
	}
	return &document.Document{
		Version:    document.Version,
		Name:       name,
		Population: "test",
		Timestamp:  ts,
		Models:     document.Models{IrreducibleElement: ie},
	}
}

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFormatDate(t *testing.T) {
	ns := time.Date(2023, 3, 7, 14, 5, 9, 0, time.UTC).UnixNano()
	assert.Equal(t, "07/03/2023 14:05:09", FormatDate(ns))
}

func TestSummarize(t *testing.T) {
	s := Summarize("x", sampleDoc("bridge", 0, 3, 2))
	assert.Equal(t, "bridge", s.Name)
	assert.Equal(t, 3, s.Elements)
	assert.Equal(t, 2, s.Relationships)

	empty := Summarize("y", &document.Document{Name: "bare"})
	assert.Zero(t, empty.Elements)
}

func TestSQLitePutGet(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	id, err := s.Put(ctx, "", sampleDoc("bridge", 1, 2, 1))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bridge", doc.Name)
	assert.Len(t, doc.Models.IrreducibleElement.Elements, 2)

	_, err = s.Put(ctx, id, sampleDoc("bridge v2", 2, 4, 3))
	require.NoError(t, err)
	doc, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bridge v2", doc.Name)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Elements)
	assert.Equal(t, 3, list[0].Relationships)
}

func TestSQLiteListOrder(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	s.Put(ctx, "old", sampleDoc("old", 100, 1, 0))
	s.Put(ctx, "new", sampleDoc("new", 200, 1, 0))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, FormatDate(100), list[1].Date)
}

func TestSQLiteNotFound(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	_, err := s.Get(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.ErrCodeModelNotFound), "got %v", err)
	err = s.Delete(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.ErrCodeModelNotFound), "got %v", err)

	id, _ := s.Put(ctx, "", sampleDoc("gone", 1, 1, 0))
	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.True(t, apperr.Is(err, apperr.ErrCodeModelNotFound))
}

func TestSQLiteRejectsBadID(t *testing.T) {
	_, err := openSQLite(t).Put(context.Background(), "../etc", sampleDoc("x", 1, 1, 0))
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput), "got %v", err)
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	backing := openSQLite(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	c := NewCached(backing, fc, nil)

	id, err := c.Put(ctx, "", sampleDoc("tower", 1, 1, 0))
	require.NoError(t, err)
	doc, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tower", doc.Name)

	// A write that bypasses the decorator is not seen until invalidated.
	_, err = backing.Put(ctx, id, sampleDoc("tower v2", 2, 1, 0))
	require.NoError(t, err)
	doc, err = c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tower", doc.Name)

	_, err = c.Put(ctx, id, sampleDoc("tower v3", 3, 1, 0))
	require.NoError(t, err)
	doc, err = c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tower v3", doc.Name)

	require.NoError(t, c.Delete(ctx, id))
	_, err = c.Get(ctx, id)
	assert.True(t, apperr.Is(err, apperr.ErrCodeModelNotFound))
}

type recordingHooks struct {
	observability.NoopStoreHooks
	ops []string
}

func (h *recordingHooks) OnStoreOp(_ context.Context, backend, op string, _ time.Duration, err error) {
	h.ops = append(h.ops, fmt.Sprintf("%s:%s:%v", backend, op, err != nil))
}

func TestObserved(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := Observe(openSQLite(t), "sqlite")
	id, err := s.Put(ctx, "", sampleDoc("arch", 1, 1, 0))
	require.NoError(t, err)
	_, err = s.Get(ctx, id)
	require.NoError(t, err)
	_, err = s.Get(ctx, "nope")
	require.Error(t, err)
	_, err = s.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"sqlite:put:false", "sqlite:get:false", "sqlite:get:true", "sqlite:list:false"}, hooks.ops)
}
