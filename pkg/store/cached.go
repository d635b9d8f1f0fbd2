package store

import (
	"context"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/document"
)

// Cached serves Get from a cache in front of a slower store. Put and
// Delete write through and drop the cached copy. List always reaches the
// backing store.
type Cached struct {
	Store
	cache cache.Cache
	keyer cache.Keyer
}

// NewCached wraps s. A nil keyer uses the default keyer.
func NewCached(s Store, c cache.Cache, keyer cache.Keyer) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{Store: s, cache: c, keyer: keyer}
}

func (c *Cached) Get(ctx context.Context, id string) (*document.Document, error) {
	key := c.keyer.DocumentKey(id)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		if doc, err := document.Unmarshal(data); err == nil {
			return doc, nil
		}
	}
	doc, err := c.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := document.Marshal(doc); err == nil {
		_ = c.cache.Set(ctx, key, data, cache.TTLDocument)
	}
	return doc, nil
}

func (c *Cached) Put(ctx context.Context, id string, doc *document.Document) (string, error) {
	id, err := c.Store.Put(ctx, id, doc)
	if err != nil {
		return "", err
	}
	_ = c.cache.Delete(ctx, c.keyer.DocumentKey(id))
	return id, nil
}

func (c *Cached) Delete(ctx context.Context, id string) error {
	_ = c.cache.Delete(ctx, c.keyer.DocumentKey(id))
	return c.Store.Delete(ctx, id)
}

// Close closes the backing store and the cache.
func (c *Cached) Close() error {
	err := c.Store.Close()
	if cerr := c.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

var _ Store = (*Cached)(nil)
