// Package catalog implements the content catalog over durable key-value
// and blob stores. It owns items, the ordered category list, and read
// history, and fans out change notifications to subscribers.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tomecat/tomecat"
)

// KV key layout.
const (
	itemKeyPrefix = "item/"
	categoriesKey = "categories"
	readKeyPrefix = "read/"
)

// Compile-time interface verification.
var _ tomecat.CatalogService = (*Catalog)(nil)

// Catalog implements tomecat.CatalogService. Mutations are serialized by a
// mutex so read-modify-write sequences (category list edits, rename
// cascades) stay consistent under concurrent callers.
type Catalog struct {
	kv    tomecat.KV
	blobs tomecat.BlobStore

	mu sync.Mutex // serializes mutations

	subMu   sync.RWMutex
	subs    map[int]tomecat.ChangeFunc
	nextSub int
}

// New creates a Catalog backed by the given stores.
func New(kv tomecat.KV, blobs tomecat.BlobStore) *Catalog {
	return &Catalog{
		kv:    kv,
		blobs: blobs,
		subs:  make(map[int]tomecat.ChangeFunc),
	}
}

// FindItemByID retrieves an item by ID.
func (c *Catalog) FindItemByID(ctx context.Context, id string) (*tomecat.Item, error) {
	return c.loadItem(ctx, id)
}

// FindItems retrieves items matching the filter, ordered by title.
func (c *Catalog) FindItems(ctx context.Context, filter tomecat.ItemFilter) ([]*tomecat.Item, error) {
	if filter.ID != nil {
		item, err := c.loadItem(ctx, *filter.ID)
		if err != nil {
			if tomecat.ErrorCode(err) == tomecat.ENOTFOUND {
				return nil, nil
			}
			return nil, err
		}
		return []*tomecat.Item{item}, nil
	}

	keys, err := c.kv.Keys(ctx, itemKeyPrefix)
	if err != nil {
		return nil, err
	}

	var items []*tomecat.Item
	for _, key := range keys {
		item, err := c.loadItem(ctx, strings.TrimPrefix(key, itemKeyPrefix))
		if err != nil {
			// Entries deleted between Keys and Get are not an error.
			if tomecat.ErrorCode(err) == tomecat.ENOTFOUND {
				continue
			}
			return nil, err
		}
		if filter.Kind != nil && item.Kind != *filter.Kind {
			continue
		}
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return nil, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}

	return items, nil
}

// UpsertItem creates or replaces an item, then notifies subscribers.
func (c *Catalog) UpsertItem(ctx context.Context, item *tomecat.Item) error {
	if item.Category == "" {
		item.Category = tomecat.CategoryUnlisted
	}
	if err := item.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	now := time.Now().UTC()
	if item.ID == "" {
		item.ID = uuid.New().String()
		item.CreatedAt = now
	} else if existing, err := c.loadItem(ctx, item.ID); err == nil {
		item.CreatedAt = existing.CreatedAt
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	err := c.saveItem(ctx, item)
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeItemUpserted, ItemID: item.ID})
	return nil
}

// DeleteItem removes an item and its stored content.
func (c *Catalog) DeleteItem(ctx context.Context, id string) error {
	c.mu.Lock()
	err := func() error {
		item, err := c.loadItem(ctx, id)
		if err != nil {
			return err
		}

		if err := c.kv.Delete(ctx, itemKeyPrefix+id); err != nil {
			return err
		}
		if item.ContentRef != "" {
			if err := c.blobs.DeleteAsset(ctx, item.ContentRef); err != nil {
				return fmt.Errorf("delete asset %q: %w", item.ContentRef, err)
			}
		}
		return nil
	}()
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeItemDeleted, ItemID: id})
	return nil
}

func (c *Catalog) loadItem(ctx context.Context, id string) (*tomecat.Item, error) {
	data, err := c.kv.Get(ctx, itemKeyPrefix+id)
	if err != nil {
		if tomecat.ErrorCode(err) == tomecat.ENOTFOUND {
			return nil, tomecat.Errorf(tomecat.ENOTFOUND, "item %q not found", id)
		}
		return nil, err
	}

	var item tomecat.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode item %q: %w", id, err)
	}
	return &item, nil
}

func (c *Catalog) saveItem(ctx context.Context, item *tomecat.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item %q: %w", item.ID, err)
	}
	return c.kv.Set(ctx, itemKeyPrefix+item.ID, data, 0)
}

// Subscribe registers a change listener. The returned function removes it.
func (c *Catalog) Subscribe(fn tomecat.ChangeFunc) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// notify fans a change out to all subscribers. Listeners run on the
// mutating goroutine after the mutation has been persisted; the mutation
// mutex is not held, so listeners may call back into the catalog.
func (c *Catalog) notify(change tomecat.Change) {
	c.subMu.RLock()
	fns := make([]tomecat.ChangeFunc, 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}
