// Package conflict stages manually uploaded files into the catalog and
// queues duplicate-title collisions for user resolution.
package conflict

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/tomecat/tomecat"
)

// Resolver inserts uploaded files into the catalog. Files whose normalized
// name collides with an existing item title are held in an in-memory FIFO
// queue until resolved one at a time.
type Resolver struct {
	Catalog tomecat.CatalogService
	Blobs   tomecat.BlobStore

	mu      sync.Mutex
	pending []tomecat.ConflictRecord
}

// StageUploads inserts each file that does not collide with an existing
// item title and queues a conflict record for each one that does. It
// returns the number of items inserted and the number of conflicts queued.
func (r *Resolver) StageUploads(ctx context.Context, files []tomecat.IncomingFile, targetCategory string) (inserted, conflicts int, err error) {
	items, err := r.Catalog.FindItems(ctx, tomecat.ItemFilter{})
	if err != nil {
		return 0, 0, err
	}

	byTitle := make(map[string]*tomecat.Item, len(items))
	for _, item := range items {
		byTitle[normalizeTitle(item.Title)] = item
	}

	for _, file := range files {
		existing := byTitle[normalizeName(file.Name)]
		if existing != nil {
			r.mu.Lock()
			r.pending = append(r.pending, tomecat.ConflictRecord{
				Incoming:       file,
				Existing:       existing,
				TargetCategory: targetCategory,
			})
			r.mu.Unlock()
			conflicts++
			continue
		}

		item, err := r.insert(ctx, file, displayName(file.Name), targetCategory)
		if err != nil {
			return inserted, conflicts, err
		}
		byTitle[normalizeTitle(item.Title)] = item
		inserted++
	}
	return inserted, conflicts, nil
}

// Pending returns the queued conflict records, oldest first.
func (r *Resolver) Pending() []tomecat.ConflictRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tomecat.ConflictRecord(nil), r.pending...)
}

// Resolve applies decision to the head of the queue. Exactly one record is
// removed per call, whatever the decision.
func (r *Resolver) Resolve(ctx context.Context, decision tomecat.Decision) error {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return tomecat.Errorf(tomecat.ENOTFOUND, "no pending conflicts")
	}
	record := r.pending[0]
	r.pending = r.pending[1:]
	r.mu.Unlock()

	switch decision {
	case tomecat.DecisionReplace:
		category := record.TargetCategory
		if category == "" {
			category = record.Existing.Category
		}
		if err := r.Catalog.DeleteItem(ctx, record.Existing.ID); err != nil {
			return err
		}
		_, err := r.insert(ctx, record.Incoming, displayName(record.Incoming.Name), category)
		return err

	case tomecat.DecisionKeepBoth:
		title, err := r.copyTitle(ctx, displayName(record.Incoming.Name))
		if err != nil {
			return err
		}
		_, err = r.insert(ctx, record.Incoming, title, record.TargetCategory)
		return err

	case tomecat.DecisionSkip:
		return nil

	default:
		return tomecat.Errorf(tomecat.EINVALID, "unknown conflict decision %d", decision)
	}
}

func (r *Resolver) insert(ctx context.Context, file tomecat.IncomingFile, title, category string) (*tomecat.Item, error) {
	ref := fmt.Sprintf("%016x", xxhash.Sum64(file.Data))
	if err := r.Blobs.SaveAsset(ctx, ref, file.Data); err != nil {
		return nil, err
	}

	item := &tomecat.Item{
		Title:            title,
		Kind:             tomecat.KindDocument,
		Source:           tomecat.SourceLocal,
		Category:         category,
		ContentRef:       ref,
		Downloaded:       true,
		DownloadProgress: 100,
	}
	if err := r.Catalog.UpsertItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// copyTitle picks the first " (Copy)" variant of base not already taken by
// a catalog item.
func (r *Resolver) copyTitle(ctx context.Context, base string) (string, error) {
	items, err := r.Catalog.FindItems(ctx, tomecat.ItemFilter{})
	if err != nil {
		return "", err
	}

	taken := make(map[string]bool, len(items))
	for _, item := range items {
		taken[normalizeTitle(item.Title)] = true
	}

	title := base + " (Copy)"
	for n := 2; taken[normalizeTitle(title)]; n++ {
		title = fmt.Sprintf("%s (Copy %d)", base, n)
	}
	return title, nil
}

// displayName strips the file extension, keeping the name otherwise as
// uploaded.
func displayName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// normalizeName folds an uploaded file name into comparison form:
// extension stripped, case folded, underscores and hyphens treated as
// spaces.
func normalizeName(name string) string {
	return normalizeTitle(displayName(name))
}

func normalizeTitle(title string) string {
	title = strings.ToLower(title)
	title = strings.NewReplacer("_", " ", "-", " ").Replace(title)
	return strings.Join(strings.Fields(title), " ")
}
