package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tomecat/tomecat"
)

// Categories returns the ordered category list.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	return c.loadCategories(ctx)
}

// AddCategory appends a category to the ordered list.
func (c *Catalog) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return tomecat.Errorf(tomecat.EINVALID, "category name required")
	}

	c.mu.Lock()
	err := func() error {
		names, err := c.loadCategories(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			if n == name {
				return tomecat.Errorf(tomecat.ECONFLICT, "category %q already exists", name)
			}
		}
		return c.saveCategories(ctx, append(names, name))
	}()
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeCategories})
	return nil
}

// RenameCategory renames a category and cascades the new name to every item
// referencing the old one.
func (c *Catalog) RenameCategory(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return tomecat.Errorf(tomecat.EINVALID, "category name required")
	}

	c.mu.Lock()
	err := func() error {
		names, err := c.loadCategories(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i, n := range names {
			if n == oldName {
				idx = i
			}
			if n == newName && oldName != newName {
				return tomecat.Errorf(tomecat.ECONFLICT, "category %q already exists", newName)
			}
		}
		if idx < 0 {
			return tomecat.Errorf(tomecat.ENOTFOUND, "category %q not found", oldName)
		}

		names[idx] = newName
		if err := c.saveCategories(ctx, names); err != nil {
			return err
		}

		// Cascade to items referencing the old name.
		items, err := c.FindItems(ctx, tomecat.ItemFilter{Category: &oldName})
		if err != nil {
			return err
		}
		for _, item := range items {
			item.Category = newName
			if err := c.saveItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	}()
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeCategories})
	return nil
}

// DeleteCategory removes a category from the list. Items keep their
// category field; the grouping view folds unknown names into Unlisted.
func (c *Catalog) DeleteCategory(ctx context.Context, name string) error {
	c.mu.Lock()
	err := func() error {
		names, err := c.loadCategories(ctx)
		if err != nil {
			return err
		}

		kept := names[:0]
		found := false
		for _, n := range names {
			if n == name {
				found = true
				continue
			}
			kept = append(kept, n)
		}
		if !found {
			return tomecat.Errorf(tomecat.ENOTFOUND, "category %q not found", name)
		}
		return c.saveCategories(ctx, kept)
	}()
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeCategories})
	return nil
}

// MoveCategory shifts a category by delta positions. Moves past either end
// are clamped.
func (c *Catalog) MoveCategory(ctx context.Context, name string, delta int) error {
	c.mu.Lock()
	moved := false
	err := func() error {
		names, err := c.loadCategories(ctx)
		if err != nil {
			return err
		}

		idx := -1
		for i, n := range names {
			if n == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return tomecat.Errorf(tomecat.ENOTFOUND, "category %q not found", name)
		}

		target := idx + delta
		if target < 0 {
			target = 0
		}
		if target > len(names)-1 {
			target = len(names) - 1
		}
		if target == idx {
			return nil
		}

		names = append(names[:idx], names[idx+1:]...)
		names = append(names[:target], append([]string{name}, names[target:]...)...)
		moved = true
		return c.saveCategories(ctx, names)
	}()
	c.mu.Unlock()

	if err != nil || !moved {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeCategories})
	return nil
}

// ItemsByCategory groups all items by category in category-list order.
// Items whose category is not in the list appear under Unlisted.
func (c *Catalog) ItemsByCategory(ctx context.Context) ([]tomecat.CategoryGroup, error) {
	names, err := c.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	items, err := c.FindItems(ctx, tomecat.ItemFilter{})
	if err != nil {
		return nil, err
	}

	known := make(map[string]int, len(names))
	groups := make([]tomecat.CategoryGroup, len(names))
	for i, n := range names {
		known[n] = i
		groups[i] = tomecat.CategoryGroup{Name: n}
	}

	var unlisted []*tomecat.Item
	for _, item := range items {
		if i, ok := known[item.Category]; ok {
			groups[i].Items = append(groups[i].Items, item)
			continue
		}
		unlisted = append(unlisted, item)
	}

	if i, ok := known[tomecat.CategoryUnlisted]; ok {
		groups[i].Items = append(groups[i].Items, unlisted...)
	} else if len(unlisted) > 0 {
		groups = append(groups, tomecat.CategoryGroup{Name: tomecat.CategoryUnlisted, Items: unlisted})
	}

	return groups, nil
}

func (c *Catalog) loadCategories(ctx context.Context) ([]string, error) {
	data, err := c.kv.Get(ctx, categoriesKey)
	if err != nil {
		if tomecat.ErrorCode(err) == tomecat.ENOTFOUND {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decode category list: %w", err)
	}
	return names, nil
}

func (c *Catalog) saveCategories(ctx context.Context, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode category list: %w", err)
	}
	return c.kv.Set(ctx, categoriesKey, data, 0)
}
