package tomecat

import "context"

// Change describes a catalog mutation delivered to subscribers.
type Change struct {
	Op     ChangeOp
	ItemID string // set for item mutations
}

// ChangeOp identifies the kind of catalog mutation.
type ChangeOp int

// Catalog mutation kinds.
const (
	ChangeItemUpserted ChangeOp = iota
	ChangeItemDeleted
	ChangeCategories
	ChangeReadHistory
)

// ChangeFunc receives a catalog change notification. Listeners observe
// post-mutation state; no ordering is guaranteed between listeners.
type ChangeFunc func(Change)

// CatalogService manages catalog items, categories, and read history.
// Every mutating call persists synchronously before notifying subscribers.
type CatalogService interface {
	// FindItemByID retrieves an item by ID.
	// Returns ENOTFOUND if the item does not exist.
	FindItemByID(ctx context.Context, id string) (*Item, error)

	// FindItems retrieves items matching the filter.
	FindItems(ctx context.Context, filter ItemFilter) ([]*Item, error)

	// UpsertItem creates the item if its ID is unset or unknown, and
	// replaces it otherwise.
	UpsertItem(ctx context.Context, item *Item) error

	// DeleteItem permanently removes an item and its stored content.
	// Returns ENOTFOUND if the item does not exist.
	DeleteItem(ctx context.Context, id string) error

	// Categories returns the ordered category list.
	Categories(ctx context.Context) ([]string, error)

	// AddCategory appends a category to the list.
	// Returns ECONFLICT if the name is already present.
	AddCategory(ctx context.Context, name string) error

	// RenameCategory renames a category and cascades the new name to every
	// item referencing the old one.
	// Returns ENOTFOUND if the category does not exist.
	RenameCategory(ctx context.Context, oldName, newName string) error

	// DeleteCategory removes a category from the list. Items keep their
	// category field; grouping folds unknown names into CategoryUnlisted.
	DeleteCategory(ctx context.Context, name string) error

	// MoveCategory shifts a category by delta positions in the ordered
	// list (-1 moves up, +1 moves down). Out-of-range moves are clamped.
	MoveCategory(ctx context.Context, name string, delta int) error

	// ItemsByCategory groups all items by category in category-list order.
	// Items whose category is not in the list appear under CategoryUnlisted.
	ItemsByCategory(ctx context.Context) ([]CategoryGroup, error)

	// IsRead reports whether the unit of a series has been read.
	IsRead(ctx context.Context, seriesID, unitID string) (bool, error)

	// ToggleRead flips the read state of a series unit.
	ToggleRead(ctx context.Context, seriesID, unitID string) error

	// Subscribe registers a change listener and returns its unsubscribe
	// function. The listener is invoked after each persisted mutation.
	Subscribe(fn ChangeFunc) (unsubscribe func())
}

// CategoryGroup is one category with its member items.
type CategoryGroup struct {
	Name  string
	Items []*Item
}
