package mock

import (
	"context"

	"github.com/tomecat/tomecat"
)

var _ tomecat.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of tomecat.CatalogService.
type CatalogService struct {
	FindItemByIDFn    func(ctx context.Context, id string) (*tomecat.Item, error)
	FindItemsFn       func(ctx context.Context, filter tomecat.ItemFilter) ([]*tomecat.Item, error)
	UpsertItemFn      func(ctx context.Context, item *tomecat.Item) error
	DeleteItemFn      func(ctx context.Context, id string) error
	CategoriesFn      func(ctx context.Context) ([]string, error)
	AddCategoryFn     func(ctx context.Context, name string) error
	RenameCategoryFn  func(ctx context.Context, oldName, newName string) error
	DeleteCategoryFn  func(ctx context.Context, name string) error
	MoveCategoryFn    func(ctx context.Context, name string, delta int) error
	ItemsByCategoryFn func(ctx context.Context) ([]tomecat.CategoryGroup, error)
	IsReadFn          func(ctx context.Context, seriesID, unitID string) (bool, error)
	ToggleReadFn      func(ctx context.Context, seriesID, unitID string) error
	SubscribeFn       func(fn tomecat.ChangeFunc) func()
}

func (s *CatalogService) FindItemByID(ctx context.Context, id string) (*tomecat.Item, error) {
	return s.FindItemByIDFn(ctx, id)
}

func (s *CatalogService) FindItems(ctx context.Context, filter tomecat.ItemFilter) ([]*tomecat.Item, error) {
	return s.FindItemsFn(ctx, filter)
}

func (s *CatalogService) UpsertItem(ctx context.Context, item *tomecat.Item) error {
	return s.UpsertItemFn(ctx, item)
}

func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	return s.DeleteItemFn(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.CategoriesFn(ctx)
}

func (s *CatalogService) AddCategory(ctx context.Context, name string) error {
	return s.AddCategoryFn(ctx, name)
}

func (s *CatalogService) RenameCategory(ctx context.Context, oldName, newName string) error {
	return s.RenameCategoryFn(ctx, oldName, newName)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, name string) error {
	return s.DeleteCategoryFn(ctx, name)
}

func (s *CatalogService) MoveCategory(ctx context.Context, name string, delta int) error {
	return s.MoveCategoryFn(ctx, name, delta)
}

func (s *CatalogService) ItemsByCategory(ctx context.Context) ([]tomecat.CategoryGroup, error) {
	return s.ItemsByCategoryFn(ctx)
}

func (s *CatalogService) IsRead(ctx context.Context, seriesID, unitID string) (bool, error) {
	return s.IsReadFn(ctx, seriesID, unitID)
}

func (s *CatalogService) ToggleRead(ctx context.Context, seriesID, unitID string) error {
	return s.ToggleReadFn(ctx, seriesID, unitID)
}

func (s *CatalogService) Subscribe(fn tomecat.ChangeFunc) func() {
	return s.SubscribeFn(fn)
}
