package bot

import (
	"context"

	"inventario-bot/internal/api"
	"inventario-bot/internal/cache"
)

// Cached list reads. Every screen of a family shares the family's
// cache bucket; mutations invalidate the whole bucket.

func (b *Bot) warehousePage(ctx context.Context, p api.ListParams) (*api.WarehousePage, error) {
	if v, ok := b.cache.Get(cache.FamilyWarehouses, p.CacheKey()); ok {
		return v.(*api.WarehousePage), nil
	}
	page, err := b.client.ListWarehouses(ctx, p)
	if err != nil {
		return nil, err
	}
	b.cache.Set(cache.FamilyWarehouses, p.CacheKey(), page)
	return page, nil
}

func (b *Bot) productPage(ctx context.Context, p api.ListParams) (*api.ProductPage, error) {
	if v, ok := b.cache.Get(cache.FamilyProducts, p.CacheKey()); ok {
		return v.(*api.ProductPage), nil
	}
	page, err := b.client.ListProducts(ctx, p)
	if err != nil {
		return nil, err
	}
	b.cache.Set(cache.FamilyProducts, p.CacheKey(), page)
	return page, nil
}

func (b *Bot) entityPage(ctx context.Context, p api.ListParams) (*api.EntityPage, error) {
	if v, ok := b.cache.Get(cache.FamilyEntities, p.CacheKey()); ok {
		return v.(*api.EntityPage), nil
	}
	page, err := b.client.ListEntities(ctx, p)
	if err != nil {
		return nil, err
	}
	b.cache.Set(cache.FamilyEntities, p.CacheKey(), page)
	return page, nil
}

func (b *Bot) accountPage(ctx context.Context, p api.ListParams) (*api.AccountPage, error) {
	if v, ok := b.cache.Get(cache.FamilyAccounts, p.CacheKey()); ok {
		return v.(*api.AccountPage), nil
	}
	page, err := b.client.ListAccounts(ctx, p)
	if err != nil {
		return nil, err
	}
	b.cache.Set(cache.FamilyAccounts, p.CacheKey(), page)
	return page, nil
}

func (b *Bot) sheetPage(ctx context.Context, f api.SheetFilters) (*api.SheetPage, error) {
	key := f.CacheKey() + "&st=" + f.State + "&e=" + f.Entity
	if v, ok := b.cache.Get(cache.FamilySheets, key); ok {
		return v.(*api.SheetPage), nil
	}
	page, err := b.client.ListInventorySheets(ctx, f)
	if err != nil {
		return nil, err
	}
	b.cache.Set(cache.FamilySheets, key, page)
	return page, nil
}
