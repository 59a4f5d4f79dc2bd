package repository

import (
	"context"
	"strings"
	"time"

	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/store"
)

// ProductRepository handles product persistence operations.
type ProductRepository struct {
	store.Store[model.Product]
	now func() time.Time
}

// NewProductRepository creates a new ProductRepository over the given store.
func NewProductRepository(s store.Store[model.Product]) *ProductRepository {
	return &ProductRepository{Store: s, now: utcNow}
}

// Update refreshes the product's updated timestamp and persists it.
func (r *ProductRepository) Update(ctx context.Context, product model.Product) (model.Product, error) {
	product.UpdatedAt = touch(product.UpdatedAt, r.now())
	if err := r.Save(ctx, product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

// FindByName returns the first product whose name matches case-insensitively.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (model.Product, error) {
	return r.GetOne(ctx, func(p model.Product) bool {
		return strings.EqualFold(p.Name, name)
	}, store.NoTracking())
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// touch returns the new updated timestamp, never earlier than prev.
func touch(prev *time.Time, now time.Time) *time.Time {
	if prev != nil && now.Before(*prev) {
		now = *prev
	}
	return &now
}
