package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/store"
)

// RecipeRepository handles recipe persistence operations.
type RecipeRepository struct {
	store.Store[model.Recipe]
	now func() time.Time
}

// NewRecipeRepository creates a new RecipeRepository over the given store.
func NewRecipeRepository(s store.Store[model.Recipe]) *RecipeRepository {
	return &RecipeRepository{Store: s, now: utcNow}
}

// Update refreshes the recipe's updated timestamp and persists it.
func (r *RecipeRepository) Update(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	recipe.UpdatedAt = touch(recipe.UpdatedAt, r.now())
	if err := r.Save(ctx, recipe); err != nil {
		return model.Recipe{}, err
	}
	return recipe, nil
}

// FindByName returns the first recipe whose name matches case-insensitively.
func (r *RecipeRepository) FindByName(ctx context.Context, name string) (model.Recipe, error) {
	return r.GetOne(ctx, func(rec model.Recipe) bool {
		return strings.EqualFold(rec.Name, name)
	}, store.NoTracking())
}

// Recommend returns every recipe that uses at least one of the given
// products. An empty id set matches nothing.
func (r *RecipeRepository) Recommend(ctx context.Context, productIDs []uuid.UUID) ([]model.Recipe, error) {
	return r.GetAll(ctx, UsesAnyProduct(productIDs))
}

// UsesAnyProduct matches recipes whose ingredient list intersects productIDs.
func UsesAnyProduct(productIDs []uuid.UUID) store.Filter[model.Recipe] {
	wanted := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}

	return func(rec model.Recipe) bool {
		for _, id := range rec.ProductIDs {
			if _, ok := wanted[id]; ok {
				return true
			}
		}
		return false
	}
}
