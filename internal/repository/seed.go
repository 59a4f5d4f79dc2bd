package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/store"
)

var (
	eggsID   = uuid.MustParse("af1a1aa5-14a1-4cc6-8e5f-9dcb9b404fa1")
	potatoID = uuid.MustParse("1e43ccf9-6994-4495-8c52-d853c508441a")
	onionID  = uuid.MustParse("4e0f013a-b584-4d3a-b2f5-0ce2424d99f3")
)

// SampleProducts is the starter product catalogue.
func SampleProducts() []model.Product {
	return []model.Product{
		{ID: eggsID, Name: "Chicken eggs", Description: "Description", Kcal: 10},
		{ID: potatoID, Name: "Potato", Description: "Description", Kcal: 15},
		{ID: onionID, Name: "Onion", Description: "Description", Kcal: 25},
	}
}

// SampleRecipes is the starter recipe list built on SampleProducts.
func SampleRecipes() []model.Recipe {
	return []model.Recipe{
		{
			ID:          uuid.MustParse("5c1f7d0e-2f0a-4a59-9b64-3c2f1f0a7e01"),
			Name:        "Fried eggs",
			Description: "Description",
			ProductIDs:  []uuid.UUID{eggsID},
		},
		{
			ID:          uuid.MustParse("5c1f7d0e-2f0a-4a59-9b64-3c2f1f0a7e02"),
			Name:        "Potato with onion",
			Description: "Description",
			ProductIDs:  []uuid.UUID{potatoID, onionID},
		},
		{
			ID:          uuid.MustParse("5c1f7d0e-2f0a-4a59-9b64-3c2f1f0a7e03"),
			Name:        "Potato with egg and onion",
			Description: "Description",
			ProductIDs:  []uuid.UUID{eggsID, potatoID, onionID},
		},
	}
}

// Seed inserts the sample catalogue. Entries whose name already exists are
// skipped, so running it repeatedly is safe.
func Seed(ctx context.Context, products *ProductRepository, recipes *RecipeRepository) error {
	var added int

	for _, p := range SampleProducts() {
		_, err := products.FindByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed products: %w", err)
		}
		if err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		added++
	}

	for _, r := range SampleRecipes() {
		_, err := recipes.FindByName(ctx, r.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed recipes: %w", err)
		}
		if err := recipes.Create(ctx, &r); err != nil {
			return fmt.Errorf("seed recipe %q: %w", r.Name, err)
		}
		added++
	}

	slog.InfoContext(ctx, "sample data seeded", "added", added)
	return nil
}
