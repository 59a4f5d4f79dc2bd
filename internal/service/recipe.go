package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
	"github.com/recipebook/recipebook-go/internal/store"
)

// RecipeService handles recipe business logic.
type RecipeService struct {
	repo *repository.RecipeRepository
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo *repository.RecipeRepository) *RecipeService {
	return &RecipeService{repo: repo}
}

// List returns every recipe in creation order.
func (s *RecipeService) List(ctx context.Context) ([]model.RecipeDTO, error) {
	recipes, err := s.repo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	return model.RecipesToDTO(recipes), nil
}

// Get returns a single recipe.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (model.RecipeDTO, error) {
	if id == uuid.Nil {
		return model.RecipeDTO{}, ErrInvalidID
	}

	recipe, err := s.repo.Get(ctx, id.String(), store.NoTracking())
	if err != nil {
		return model.RecipeDTO{}, notFound(err, "recipe", id)
	}
	return recipe.ToDTO(), nil
}

// Recommend returns the recipes that use at least one of productIDs. A nil
// slice means the request carried no list at all.
func (s *RecipeService) Recommend(ctx context.Context, productIDs []uuid.UUID) ([]model.RecipeDTO, error) {
	if productIDs == nil {
		return nil, ErrBodyRequired
	}

	recipes, err := s.repo.Recommend(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	return model.RecipesToDTO(recipes), nil
}

// Create adds a recipe. Names are unique ignoring case.
func (s *RecipeService) Create(ctx context.Context, req *model.RecipeCreateDTO) (model.RecipeDTO, error) {
	if req == nil {
		return model.RecipeDTO{}, ErrBodyRequired
	}
	if err := validateStruct(req); err != nil {
		return model.RecipeDTO{}, err
	}

	_, err := s.repo.FindByName(ctx, req.Name)
	switch {
	case err == nil:
		return model.RecipeDTO{}, ErrNameTaken
	case !errors.Is(err, store.ErrNotFound):
		return model.RecipeDTO{}, err
	}

	recipe := req.ToRecipe()
	if err := s.repo.Create(ctx, &recipe); err != nil {
		return model.RecipeDTO{}, err
	}
	return recipe.ToDTO(), nil
}

// Replace overwrites every editable field of the recipe with id.
func (s *RecipeService) Replace(ctx context.Context, id uuid.UUID, req *model.RecipeUpdateDTO) error {
	if req == nil {
		return ErrBodyRequired
	}
	if id == uuid.Nil {
		return ErrInvalidID
	}
	if req.ID != id {
		return ErrIDMismatch
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	existing, err := s.repo.Get(ctx, id.String())
	if err != nil {
		return notFound(err, "recipe", id)
	}

	edited := req.ToRecipe()
	edited.CreatedAt, edited.UpdatedAt = existing.CreatedAt, existing.UpdatedAt
	_, err = s.repo.Update(ctx, edited)
	return notFound(err, "recipe", id)
}

// Patch applies a JSON Patch document to the recipe with id. Nothing is
// persisted unless every operation applies and the result validates.
func (s *RecipeService) Patch(ctx context.Context, id uuid.UUID, doc []byte) error {
	if id == uuid.Nil {
		return ErrInvalidID
	}
	if len(bytes.TrimSpace(doc)) == 0 {
		return ErrBodyRequired
	}

	existing, err := s.repo.Get(ctx, id.String(), store.NoTracking())
	if err != nil {
		return notFound(err, "recipe", id)
	}

	dto := existing.ToUpdateDTO()
	if err := applyPatch(doc, &dto); err != nil {
		return err
	}
	if err := validateStruct(&dto); err != nil {
		return err
	}
	if dto.ID != id {
		return &ValidationError{Messages: []string{"id cannot be changed"}}
	}

	edited := dto.ToRecipe()
	edited.CreatedAt, edited.UpdatedAt = existing.CreatedAt, existing.UpdatedAt
	_, err = s.repo.Update(ctx, edited)
	return notFound(err, "recipe", id)
}

// Delete removes the recipe with id.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidID
	}

	recipe, err := s.repo.Get(ctx, id.String())
	if err != nil {
		return notFound(err, "recipe", id)
	}
	return notFound(s.repo.Remove(ctx, recipe), "recipe", id)
}
