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

// ProductService handles product business logic.
type ProductService struct {
	repo *repository.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List returns every product in creation order.
func (s *ProductService) List(ctx context.Context) ([]model.ProductDTO, error) {
	products, err := s.repo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	return model.ProductsToDTO(products), nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (model.ProductDTO, error) {
	if id == uuid.Nil {
		return model.ProductDTO{}, ErrInvalidID
	}

	product, err := s.repo.Get(ctx, id.String(), store.NoTracking())
	if err != nil {
		return model.ProductDTO{}, notFound(err, "product", id)
	}
	return product.ToDTO(), nil
}

// Create adds a product. Names are unique ignoring case.
func (s *ProductService) Create(ctx context.Context, req *model.ProductCreateDTO) (model.ProductDTO, error) {
	if req == nil {
		return model.ProductDTO{}, ErrBodyRequired
	}
	if err := validateStruct(req); err != nil {
		return model.ProductDTO{}, err
	}

	_, err := s.repo.FindByName(ctx, req.Name)
	switch {
	case err == nil:
		return model.ProductDTO{}, ErrNameTaken
	case !errors.Is(err, store.ErrNotFound):
		return model.ProductDTO{}, err
	}

	product := req.ToProduct()
	if err := s.repo.Create(ctx, &product); err != nil {
		return model.ProductDTO{}, err
	}
	return product.ToDTO(), nil
}

// Replace overwrites every editable field of the product with id.
func (s *ProductService) Replace(ctx context.Context, id uuid.UUID, req *model.ProductUpdateDTO) error {
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
		return notFound(err, "product", id)
	}

	edited := req.ToProduct()
	edited.CreatedAt, edited.UpdatedAt = existing.CreatedAt, existing.UpdatedAt
	_, err = s.repo.Update(ctx, edited)
	return notFound(err, "product", id)
}

// Patch applies a JSON Patch document to the product with id. Nothing is
// persisted unless every operation applies and the result validates.
func (s *ProductService) Patch(ctx context.Context, id uuid.UUID, doc []byte) error {
	if id == uuid.Nil {
		return ErrInvalidID
	}
	if len(bytes.TrimSpace(doc)) == 0 {
		return ErrBodyRequired
	}

	existing, err := s.repo.Get(ctx, id.String(), store.NoTracking())
	if err != nil {
		return notFound(err, "product", id)
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

	edited := dto.ToProduct()
	edited.CreatedAt, edited.UpdatedAt = existing.CreatedAt, existing.UpdatedAt
	_, err = s.repo.Update(ctx, edited)
	return notFound(err, "product", id)
}

// Delete removes the product with id.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidID
	}

	product, err := s.repo.Get(ctx, id.String())
	if err != nil {
		return notFound(err, "product", id)
	}
	return notFound(s.repo.Remove(ctx, product), "product", id)
}
