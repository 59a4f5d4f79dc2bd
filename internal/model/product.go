package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a food product in the catalogue.
type Product struct {
	ID               uuid.UUID
	Name             string
	Description      string
	Kcal             int
	Mass             float64
	NumberOfProducts int
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

// ProductDTO is the API representation of a product.
type ProductDTO struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Kcal             int        `json:"kcal"`
	Mass             float64    `json:"mass"`
	NumberOfProducts int        `json:"number_of_products"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ProductCreateDTO represents a product creation request.
type ProductCreateDTO struct {
	Name             string  `json:"name" validate:"required"`
	Description      string  `json:"description"`
	Kcal             int     `json:"kcal" validate:"gte=0"`
	Mass             float64 `json:"mass" validate:"gte=0"`
	NumberOfProducts int     `json:"number_of_products" validate:"gte=0"`
}

// ProductUpdateDTO represents a full product replacement and is the shape
// partial updates are applied to.
type ProductUpdateDTO struct {
	ID               uuid.UUID `json:"id" validate:"required"`
	Name             string    `json:"name" validate:"required"`
	Description      string    `json:"description"`
	Kcal             int       `json:"kcal" validate:"gte=0"`
	Mass             float64   `json:"mass" validate:"gte=0"`
	NumberOfProducts int       `json:"number_of_products" validate:"gte=0"`
}

func (p Product) ToDTO() ProductDTO {
	return ProductDTO{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Kcal:             p.Kcal,
		Mass:             p.Mass,
		NumberOfProducts: p.NumberOfProducts,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (p Product) ToUpdateDTO() ProductUpdateDTO {
	return ProductUpdateDTO{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Kcal:             p.Kcal,
		Mass:             p.Mass,
		NumberOfProducts: p.NumberOfProducts,
	}
}

func (d ProductCreateDTO) ToProduct() Product {
	return Product{
		Name:             d.Name,
		Description:      d.Description,
		Kcal:             d.Kcal,
		Mass:             d.Mass,
		NumberOfProducts: d.NumberOfProducts,
	}
}

func (d ProductUpdateDTO) ToProduct() Product {
	return Product{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Kcal:             d.Kcal,
		Mass:             d.Mass,
		NumberOfProducts: d.NumberOfProducts,
	}
}

// ProductsToDTO converts a slice of products, always returning a non-nil slice.
func ProductsToDTO(products []Product) []ProductDTO {
	result := make([]ProductDTO, len(products))
	for i, p := range products {
		result[i] = p.ToDTO()
	}
	return result
}
