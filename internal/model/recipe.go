package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Recipe represents a recipe together with the products it is made of.
// ProductIDs may contain duplicates; order carries no meaning.
type Recipe struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	ProductIDs  []uuid.UUID
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// RecipeDTO is the API representation of a recipe.
type RecipeDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url,omitempty"`
	ProductIDs  []uuid.UUID `json:"product_ids"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// RecipeCreateDTO represents a recipe creation request.
type RecipeCreateDTO struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url" validate:"omitempty,url"`
	ProductIDs  []uuid.UUID `json:"product_ids"`
}

// RecipeUpdateDTO represents a full recipe replacement and is the shape
// partial updates are applied to.
type RecipeUpdateDTO struct {
	ID          uuid.UUID   `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url" validate:"omitempty,url"`
	ProductIDs  []uuid.UUID `json:"product_ids"`
}

func (r Recipe) ToDTO() RecipeDTO {
	return RecipeDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ProductIDs:  cloneIDs(r.ProductIDs),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r Recipe) ToUpdateDTO() RecipeUpdateDTO {
	return RecipeUpdateDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ProductIDs:  cloneIDs(r.ProductIDs),
	}
}

func (d RecipeCreateDTO) ToRecipe() Recipe {
	return Recipe{
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		ProductIDs:  cloneIDs(d.ProductIDs),
	}
}

func (d RecipeUpdateDTO) ToRecipe() Recipe {
	return Recipe{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		ProductIDs:  cloneIDs(d.ProductIDs),
	}
}

// RecipesToDTO converts a slice of recipes, always returning a non-nil slice.
func RecipesToDTO(recipes []Recipe) []RecipeDTO {
	result := make([]RecipeDTO, len(recipes))
	for i, r := range recipes {
		result[i] = r.ToDTO()
	}
	return result
}

// cloneIDs never returns nil so product_ids always encodes as a JSON array.
func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return slices.Clone(ids)
}
