package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/store"
)

// ProductSchema maps model.Product onto the products table.
var ProductSchema = store.Schema[model.Product]{
	Table:   "products",
	Columns: []string{"id", "name", "description", "kcal", "mass", "number_of_products", "created_at", "updated_at"},
	ID:      func(p model.Product) string { return p.ID.String() },
	Values: func(p model.Product) ([]any, error) {
		return []any{p.ID.String(), p.Name, p.Description, p.Kcal, p.Mass, p.NumberOfProducts, p.CreatedAt, p.UpdatedAt}, nil
	},
	Scan: func(sc store.Scanner) (model.Product, error) {
		var (
			p           model.Product
			id          string
			description sql.NullString
			created     sql.NullTime
			updated     sql.NullTime
		)
		if err := sc.Scan(&id, &p.Name, &description, &p.Kcal, &p.Mass, &p.NumberOfProducts, &created, &updated); err != nil {
			return model.Product{}, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return model.Product{}, fmt.Errorf("product id %q: %w", id, err)
		}
		p.ID = parsed
		p.Description = description.String
		p.CreatedAt = nullTime(created)
		p.UpdatedAt = nullTime(updated)
		return p, nil
	},
	BeforeCreate: func(p *model.Product, now time.Time) {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.CreatedAt = &now
	},
	Clone: func(p model.Product) model.Product {
		p.CreatedAt = cloneTime(p.CreatedAt)
		p.UpdatedAt = cloneTime(p.UpdatedAt)
		return p
	},
}

// RecipeSchema maps model.Recipe onto the recipes table. Ingredient product
// ids are stored as a JSON array.
var RecipeSchema = store.Schema[model.Recipe]{
	Table:   "recipes",
	Columns: []string{"id", "name", "description", "image_url", "product_ids", "created_at", "updated_at"},
	ID:      func(r model.Recipe) string { return r.ID.String() },
	Values: func(r model.Recipe) ([]any, error) {
		ids := r.ProductIDs
		if ids == nil {
			ids = []uuid.UUID{}
		}
		productIDs, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		return []any{r.ID.String(), r.Name, r.Description, r.ImageURL, productIDs, r.CreatedAt, r.UpdatedAt}, nil
	},
	Scan: func(sc store.Scanner) (model.Recipe, error) {
		var (
			r           model.Recipe
			id          string
			description sql.NullString
			imageURL    sql.NullString
			productIDs  []byte
			created     sql.NullTime
			updated     sql.NullTime
		)
		if err := sc.Scan(&id, &r.Name, &description, &imageURL, &productIDs, &created, &updated); err != nil {
			return model.Recipe{}, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return model.Recipe{}, fmt.Errorf("recipe id %q: %w", id, err)
		}
		r.ID = parsed
		r.Description = description.String
		r.ImageURL = imageURL.String
		if len(productIDs) > 0 {
			if err := json.Unmarshal(productIDs, &r.ProductIDs); err != nil {
				return model.Recipe{}, fmt.Errorf("recipe %s product_ids: %w", id, err)
			}
		}
		r.CreatedAt = nullTime(created)
		r.UpdatedAt = nullTime(updated)
		return r, nil
	},
	BeforeCreate: func(r *model.Recipe, now time.Time) {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.CreatedAt = &now
	},
	Clone: func(r model.Recipe) model.Recipe {
		r.ProductIDs = slices.Clone(r.ProductIDs)
		r.CreatedAt = cloneTime(r.CreatedAt)
		r.UpdatedAt = cloneTime(r.UpdatedAt)
		return r
	},
}

// UserSchema maps model.User onto the local_users table.
var UserSchema = store.Schema[model.User]{
	Table:   "local_users",
	Columns: []string{"id", "name", "email", "password", "profile_info", "role", "created_at"},
	ID:      func(u model.User) string { return u.ID.String() },
	Values: func(u model.User) ([]any, error) {
		return []any{u.ID.String(), u.Name, u.Email, u.Password, u.ProfileInfo, u.Role, u.CreatedAt}, nil
	},
	Scan: func(sc store.Scanner) (model.User, error) {
		var (
			u           model.User
			id          string
			name        sql.NullString
			profileInfo sql.NullString
			created     sql.NullTime
		)
		if err := sc.Scan(&id, &name, &u.Email, &u.Password, &profileInfo, &u.Role, &created); err != nil {
			return model.User{}, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return model.User{}, fmt.Errorf("user id %q: %w", id, err)
		}
		u.ID = parsed
		u.Name = name.String
		u.ProfileInfo = profileInfo.String
		u.CreatedAt = created.Time
		return u, nil
	},
	BeforeCreate: func(u *model.User, now time.Time) {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		u.CreatedAt = now
	},
	UniqueKeys: func(u model.User) []string {
		return []string{"email:" + strings.ToLower(u.Email)}
	},
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
