package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/service"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: svc}
}

// Routes registers the recipe endpoints on r.
func (h *RecipeHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Post("/recommendations", h.HandleRecommend)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleReplace)
	r.Patch("/{id}", h.HandlePatch)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList handles GET /Recipes requests.
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipes)
}

// HandleGet handles GET /Recipes/{id} requests.
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipe)
}

// HandleRecommend handles POST /Recipes/recommendations requests. The body
// is a JSON array of product ids.
func (h *RecipeHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeBody[[]uuid.UUID](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var productIDs []uuid.UUID
	if ids != nil {
		productIDs = *ids
	}

	recipes, err := h.service.Recommend(r.Context(), productIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipes)
}

// HandleCreate handles POST /Recipes requests.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[model.RecipeCreateDTO](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+recipe.ID.String())
	writeSuccess(w, http.StatusCreated, recipe)
}

// HandleReplace handles PUT /Recipes/{id} requests.
func (h *RecipeHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := decodeBody[model.RecipeUpdateDTO](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Replace(r.Context(), id, req); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePatch handles PATCH /Recipes/{id} requests carrying a JSON Patch document.
func (h *RecipeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Patch(r.Context(), id, doc); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /Recipes/{id} requests.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
