package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/service"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{service: svc}
}

// Routes registers the product endpoints on r.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleReplace)
	r.Patch("/{id}", h.HandlePatch)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList handles GET /Products requests.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, products)
}

// HandleGet handles GET /Products/{id} requests.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, product)
}

// HandleCreate handles POST /Products requests.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[model.ProductCreateDTO](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+product.ID.String())
	writeSuccess(w, http.StatusCreated, product)
}

// HandleReplace handles PUT /Products/{id} requests.
func (h *ProductHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := decodeBody[model.ProductUpdateDTO](w, r)
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

// HandlePatch handles PATCH /Products/{id} requests carrying a JSON Patch document.
func (h *ProductHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
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

// HandleDelete handles DELETE /Products/{id} requests.
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
