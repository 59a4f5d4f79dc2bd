package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Routes registers the authentication endpoints on r.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/register", h.HandleRegister)
}

// HandleRegister handles POST /UsersAuth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[model.RegistrationRequest](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// HandleLogin handles POST /UsersAuth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[model.LoginRequest](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp)
}
