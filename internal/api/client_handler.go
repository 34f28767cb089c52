package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lfarias/loyalty-api/internal/api/shared"
	"github.com/lfarias/loyalty-api/internal/service"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService service.ClientService
	validator     *validator.Validate
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		validator:     validator.New(),
	}
}

// CreateClient handles POST /api/clients requests
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	client, err := h.clientService.CreateClient(r.Context(), req.CPF, req.Name, req.Phone, req.Email)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewClientResponse(client))
}

// GetClient handles GET /api/clients/{cpf} requests
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	cpf := chi.URLParam(r, "cpf")

	client, err := h.clientService.GetClient(r.Context(), cpf)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewClientResponse(client))
}

// UpdateClient handles PUT /api/clients/{cpf} requests
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	cpf := chi.URLParam(r, "cpf")

	var req UpdateClientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	client, err := h.clientService.UpdateClient(
		r.Context(), cpf, req.CPF, req.Name, req.Phone, req.Email)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewClientResponse(client))
}
